package dao

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/database"
)

// passcodeDAO 口令MongoDB数据访问实现
type passcodeDAO struct {
	db *database.MongoDB
}

// NewPasscodeDAO 创建口令DAO
func NewPasscodeDAO(db *database.MongoDB) PasscodeDAO {
	return &passcodeDAO{db: db}
}

func (d *passcodeDAO) collection() *mongo.Collection {
	return d.db.GetCollection(model.CollectionPasscodes)
}

// Exists 检查口令是否存在
func (d *passcodeDAO) Exists(ctx context.Context, passcode string) (bool, error) {
	err := d.collection().FindOne(ctx, bson.M{"passcode": passcode}).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, fmt.Errorf("find passcode: %w", err)
	}
	return true, nil
}
