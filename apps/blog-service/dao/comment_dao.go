package dao

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/database"
)

// commentDAO 评论MongoDB数据访问实现
type commentDAO struct {
	db *database.MongoDB
}

// NewCommentDAO 创建评论DAO
func NewCommentDAO(db *database.MongoDB) CommentDAO {
	return &commentDAO{db: db}
}

func (d *commentDAO) collection() *mongo.Collection {
	return d.db.GetCollection(model.CollectionComments)
}

// EnsureIndexes 创建评论集合索引
func (d *commentDAO) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "blogId", Value: 1}, {Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "parentComment", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, err := d.collection().Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create comment indexes: %w", err)
	}
	return nil
}

// CreateComment 插入评论文档
func (d *commentDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	result, err := d.collection().InsertOne(ctx, comment)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = oid
	}
	return nil
}

// GetComment 按ID查询评论
func (d *commentDAO) GetComment(ctx context.Context, id primitive.ObjectID) (*model.Comment, error) {
	var comment model.Comment
	err := d.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return &comment, nil
}

// ListTopLevelComments 查询某博客下已通过的顶级评论，按创建时间倒序
func (d *commentDAO) ListTopLevelComments(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]*model.Comment, int64, error) {
	filter := bson.M{
		"blogId":        blogID,
		"status":        model.CommentStatusApproved,
		"parentComment": nil,
	}

	total, err := d.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := d.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := make([]*model.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, fmt.Errorf("decode comments: %w", err)
	}
	return comments, total, nil
}

// GetCommentsByIDs 按ID集合查询指定状态的评论
func (d *commentDAO) GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID, status string) ([]*model.Comment, error) {
	if len(ids) == 0 {
		return []*model.Comment{}, nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	if status != "" {
		filter["status"] = status
	}

	cursor, err := d.collection().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find comments by ids: %w", err)
	}
	defer cursor.Close(ctx)

	comments := make([]*model.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

// IncrementLikes 原子递增点赞计数，返回递增后的值
func (d *commentDAO) IncrementLikes(ctx context.Context, id primitive.ObjectID) (int64, error) {
	update := bson.M{"$inc": bson.M{"likes": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment model.Comment
	err := d.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
		}
		return 0, fmt.Errorf("increment comment likes: %w", err)
	}
	return comment.Likes, nil
}

// UpdateCommentStatus 更新评论审核状态，返回更新后的文档
func (d *commentDAO) UpdateCommentStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Comment, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var comment model.Comment
	err := d.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&comment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("update comment status: %w", err)
	}
	return &comment, nil
}

// DeleteComment 删除评论文档
func (d *commentDAO) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	result, err := d.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: comment %s", model.ErrNotFound, id.Hex())
	}
	return nil
}

// PushReply 将子评论ID追加到父评论的replies数组
func (d *commentDAO) PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	update := bson.M{"$push": bson.M{"replies": childID}}
	result, err := d.collection().UpdateOne(ctx, bson.M{"_id": parentID}, update)
	if err != nil {
		return fmt.Errorf("push reply: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: comment %s", model.ErrNotFound, parentID.Hex())
	}
	return nil
}

// PullReply 从父评论的replies数组移除子评论ID
func (d *commentDAO) PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error {
	update := bson.M{"$pull": bson.M{"replies": childID}}
	result, err := d.collection().UpdateOne(ctx, bson.M{"_id": parentID}, update)
	if err != nil {
		return fmt.Errorf("pull reply: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: comment %s", model.ErrNotFound, parentID.Hex())
	}
	return nil
}

// ListAdminComments 管理端分页查询全部评论，可按状态过滤
func (d *commentDAO) ListAdminComments(ctx context.Context, params *model.AdminListCommentsParams) ([]*model.Comment, int64, error) {
	filter := bson.M{}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	total, err := d.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((params.Page - 1) * params.Limit).
		SetLimit(params.Limit)

	cursor, err := d.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := make([]*model.Comment, 0)
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, fmt.Errorf("decode comments: %w", err)
	}
	return comments, total, nil
}
