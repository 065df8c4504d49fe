package dao

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/database"
)

// blogDAO 博客MongoDB数据访问实现
type blogDAO struct {
	db *database.MongoDB
}

// NewBlogDAO 创建博客DAO
func NewBlogDAO(db *database.MongoDB) BlogDAO {
	return &blogDAO{db: db}
}

func (d *blogDAO) collection() *mongo.Collection {
	return d.db.GetCollection(model.CollectionBlogs)
}

// EnsureIndexes 创建博客集合索引
func (d *blogDAO) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "tags", Value: 1}},
		},
	}

	_, err := d.collection().Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create blog indexes: %w", err)
	}
	return nil
}

// CreateBlog 插入博客文档，slug冲突时返回ErrDuplicate
func (d *blogDAO) CreateBlog(ctx context.Context, blog *model.Blog) error {
	result, err := d.collection().InsertOne(ctx, blog)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: blog with this title already exists", model.ErrDuplicate)
		}
		return fmt.Errorf("insert blog: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		blog.ID = oid
	}
	return nil
}

// GetBlogByID 按ID查询博客
func (d *blogDAO) GetBlogByID(ctx context.Context, id primitive.ObjectID) (*model.Blog, error) {
	var blog model.Blog
	err := d.collection().FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: blog %s", model.ErrNotFound, id.Hex())
		}
		return nil, fmt.Errorf("find blog: %w", err)
	}
	return &blog, nil
}

// GetPublishedBlogBySlug 按slug查询已发布博客，原子递增浏览数并返回更新后的文档
func (d *blogDAO) GetPublishedBlogBySlug(ctx context.Context, slug string) (*model.Blog, error) {
	filter := bson.M{"slug": slug, "status": model.BlogStatusPublished}
	update := bson.M{"$inc": bson.M{"views": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var blog model.Blog
	err := d.collection().FindOneAndUpdate(ctx, filter, update, opts).Decode(&blog)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: blog %s", model.ErrNotFound, slug)
		}
		return nil, fmt.Errorf("find blog by slug: %w", err)
	}
	return &blog, nil
}

// ListBlogs 分页查询已发布博客，支持标签过滤与标题/内容子串搜索
func (d *blogDAO) ListBlogs(ctx context.Context, params *model.ListBlogsParams) ([]*model.Blog, int64, error) {
	filter := bson.M{"status": model.BlogStatusPublished}
	if params.Tag != "" {
		filter["tags"] = params.Tag
	}
	if params.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(params.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"excerpt": pattern},
		}
	}

	return d.findPage(ctx, filter, params.Page, params.Limit)
}

// ListAdminBlogs 管理端分页查询，可按状态过滤，包含草稿
func (d *blogDAO) ListAdminBlogs(ctx context.Context, params *model.AdminListBlogsParams) ([]*model.Blog, int64, error) {
	filter := bson.M{}
	if params.Status != "" {
		filter["status"] = params.Status
	}

	return d.findPage(ctx, filter, params.Page, params.Limit)
}

func (d *blogDAO) findPage(ctx context.Context, filter bson.M, page, limit int64) ([]*model.Blog, int64, error) {
	total, err := d.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count blogs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := d.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find blogs: %w", err)
	}
	defer cursor.Close(ctx)

	blogs := make([]*model.Blog, 0)
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, 0, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, total, nil
}

// UpdateBlog 整体更新博客可变字段
func (d *blogDAO) UpdateBlog(ctx context.Context, blog *model.Blog) error {
	update := bson.M{"$set": bson.M{
		"title":     blog.Title,
		"content":   blog.Content,
		"excerpt":   blog.Excerpt,
		"author":    blog.Author,
		"image":     blog.Image,
		"tags":      blog.Tags,
		"status":    blog.Status,
		"slug":      blog.Slug,
		"readTime":  blog.ReadTime,
		"updatedAt": blog.UpdatedAt,
	}}

	result, err := d.collection().UpdateOne(ctx, bson.M{"_id": blog.ID}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: blog with this title already exists", model.ErrDuplicate)
		}
		return fmt.Errorf("update blog: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: blog %s", model.ErrNotFound, blog.ID.Hex())
	}
	return nil
}

// DeleteBlog 删除博客文档
func (d *blogDAO) DeleteBlog(ctx context.Context, id primitive.ObjectID) error {
	result, err := d.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: blog %s", model.ErrNotFound, id.Hex())
	}
	return nil
}

// GetStats 聚合统计博客总数、发布数、草稿数与总浏览量
func (d *blogDAO) GetStats(ctx context.Context) (*model.BlogStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalPosts": bson.M{"$sum": 1},
			"publishedPosts": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", model.BlogStatusPublished}}, 1, 0},
			}},
			"draftPosts": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", model.BlogStatusDraft}}, 1, 0},
			}},
			"totalViews": bson.M{"$sum": "$views"},
		}}},
	}

	cursor, err := d.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate blog stats: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalPosts     int64 `bson:"totalPosts"`
		PublishedPosts int64 `bson:"publishedPosts"`
		DraftPosts     int64 `bson:"draftPosts"`
		TotalViews     int64 `bson:"totalViews"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode blog stats: %w", err)
	}

	stats := &model.BlogStats{}
	if len(results) > 0 {
		stats.TotalPosts = results[0].TotalPosts
		stats.PublishedPosts = results[0].PublishedPosts
		stats.DraftPosts = results[0].DraftPosts
		stats.TotalViews = results[0].TotalViews
	}
	return stats, nil
}
