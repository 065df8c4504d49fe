package dao

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"blog-platform/apps/blog-service/model"
)

// BlogDAO 博客数据访问接口
type BlogDAO interface {
	EnsureIndexes(ctx context.Context) error
	CreateBlog(ctx context.Context, blog *model.Blog) error
	GetBlogByID(ctx context.Context, id primitive.ObjectID) (*model.Blog, error)
	// GetPublishedBlogBySlug 查询已发布博客并原子递增浏览数，返回递增后的文档
	GetPublishedBlogBySlug(ctx context.Context, slug string) (*model.Blog, error)
	ListBlogs(ctx context.Context, params *model.ListBlogsParams) ([]*model.Blog, int64, error)
	ListAdminBlogs(ctx context.Context, params *model.AdminListBlogsParams) ([]*model.Blog, int64, error)
	UpdateBlog(ctx context.Context, blog *model.Blog) error
	DeleteBlog(ctx context.Context, id primitive.ObjectID) error
	GetStats(ctx context.Context) (*model.BlogStats, error)
}

// CommentDAO 评论数据访问接口
type CommentDAO interface {
	EnsureIndexes(ctx context.Context) error
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id primitive.ObjectID) (*model.Comment, error)
	// ListTopLevelComments 查询某博客下已通过的顶级评论，按创建时间倒序分页
	ListTopLevelComments(ctx context.Context, blogID primitive.ObjectID, skip, limit int64) ([]*model.Comment, int64, error)
	// GetCommentsByIDs 按ID集合查询指定状态的评论，用于回复列表填充
	GetCommentsByIDs(ctx context.Context, ids []primitive.ObjectID, status string) ([]*model.Comment, error)
	// IncrementLikes 原子点赞计数，返回递增后的值
	IncrementLikes(ctx context.Context, id primitive.ObjectID) (int64, error)
	UpdateCommentStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Comment, error)
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	// PushReply / PullReply 维护父评论的replies数组（各自为独立的单文档原子写）
	PushReply(ctx context.Context, parentID, childID primitive.ObjectID) error
	PullReply(ctx context.Context, parentID, childID primitive.ObjectID) error
	ListAdminComments(ctx context.Context, params *model.AdminListCommentsParams) ([]*model.Comment, int64, error)
}

// PasscodeDAO 口令数据访问接口
type PasscodeDAO interface {
	Exists(ctx context.Context, passcode string) (bool, error)
}
