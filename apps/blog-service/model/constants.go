package model

// 集合名称
const (
	CollectionBlogs     = "blogs"
	CollectionComments  = "comments"
	CollectionPasscodes = "passcodes"
)

// 博客状态常量
const (
	BlogStatusDraft     = "draft"     // 草稿
	BlogStatusPublished = "published" // 已发布
)

// 评论状态常量
const (
	CommentStatusPending  = "pending"  // 待审核
	CommentStatusApproved = "approved" // 已通过
	CommentStatusSpam     = "spam"     // 垃圾评论
)

// 分页常量
const (
	DefaultPage          = 1
	DefaultPageSize      = 10
	AdminDefaultPageSize = 20
	MaxPageSize          = 100
)

// 字段长度限制
const (
	MaxTitleLength   = 200
	MaxExcerptLength = 300
	MaxAuthorLength  = 100
	MaxEmailLength   = 100
	MaxCommentLength = 1000
)

// 阅读时长估算
const (
	WordsPerMinute  = 200 // 每分钟阅读词数
	DefaultReadTime = 5   // 正文为空时的默认阅读时长（分钟）
)

// DefaultAuthor 未提供作者时的缺省署名
const DefaultAuthor = "Admin"

// 缓存相关常量
const (
	BlogListCachePrefix    = "blog_list:"
	CommentListCachePrefix = "comment_list:"
	CacheExpireSeconds     = 300
)

// 事件类型常量
const (
	EventBlogCreated    = "blog.created"
	EventBlogUpdated    = "blog.updated"
	EventBlogDeleted    = "blog.deleted"
	EventCommentCreated = "comment.created"
	EventCommentStatus  = "comment.status_changed"
	EventCommentDeleted = "comment.deleted"
)

// ValidCommentStatus 校验评论状态取值
func ValidCommentStatus(status string) bool {
	switch status {
	case CommentStatusPending, CommentStatusApproved, CommentStatusSpam:
		return true
	}
	return false
}

// ValidBlogStatus 校验博客状态取值
func ValidBlogStatus(status string) bool {
	switch status {
	case BlogStatusDraft, BlogStatusPublished:
		return true
	}
	return false
}
