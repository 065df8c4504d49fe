package model

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog 博客文档
type Blog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Excerpt   string             `bson:"excerpt" json:"excerpt"`
	Author    string             `bson:"author" json:"author"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	Tags      []string           `bson:"tags" json:"tags"`
	Status    string             `bson:"status" json:"status"`
	Slug      string             `bson:"slug" json:"slug"`
	ReadTime  int                `bson:"readTime" json:"readTime"`
	Views     int64              `bson:"views" json:"views"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Comment 评论文档
type Comment struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	BlogID        primitive.ObjectID   `bson:"blogId" json:"blogId"`
	Author        string               `bson:"author" json:"author"`
	Email         string               `bson:"email" json:"email"`
	Content       string               `bson:"content" json:"content"`
	Status        string               `bson:"status" json:"status"`
	ParentComment *primitive.ObjectID  `bson:"parentComment" json:"parentComment"`
	Replies       []primitive.ObjectID `bson:"replies" json:"-"`
	Likes         int64                `bson:"likes" json:"likes"`
	UserAgent     string               `bson:"userAgent,omitempty" json:"-"`
	IPAddress     string               `bson:"ipAddress,omitempty" json:"-"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// IsTopLevel 判断是否为顶级评论
func (c *Comment) IsTopLevel() bool {
	return c.ParentComment == nil
}

// Passcode 管理口令文档
type Passcode struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Passcode string             `bson:"passcode" json:"passcode"`
}

// BlogStats 博客统计
type BlogStats struct {
	TotalPosts     int64 `json:"totalPosts"`
	PublishedPosts int64 `json:"publishedPosts"`
	DraftPosts     int64 `json:"draftPosts"`
	TotalViews     int64 `json:"totalViews"`
}

// 查询参数结构体

// CreateCommentParams 创建评论参数
type CreateCommentParams struct {
	BlogID        string
	Author        string
	Email         string
	Content       string
	ParentComment string // 可选，父评论ID的hex串
	IPAddress     string
	UserAgent     string
}

// ListCommentsParams 获取博客评论列表参数
type ListCommentsParams struct {
	BlogID string
	Page   int64
	Limit  int64
}

// AdminListCommentsParams 管理端评论列表参数
type AdminListCommentsParams struct {
	Page   int64
	Limit  int64
	Status string // 可选状态过滤
}

// CreateBlogParams 创建博客参数
type CreateBlogParams struct {
	Title   string
	Content string
	Excerpt string
	Author  string
	Image   string
	Tags    []string
	Status  string
}

// UpdateBlogParams 更新博客参数，nil字段表示不更新
type UpdateBlogParams struct {
	Title   *string
	Content *string
	Excerpt *string
	Author  *string
	Image   *string
	Tags    *[]string
	Status  *string
}

// ListBlogsParams 公开博客列表参数
type ListBlogsParams struct {
	Page   int64
	Limit  int64
	Tag    string // 可选标签过滤
	Search string // 可选子串搜索
}

// AdminListBlogsParams 管理端博客列表参数
type AdminListBlogsParams struct {
	Page   int64
	Limit  int64
	Status string // 可选状态过滤
}

// 辅助函数

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify 由标题生成slug：小写、非字母数字折叠为连字符、去掉首尾连字符
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// CalculateReadTime 按每分钟200词估算阅读时长，向上取整；正文为空时退回默认值
func CalculateReadTime(content string) int {
	words := len(strings.Fields(content))
	if words == 0 {
		return DefaultReadTime
	}
	return (words + WordsPerMinute - 1) / WordsPerMinute
}
