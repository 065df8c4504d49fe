package converter

import (
	"time"

	"blog-platform/apps/blog-service/model"
)

// Converter 模型到API视图的转换器
type Converter struct{}

// NewConverter 创建转换器
func NewConverter() *Converter {
	return &Converter{}
}

// BlogListItem 公开列表视图，不含正文
type BlogListItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"excerpt"`
	Author    string    `json:"author"`
	Image     string    `json:"image,omitempty"`
	Tags      []string  `json:"tags"`
	Slug      string    `json:"slug"`
	ReadTime  int       `json:"readTime"`
	Views     int64     `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlogDetail 博客详情视图
type BlogDetail struct {
	BlogListItem
	Content string `json:"content"`
	Status  string `json:"status"`
}

// CommentView 公开评论视图，回复就地展开
type CommentView struct {
	ID        string         `json:"id"`
	BlogID    string         `json:"blogId"`
	Author    string         `json:"author"`
	Content   string         `json:"content"`
	Likes     int64          `json:"likes"`
	CreatedAt time.Time      `json:"createdAt"`
	Replies   []*CommentView `json:"replies"`
}

// AdminCommentView 管理端评论视图，附带所属博客摘要
type AdminCommentView struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	Email     string          `json:"email"`
	Content   string          `json:"content"`
	Status    string          `json:"status"`
	Likes     int64           `json:"likes"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Blog      *BlogRefView    `json:"blog"`
	Parent    *ParentStubView `json:"parentComment,omitempty"`
}

// BlogRefView 评论所属博客的摘要
type BlogRefView struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// ParentStubView 父评论引用
type ParentStubView struct {
	ID string `json:"id"`
}

// BlogPagination 博客分页信息
type BlogPagination struct {
	CurrentPage int64 `json:"currentPage"`
	TotalPages  int64 `json:"totalPages"`
	TotalPosts  int64 `json:"totalPosts"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// CommentPagination 评论分页信息
type CommentPagination struct {
	CurrentPage   int64 `json:"currentPage"`
	TotalPages    int64 `json:"totalPages"`
	TotalComments int64 `json:"totalComments"`
	HasNext       bool  `json:"hasNext"`
	HasPrev       bool  `json:"hasPrev"`
}

// BuildBlogListItem 构建列表项视图
func (c *Converter) BuildBlogListItem(blog *model.Blog) *BlogListItem {
	tags := blog.Tags
	if tags == nil {
		tags = []string{}
	}
	return &BlogListItem{
		ID:        blog.ID.Hex(),
		Title:     blog.Title,
		Excerpt:   blog.Excerpt,
		Author:    blog.Author,
		Image:     blog.Image,
		Tags:      tags,
		Slug:      blog.Slug,
		ReadTime:  blog.ReadTime,
		Views:     blog.Views,
		CreatedAt: blog.CreatedAt,
		UpdatedAt: blog.UpdatedAt,
	}
}

// BuildBlogListItems 构建列表视图
func (c *Converter) BuildBlogListItems(blogs []*model.Blog) []*BlogListItem {
	items := make([]*BlogListItem, 0, len(blogs))
	for _, blog := range blogs {
		items = append(items, c.BuildBlogListItem(blog))
	}
	return items
}

// BuildBlogDetail 构建详情视图
func (c *Converter) BuildBlogDetail(blog *model.Blog) *BlogDetail {
	return &BlogDetail{
		BlogListItem: *c.BuildBlogListItem(blog),
		Content:      blog.Content,
		Status:       blog.Status,
	}
}

// BuildBlogDetails 构建详情列表视图
func (c *Converter) BuildBlogDetails(blogs []*model.Blog) []*BlogDetail {
	items := make([]*BlogDetail, 0, len(blogs))
	for _, blog := range blogs {
		items = append(items, c.BuildBlogDetail(blog))
	}
	return items
}

// BuildCommentView 构建评论视图，replies为已过滤的子评论
func (c *Converter) BuildCommentView(comment *model.Comment, replies []*model.Comment) *CommentView {
	view := &CommentView{
		ID:        comment.ID.Hex(),
		BlogID:    comment.BlogID.Hex(),
		Author:    comment.Author,
		Content:   comment.Content,
		Likes:     comment.Likes,
		CreatedAt: comment.CreatedAt,
		Replies:   make([]*CommentView, 0, len(replies)),
	}
	for _, reply := range replies {
		view.Replies = append(view.Replies, c.BuildCommentView(reply, nil))
	}
	return view
}

// BuildAdminCommentView 构建管理端评论视图
func (c *Converter) BuildAdminCommentView(comment *model.Comment, blog *model.Blog) *AdminCommentView {
	view := &AdminCommentView{
		ID:        comment.ID.Hex(),
		Author:    comment.Author,
		Email:     comment.Email,
		Content:   comment.Content,
		Status:    comment.Status,
		Likes:     comment.Likes,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
	if blog != nil {
		view.Blog = &BlogRefView{
			ID:    blog.ID.Hex(),
			Title: blog.Title,
			Slug:  blog.Slug,
		}
	}
	if comment.ParentComment != nil {
		view.Parent = &ParentStubView{ID: comment.ParentComment.Hex()}
	}
	return view
}

// BuildBlogPagination 构建博客分页信息
func (c *Converter) BuildBlogPagination(page, limit, total int64) *BlogPagination {
	totalPages := totalPages(total, limit)
	return &BlogPagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// BuildCommentPagination 构建评论分页信息
func (c *Converter) BuildCommentPagination(page, limit, total int64) *CommentPagination {
	totalPages := totalPages(total, limit)
	return &CommentPagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalComments: total,
		HasNext:       page < totalPages,
		HasPrev:       page > 1,
	}
}

func totalPages(total, limit int64) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
