package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/httpx"
)

// CreateBlogRequest 创建博客请求
type CreateBlogRequest struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Excerpt string   `json:"excerpt" binding:"required"`
	Author  string   `json:"author"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
	Status  string   `json:"status"`
}

// UpdateBlogRequest 更新博客请求，缺省字段不更新
type UpdateBlogRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Excerpt *string   `json:"excerpt"`
	Author  *string   `json:"author"`
	Image   *string   `json:"image"`
	Tags    *[]string `json:"tags"`
	Status  *string   `json:"status"`
}

// ListBlogs 公开博客列表
func (h *HTTPHandler) ListBlogs(c *gin.Context) {
	params := &model.ListBlogsParams{
		Page:   queryInt64(c, "page", model.DefaultPage),
		Limit:  queryInt64(c, "limit", model.DefaultPageSize),
		Tag:    c.Query("tag"),
		Search: c.Query("search"),
	}

	blogs, total, err := h.blogSvc.ListBlogs(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err, "Error fetching blog posts")
		return
	}

	page, limit := normalizePage(params.Page, params.Limit, model.DefaultPageSize)
	httpx.WritePage(c, h.converter.BuildBlogListItems(blogs), h.converter.BuildBlogPagination(page, limit, total))
}

// GetBlogBySlug 按slug获取已发布博客详情
func (h *HTTPHandler) GetBlogBySlug(c *gin.Context) {
	blog, err := h.blogSvc.GetBlogBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err, "Error fetching blog post")
		return
	}

	httpx.WriteData(c, http.StatusOK, h.converter.BuildBlogDetail(blog))
}

// GetAdminBlog 管理端按ID获取博客
func (h *HTTPHandler) GetAdminBlog(c *gin.Context) {
	blog, err := h.blogSvc.GetBlogByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Error fetching blog post")
		return
	}

	httpx.WriteData(c, http.StatusOK, h.converter.BuildBlogDetail(blog))
}

// ListAdminBlogs 管理端博客列表
func (h *HTTPHandler) ListAdminBlogs(c *gin.Context) {
	params := &model.AdminListBlogsParams{
		Page:   queryInt64(c, "page", model.DefaultPage),
		Limit:  queryInt64(c, "limit", model.AdminDefaultPageSize),
		Status: c.Query("status"),
	}

	blogs, total, err := h.blogSvc.ListAdminBlogs(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err, "Error fetching blog posts")
		return
	}

	page, limit := normalizePage(params.Page, params.Limit, model.AdminDefaultPageSize)
	httpx.WritePage(c, h.converter.BuildBlogDetails(blogs), h.converter.BuildBlogPagination(page, limit, total))
}

// CreateBlog 管理端创建博客
func (h *HTTPHandler) CreateBlog(c *gin.Context) {
	var req CreateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, "Please provide all required fields", "")
		return
	}

	blog, err := h.blogSvc.CreateBlog(c.Request.Context(), &model.CreateBlogParams{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Author:  req.Author,
		Image:   req.Image,
		Tags:    req.Tags,
		Status:  req.Status,
	})
	if err != nil {
		h.writeError(c, err, "Error creating blog post")
		return
	}

	httpx.WriteMessage(c, http.StatusCreated, "Blog post created successfully", h.converter.BuildBlogDetail(blog))
}

// UpdateBlog 管理端更新博客
func (h *HTTPHandler) UpdateBlog(c *gin.Context) {
	var req UpdateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	blog, err := h.blogSvc.UpdateBlog(c.Request.Context(), c.Param("id"), &model.UpdateBlogParams{
		Title:   req.Title,
		Content: req.Content,
		Excerpt: req.Excerpt,
		Author:  req.Author,
		Image:   req.Image,
		Tags:    req.Tags,
		Status:  req.Status,
	})
	if err != nil {
		h.writeError(c, err, "Error updating blog post")
		return
	}

	httpx.WriteMessage(c, http.StatusOK, "Blog post updated successfully", h.converter.BuildBlogDetail(blog))
}

// DeleteBlog 管理端删除博客
func (h *HTTPHandler) DeleteBlog(c *gin.Context) {
	if err := h.blogSvc.DeleteBlog(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err, "Error deleting blog post")
		return
	}

	httpx.WriteMessage(c, http.StatusOK, "Blog post deleted successfully", nil)
}

// GetBlogStats 管理端博客统计
func (h *HTTPHandler) GetBlogStats(c *gin.Context) {
	stats, err := h.blogSvc.GetBlogStats(c.Request.Context())
	if err != nil {
		h.writeError(c, err, "Error fetching blog stats")
		return
	}

	httpx.WriteData(c, http.StatusOK, stats)
}

// queryInt64 解析查询参数为int64，非法值回退默认
func queryInt64(c *gin.Context, key string, defaultValue int64) int64 {
	value := c.Query(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return n
}

// normalizePage 与service层相同的分页规范化，用于构建分页信息
func normalizePage(page, limit, defaultLimit int64) (int64, int64) {
	if page <= 0 {
		page = model.DefaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > model.MaxPageSize {
		limit = model.MaxPageSize
	}
	return page, limit
}
