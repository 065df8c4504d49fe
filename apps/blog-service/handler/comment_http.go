package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-platform/apps/blog-service/converter"
	"blog-platform/apps/blog-service/model"
	"blog-platform/pkg/httpx"
)

// CreateCommentRequest 创建评论请求
type CreateCommentRequest struct {
	Author        string `json:"author" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Content       string `json:"content" binding:"required"`
	ParentComment string `json:"parentComment"`
}

// ModerateCommentRequest 评论审核请求
type ModerateCommentRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListBlogComments 获取博客的已通过评论，回复就地展开
func (h *HTTPHandler) ListBlogComments(c *gin.Context) {
	// 通配符与博客详情路由共用，此处取值为博客ID
	params := &model.ListCommentsParams{
		BlogID: c.Param("slug"),
		Page:   queryInt64(c, "page", model.DefaultPage),
		Limit:  queryInt64(c, "limit", model.DefaultPageSize),
	}

	comments, total, err := h.commentSvc.ListBlogComments(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err, "Error fetching comments")
		return
	}

	views := make([]*converter.CommentView, 0, len(comments))
	for _, cw := range comments {
		views = append(views, h.converter.BuildCommentView(cw.Comment, cw.Replies))
	}

	page, limit := normalizePage(params.Page, params.Limit, model.DefaultPageSize)
	httpx.WritePage(c, views, h.converter.BuildCommentPagination(page, limit, total))
}

// CreateComment 提交评论，进入待审核队列
func (h *HTTPHandler) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, "Name, email and comment are required", "")
		return
	}

	comment, err := h.commentSvc.CreateComment(c.Request.Context(), &model.CreateCommentParams{
		BlogID:        c.Param("slug"),
		Author:        req.Author,
		Email:         req.Email,
		Content:       req.Content,
		ParentComment: req.ParentComment,
		IPAddress:     c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
	})
	if err != nil {
		h.writeError(c, err, "Error creating comment")
		return
	}

	httpx.WriteMessage(c, http.StatusCreated,
		"Comment submitted successfully. It will appear after moderation.",
		h.converter.BuildCommentView(comment, nil))
}

// LikeComment 点赞评论
func (h *HTTPHandler) LikeComment(c *gin.Context) {
	likes, err := h.commentSvc.LikeComment(c.Request.Context(), c.Param("commentId"))
	if err != nil {
		h.writeError(c, err, "Error liking comment")
		return
	}

	httpx.WriteData(c, http.StatusOK, gin.H{"likes": likes})
}

// ListAdminComments 管理端评论列表
func (h *HTTPHandler) ListAdminComments(c *gin.Context) {
	params := &model.AdminListCommentsParams{
		Page:   queryInt64(c, "page", model.DefaultPage),
		Limit:  queryInt64(c, "limit", model.AdminDefaultPageSize),
		Status: c.Query("status"),
	}

	comments, total, err := h.commentSvc.ListAdminComments(c.Request.Context(), params)
	if err != nil {
		h.writeError(c, err, "Error fetching comments")
		return
	}

	views := make([]*converter.AdminCommentView, 0, len(comments))
	for _, ac := range comments {
		views = append(views, h.converter.BuildAdminCommentView(ac.Comment, ac.Blog))
	}

	page, limit := normalizePage(params.Page, params.Limit, model.AdminDefaultPageSize)
	httpx.WritePage(c, views, h.converter.BuildCommentPagination(page, limit, total))
}

// ModerateComment 更新评论审核状态
func (h *HTTPHandler) ModerateComment(c *gin.Context) {
	var req ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.WriteError(c, http.StatusBadRequest, "Status is required", "")
		return
	}

	comment, err := h.commentSvc.ModerateComment(c.Request.Context(), c.Param("commentId"), req.Status)
	if err != nil {
		h.writeError(c, err, "Error updating comment")
		return
	}

	httpx.WriteMessage(c, http.StatusOK, "Comment status updated", h.converter.BuildAdminCommentView(comment, nil))
}

// DeleteComment 删除评论
func (h *HTTPHandler) DeleteComment(c *gin.Context) {
	if err := h.commentSvc.DeleteComment(c.Request.Context(), c.Param("commentId")); err != nil {
		h.writeError(c, err, "Error deleting comment")
		return
	}

	httpx.WriteMessage(c, http.StatusOK, "Comment deleted successfully", nil)
}
