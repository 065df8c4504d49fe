package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-platform/apps/blog-service/converter"
	"blog-platform/apps/blog-service/model"
	"blog-platform/apps/blog-service/service"
	"blog-platform/pkg/httpx"
	"blog-platform/pkg/logger"
	"blog-platform/pkg/middleware"
)

// HTTPHandler HTTP处理器
type HTTPHandler struct {
	blogSvc     *service.BlogService
	commentSvc  *service.CommentService
	passcodeSvc *service.PasscodeService
	converter   *converter.Converter
	gate        *middleware.AccessGate
	production  bool
	logger      logger.Logger
}

// NewHTTPHandler 创建HTTP处理器
func NewHTTPHandler(blogSvc *service.BlogService, commentSvc *service.CommentService, passcodeSvc *service.PasscodeService, gate *middleware.AccessGate, production bool, logger logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		blogSvc:     blogSvc,
		commentSvc:  commentSvc,
		passcodeSvc: passcodeSvc,
		converter:   converter.NewConverter(),
		gate:        gate,
		production:  production,
		logger:      logger,
	}
}

// RegisterRoutes 注册HTTP路由
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// 公开接口
	blogs := api.Group("/blogs")
	{
		blogs.GET("", h.ListBlogs)
		blogs.GET("/:slug", h.GetBlogBySlug)
		blogs.GET("/:slug/comments", h.ListBlogComments)
		blogs.POST("/:slug/comments", h.CreateComment)
	}

	comments := api.Group("/comments")
	{
		comments.POST("/:commentId/like", h.LikeComment)
	}

	api.POST("/passcode", h.VerifyPasscode)

	// 管理接口，访问门禁保护
	admin := api.Group("/admin")
	admin.Use(h.gate.GinAuth())
	{
		admin.GET("/auth/verify", h.VerifyAdminAccess)
		admin.GET("/dashboard", h.GetDashboard)

		admin.GET("/blogs", h.ListAdminBlogs)
		admin.POST("/blogs", h.CreateBlog)
		admin.GET("/blogs/stats", h.GetBlogStats)
		admin.GET("/blogs/:id", h.GetAdminBlog)
		admin.PUT("/blogs/:id", h.UpdateBlog)
		admin.DELETE("/blogs/:id", h.DeleteBlog)

		admin.GET("/comments", h.ListAdminComments)
		admin.PUT("/comments/:commentId", h.ModerateComment)
		admin.DELETE("/comments/:commentId", h.DeleteComment)
	}
}

// writeError 业务错误到HTTP状态码的映射
func (h *HTTPHandler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		httpx.WriteError(c, http.StatusNotFound, errMessage(err, fallback), "")
	case errors.Is(err, model.ErrInvalidInput), errors.Is(err, model.ErrDuplicate):
		httpx.WriteError(c, http.StatusBadRequest, errMessage(err, fallback), "")
	default:
		h.logger.Error(c.Request.Context(), "Request failed",
			logger.F("path", c.FullPath()),
			logger.F("error", err.Error()))
		detail := ""
		if !h.production {
			detail = err.Error()
		}
		httpx.WriteError(c, http.StatusInternalServerError, fallback, detail)
	}
}

// errMessage 剥离哨兵错误前缀，保留面向用户的描述
func errMessage(err error, fallback string) string {
	msg := err.Error()
	for _, sentinel := range []error{model.ErrNotFound, model.ErrInvalidInput, model.ErrDuplicate} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	if msg != "" {
		return msg
	}
	return fallback
}
