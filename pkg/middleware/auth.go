package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"

	"blog-platform/pkg/auth"
)

// AccessGate 管理端访问门禁
type AccessGate struct {
	logger   kratoslog.Logger
	verifier auth.TokenVerifier
}

// NewAccessGate 创建访问门禁
func NewAccessGate(logger kratoslog.Logger, verifier auth.TokenVerifier) *AccessGate {
	return &AccessGate{
		logger:   logger,
		verifier: verifier,
	}
}

// GinAuth Gin门禁中间件，校验Authorization头中的管理令牌
func (g *AccessGate) GinAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractTokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			g.logger.Log(kratoslog.LevelWarn, "msg", "Missing authorization token", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access. Please verify your passcode first.",
			})
			c.Abort()
			return
		}

		if !g.verifier.Verify(token) {
			g.logger.Log(kratoslog.LevelWarn, "msg", "Invalid admin token", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized access. Please verify your passcode first.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// extractTokenFromHeader 从Authorization头中提取token
func extractTokenFromHeader(authHeader string) string {
	if authHeader == "" {
		return ""
	}

	// 支持 "Bearer token" 和直接的 "token" 格式
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	return authHeader
}
