package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	kratoslog "github.com/go-kratos/kratos/v2/log"
)

// NewGinEngine 创建Gin引擎
func NewGinEngine(mode string) *gin.Engine {
	switch mode {
	case "release", "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test", "testing":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	return r
}

// HTTPServer Gin HTTP服务器包装器
type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	logger kratoslog.Logger
}

// NewHTTPServer 创建HTTP服务器
func NewHTTPServer(engine *gin.Engine, addr, timeout string, logger kratoslog.Logger) *HTTPServer {
	t := parseDuration(timeout, 30*time.Second)

	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  t,
		WriteTimeout: t,
	}

	return &HTTPServer{
		engine: engine,
		server: server,
		logger: logger,
	}
}

// Engine 获取Gin引擎
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Start 启动服务器
func (s *HTTPServer) Start(ctx context.Context) error {
	s.logger.Log(kratoslog.LevelInfo, "msg", "HTTP server starting", "addr", s.server.Addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Log(kratoslog.LevelError, "msg", "HTTP server failed", "error", err)
		}
	}()

	return nil
}

// Stop 优雅停止服务器
func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Log(kratoslog.LevelInfo, "msg", "HTTP server stopping")
	return s.server.Shutdown(ctx)
}

// parseDuration 解析时间字符串
func parseDuration(s string, defaultDuration time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return defaultDuration
}
