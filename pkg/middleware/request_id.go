package middleware

import (
	"github.com/gin-gonic/gin"

	tracecontext "blog-platform/pkg/context"
)

const requestIDHeader = "X-Request-ID"

// RequestID 请求ID中间件，缺失时生成并回写响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = tracecontext.GenerateRequestID()
		}

		ctx := tracecontext.WithRequestID(c.Request.Context(), requestID)
		ctx = tracecontext.WithClientInfo(ctx, c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}
