package middleware

import (
	"time"

	"github.com/donorhub/dhs/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader 请求 ID 响应头
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestLogger 为每个请求分配请求 ID 并记录访问日志
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		l := logger.With(
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)

		switch {
		case status >= 500:
			l.Error("%s %s", c.Request.Method, c.Request.URL.Path)
		case status >= 400:
			l.Warn("%s %s", c.Request.Method, c.Request.URL.Path)
		default:
			l.Info("%s %s", c.Request.Method, c.Request.URL.Path)
		}
	}
}

// RequestID 返回当前请求的 ID
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// CORS 跨域中间件
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
