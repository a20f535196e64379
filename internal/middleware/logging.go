package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/spatial-quiz-api/internal/pkg/logger"
)

// RequestLogger пишет по строке на запрос через логгер приложения
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	httpLog := log.Component("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		kv := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(ContextRequestID),
			"trace_id", c.GetString(ContextTraceID),
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			httpLog.Error("request", kv...)
		case status >= 400:
			httpLog.Warn("request", kv...)
		default:
			httpLog.Info("request", kv...)
		}
	}
}
