package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"marketplace/logger"
)

// RequestLogger logs method, path, status and duration for each request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("request failed", append(attrs, "error", c.Errors.String())...)
		case status >= 500:
			log.Error("request completed", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	}
}
