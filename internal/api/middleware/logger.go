package middleware

import (
	"time"

	"recommender/internal/logger"

	"github.com/gin-gonic/gin"
)

func Logger(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log := logger.With(
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Error("%s %s: %s", c.Request.Method, path, c.Errors.String())
			return
		}
		log.Info("%s %s %d", c.Request.Method, path, c.Writer.Status())
	}
}
