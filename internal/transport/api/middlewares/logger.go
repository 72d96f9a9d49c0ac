package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger пишет в лог каждый запрос после его обработки.
func Logger(l *logrus.Logger) gin.HandlerFunc {
	entry := l.WithField("component", "http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			entry.WithFields(fields).Error(c.Errors.String())
			return
		}
		entry.WithFields(fields).Info("request")
	}
}
