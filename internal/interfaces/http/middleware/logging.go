// Package middleware holds the gin middleware used by the API server.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/prometheus"
)

// RequestLogging logs each request with latency and status, and records the
// HTTP metrics when metrics is non-nil.
func RequestLogging(logger logging.Logger, metrics *prometheus.Metrics) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		logger.Info("request handled",
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("latency", elapsed),
			logging.String("client", c.ClientIP()))

		if metrics != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(path, c.Request.Method, statusLabel(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
		}
	}
}

func statusLabel(status int) string {
	switch {
	case status < 200:
		return "1xx"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Recovery converts panics into 500 responses with a log line instead of a
// crashed worker.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	logger = logger.Named("http.recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					logging.String("path", c.Request.URL.Path),
					logging.Any("panic", r))
				c.AbortWithStatusJSON(500, gin.H{"error": "internal server error"})
			}
		}()
		c.Next()
	}
}
