package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glowdesk/voice-console/internal/infrastructure/metrics"
)

// Metrics records request latency per method, route template, and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			// Unmatched routes collapse into one label to keep
			// cardinality bounded.
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
