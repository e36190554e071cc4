package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campusops/ccrm-api/internal/service"
)

// Metrics records latency and status for every request. The route
// template is used as the path label so /students/:id stays one series
// regardless of the concrete ID.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			// Unmatched routes (404s) fall back to the raw path.
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
