package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
)

// Metrics returns middleware that records request counts, durations, sizes
// and in-flight gauges. The route template (not the raw URL) labels the
// series so path parameters do not explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	if m == nil {
		m = prometheus.NewNopAppMetrics()
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		m.HTTPActiveRequests.WithLabelValues(method, path).Inc()
		if size := c.Request.ContentLength; size > 0 {
			m.HTTPRequestSize.WithLabelValues(method, path).Observe(float64(size))
		}

		start := time.Now()
		c.Next()

		m.HTTPActiveRequests.WithLabelValues(method, path).Dec()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
