package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "emojitopng"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route template and status class",
	}, []string{"method", "route", "class"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route template",
		// 렌더 miss는 수백 ms까지 걸림
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Requests currently being served",
	})

	pngBytesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "png_bytes_served_total",
		Help:      "Bytes of PNG bodies written, by render cache outcome",
	}, []string{"cache"})

	dbConnectionsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "db_connections_open",
		Help:      "Open connections of the override database",
	})
)

// Metrics records request counts, latency and PNG bytes. /metrics itself is skipped.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		httpRequestsTotal.WithLabelValues(method, route, statusClass(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

		if size := c.Writer.Size(); size > 0 && strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "image/png") {
			outcome := strings.ToLower(c.Writer.Header().Get("X-Render-Cache"))
			if outcome == "" {
				outcome = "unknown"
			}
			pngBytesServed.WithLabelValues(outcome).Add(float64(size))
		}
	}
}

// statusClass 2xx, 4xx ...
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}

// SetDBConnectionsOpen updates the DB connection gauge
func SetDBConnectionsOpen(count int) {
	dbConnectionsOpen.Set(float64(count))
}
