package obs

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors for the dispatch pipeline and the
// HTTP surface.
type Metrics struct {
	CommandDuration *prometheus.HistogramVec
	QueryDuration   *prometheus.HistogramVec
	CommandErrors   *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		CommandDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Time spent dispatching commands",
			Buckets:   prometheus.DefBuckets,
		}, []string{"key"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Time spent dispatching queries",
			Buckets:   prometheus.DefBuckets,
		}, []string{"key"}),
		CommandErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_errors_total",
			Help:      "Commands that returned an error",
		}, []string{"key"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// ObserveCommand implements the dispatch Recorder port.
func (m *Metrics) ObserveCommand(key string, duration time.Duration, err error) {
	m.CommandDuration.WithLabelValues(key).Observe(duration.Seconds())
	if err != nil {
		m.CommandErrors.WithLabelValues(key).Inc()
	}
}

func (m *Metrics) ObserveQuery(key string, duration time.Duration, err error) {
	m.QueryDuration.WithLabelValues(key).Observe(duration.Seconds())
}

// HTTPMiddleware times each request by route template.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPDuration.
			WithLabelValues(c.Request.Method, route, statusClass(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// MetricsHandler serves the prometheus scrape endpoint.
func MetricsHandler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
