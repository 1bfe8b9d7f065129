// Package metrics holds the console's Prometheus metrics.
package metrics

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP Request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mirador_console_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Widget form validation
	WidgetValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_widget_validations_total",
			Help: "Total number of widget form validations",
		},
		[]string{"widget", "result"}, // ok/invalid/unknown
	)

	TimePeriodValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_time_period_validations_total",
			Help: "Total number of time period validations",
		},
		[]string{"data_source", "result"},
	)

	// Valkey cache metrics
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_cache_requests_total",
			Help: "Total number of cache requests",
		},
		[]string{"operation", "result"}, // get/set/delete, hit/miss/error
	)

	TokenUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_token_updates_total",
			Help: "Total number of API token updates",
		},
		[]string{"result"}, // updated/regenerated/invalid/failed/denied
	)

	CorrelationActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_correlation_actions_total",
			Help: "Total number of event correlation mass actions",
		},
		[]string{"action", "result"},
	)

	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mirador_console_rate_limited_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)
)

// RecordCacheRequest records one cache operation.
func RecordCacheRequest(operation, result string) {
	CacheRequestsTotal.WithLabelValues(operation, result).Inc()
}

// RecordWidgetValidation records one widget form validation.
func RecordWidgetValidation(widget string, ok bool) {
	WidgetValidationsTotal.WithLabelValues(widget, resultLabel(ok, "ok", "invalid")).Inc()
}

// RecordTimePeriodValidation records one time period validation.
func RecordTimePeriodValidation(dataSource string, ok bool) {
	TimePeriodValidationsTotal.WithLabelValues(dataSource, resultLabel(ok, "ok", "invalid")).Inc()
}

// RecordTokenUpdate records the outcome of a token update request.
func RecordTokenUpdate(result string) {
	TokenUpdatesTotal.WithLabelValues(result).Inc()
}

// RecordCorrelationAction records the outcome of a mass correlation action.
func RecordCorrelationAction(action string, ok bool) {
	CorrelationActionsTotal.WithLabelValues(action, resultLabel(ok, "success", "error")).Inc()
}

func resultLabel(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

// Register exposes the default registry at /metrics.
func Register(router gin.IRoutes) {
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// NormalizeEndpoint replaces numeric path segments with ":id" so that
// label cardinality stays bounded.
func NormalizeEndpoint(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if i > 0 && isNumeric(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
