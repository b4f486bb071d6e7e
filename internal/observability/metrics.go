package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts outgoing API requests by method, route, and status class.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firstlog_client_requests_total",
		Help: "Total number of API requests by method, route, and status",
	}, []string{"method", "route", "status"})

	// RequestLatency records API request latency by method and route.
	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "firstlog_client_request_latency_seconds",
		Help:    "API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// StoreErrors counts key-value store errors by driver and operation.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firstlog_store_errors_total",
		Help: "Total number of key-value store errors by driver and operation",
	}, []string{"driver", "operation"})

	// ToggleRollbacks counts optimistic toggles reverted after a failed request.
	ToggleRollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "firstlog_toggle_rollbacks_total",
		Help: "Total number of optimistic toggles rolled back by kind",
	}, []string{"kind"})

	// SessionInvalidations counts sessions cleared by a 401 response.
	SessionInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "firstlog_session_invalidations_total",
		Help: "Total number of sessions invalidated by an authentication rejection",
	})
)

// RequestMetrics records request latency for a route.
type RequestMetrics struct{}

// NewRequestMetrics returns a new RequestMetrics instance.
func NewRequestMetrics() *RequestMetrics {
	return &RequestMetrics{}
}

// TrackRequest returns a function that records request latency when called (e.g. defer).
func (m *RequestMetrics) TrackRequest(method, route string) func() {
	start := time.Now()
	return func() {
		RequestLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
