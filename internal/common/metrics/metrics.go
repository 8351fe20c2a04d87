// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_backend_requests_total",
			Help: "Backend requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "advisor_backend_request_duration_seconds",
			Help:    "Duration of backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	NormalizeDefaults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_normalize_defaults_total",
			Help: "Records whose field fell back to a default or was dropped during normalization",
		},
		[]string{"field"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "advisor_sessions_active",
			Help: "Number of live server sessions",
		},
	)
)

// Outcome labels for BackendRequests.
const (
	OutcomeOK        = "ok"
	OutcomeHTTPError = "http_error"
	OutcomeNetwork   = "network_error"
)

// ObserveBackendRequest records one attempt against a backend endpoint.
func ObserveBackendRequest(endpoint, outcome string, elapsed time.Duration) {
	BackendRequests.WithLabelValues(endpoint, outcome).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}
