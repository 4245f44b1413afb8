// internal/gateway/metrics.go
package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Total number of backend API calls",
		},
		[]string{"method", "route", "outcome"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Backend API call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// outcome is "ok" or the error kind.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if k := KindOf(err); k != "" {
		return string(k)
	}
	return "error"
}
