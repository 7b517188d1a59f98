package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberd",
			Subsystem: "core",
			Name:      "operations_total",
			Help:      "Total number of core data-plane operations",
		},
		[]string{"operation", "status"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memberd",
			Subsystem: "core",
			Name:      "operation_duration_seconds",
			Help:      "Duration of core data-plane operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)

// Observe records one completed operation.
func Observe(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	operationCount.WithLabelValues(operation, status).Inc()
	operationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
