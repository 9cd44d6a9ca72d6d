package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Media-Attach Metrics
var (
	// Notification outcomes: "attached", "replay", or the lower-cased error code
	EventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "media_attach",
			Name:      "events_total",
			Help:      "Total object storage notifications handled",
		},
		[]string{"source", "outcome"},
	)

	// End-to-end handling duration
	EventDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "media_attach",
			Name:      "event_duration_seconds",
			Help:      "Notification handling duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"source"},
	)

	// S3 operations counter
	S3OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "media_attach",
			Name:      "s3_operations_total",
			Help:      "Total S3 operations",
		},
		[]string{"operation", "status"},
	)

	// S3 operation duration
	S3Duration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "media_attach",
			Name:      "s3_duration_seconds",
			Help:      "S3 operation duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"operation"},
	)

	// Table store transactions, labelled by backend and status
	StoreTransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "media_attach",
			Name:      "store_transactions_total",
			Help:      "Total attachment transactions",
		},
		[]string{"backend", "status"},
	)

	StoreDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "media_attach",
			Name:      "store_duration_seconds",
			Help:      "Attachment transaction duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"backend"},
	)
)

// RecordEvent records a handled notification
func RecordEvent(source, outcome string, durationSec float64) {
	EventsTotal.WithLabelValues(source, outcome).Inc()
	EventDuration.WithLabelValues(source).Observe(durationSec)
}

// RecordS3Operation records an S3 operation
func RecordS3Operation(operation, status string, durationSec float64) {
	S3OperationsTotal.WithLabelValues(operation, status).Inc()
	S3Duration.WithLabelValues(operation).Observe(durationSec)
}

// RecordStoreTransaction records one attachment transaction
func RecordStoreTransaction(backend, status string, durationSec float64) {
	StoreTransactionsTotal.WithLabelValues(backend, status).Inc()
	StoreDuration.WithLabelValues(backend).Observe(durationSec)
}
