package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Escrow operation outcomes, labeled by operation and result code.
	EscrowOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "escrow_operation_count",
			Help: "Total escrow operations by operation and result",
		},
		[]string{"operation", "result"}, // result: ok or error
	)

	// Total amount accepted by successful fund calls.
	EscrowFundedAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "escrow_funded_amount_total",
			Help: "Cumulative amount accepted by fund operations",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	OutboxPublishLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "outbox_publish_latency_ms",
			Help:    "Outbox event publish latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1ms to ~4s
		},
		[]string{"routing_key", "status"},
	)
)

// RecordEscrowOperation counts one operation outcome.
func RecordEscrowOperation(operation, result string) {
	EscrowOperationCount.WithLabelValues(operation, result).Inc()
}

// RecordFundedAmount adds a successful contribution to the running total.
func RecordFundedAmount(amount int64) {
	EscrowFundedAmount.Add(float64(amount))
}

// RecordHTTPRequestDuration records one served request.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordOutboxPublish records one dispatcher publish attempt.
func RecordOutboxPublish(routingKey, status string, duration time.Duration) {
	OutboxPublishLatency.WithLabelValues(routingKey, status).Observe(float64(duration.Milliseconds()))
}
