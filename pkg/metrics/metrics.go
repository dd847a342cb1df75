// Package metrics provides Prometheus metrics for the Aster service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchRequestsTotal tracks match requests by outcome and cache result
	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "matching",
			Name:      "requests_total",
			Help:      "Total number of match requests by outcome and cache result",
		},
		[]string{"outcome", "cache"},
	)

	// MatchDuration tracks single-entity match duration in seconds
	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "matching",
			Name:      "duration_seconds",
			Help:      "Duration of single-entity match requests in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// BatchSize tracks the number of entities per batch request
	BatchSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "matching",
			Name:      "batch_size",
			Help:      "Number of entities per batch match request",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	// BatchDuration tracks batch match duration in seconds
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "matching",
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch match requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	// CacheOperationsTotal tracks result cache activity
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Total number of result cache operations by type",
		},
		[]string{"operation"},
	)

	// CandidateFetchDuration tracks candidate catalog fetch duration
	CandidateFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "candidates",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of candidate catalog fetches in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// CandidatesScored tracks how many candidates each match request scored
	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aster",
			Subsystem: "candidates",
			Name:      "scored_per_request",
			Help:      "Number of candidates scored per match request",
			Buckets:   []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// EarlyTerminationsTotal tracks result lists truncated by a high-confidence hit
	EarlyTerminationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "matching",
			Name:      "early_terminations_total",
			Help:      "Total number of match requests whose results were truncated early",
		},
	)

	// ConfigSwapsTotal tracks matching config reloads
	ConfigSwapsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "config",
			Name:      "swaps_total",
			Help:      "Total number of matching config reloads",
		},
	)

	// KafkaMessagesConsumed tracks Kafka messages consumed
	KafkaMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aster",
			Subsystem: "kafka",
			Name:      "messages_consumed_total",
			Help:      "Total number of messages consumed from Kafka",
		},
		[]string{"topic", "status"},
	)
)

// RecordMatchRequest records a single-entity match request metric
func RecordMatchRequest(outcome string, cacheHit bool, durationSeconds float64) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	MatchRequestsTotal.WithLabelValues(outcome, cache).Inc()
	MatchDuration.Observe(durationSeconds)
}

// RecordBatchRequest records a batch match request metric
func RecordBatchRequest(size int, durationSeconds float64) {
	BatchSize.Observe(float64(size))
	BatchDuration.Observe(durationSeconds)
}

// RecordCacheOperation records a result cache operation
func RecordCacheOperation(operation string) {
	CacheOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordCandidateFetch records a candidate catalog fetch
func RecordCandidateFetch(count int, durationSeconds float64) {
	CandidateFetchDuration.Observe(durationSeconds)
	CandidatesScored.Observe(float64(count))
}

// RecordKafkaMessage records a consumed Kafka message
func RecordKafkaMessage(topic, status string) {
	KafkaMessagesConsumed.WithLabelValues(topic, status).Inc()
}
