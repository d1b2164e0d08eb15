// Package metrics defines Prometheus collectors for the creditdesk service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "creditdesk"

var (
	// EmbeddingRequestsTotal counts embedding provider requests by model and status.
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests.",
		},
		[]string{"model", "status"},
	)

	// EmbeddingRequestDuration observes embedding request latency by model.
	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	// EmbeddingTokensTotal counts tokens consumed by embedding requests.
	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_tokens_total",
			Help:      "Total tokens consumed by embedding requests.",
		},
		[]string{"model", "kind"},
	)

	// EmbeddingErrorsTotal counts embedding provider errors by model and reason.
	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_errors_total",
			Help:      "Total embedding provider errors.",
		},
		[]string{"model", "reason"},
	)

	// EmbeddingCacheTotal counts embedding cache lookups by outcome (hit, miss).
	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_cache_total",
			Help:      "Embedding cache lookups by outcome.",
		},
		[]string{"outcome"},
	)

	// ChatRequestsTotal counts chat completion requests by model and status.
	ChatRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Total number of chat completion requests.",
		},
		[]string{"model", "status"},
	)

	// ChatRequestDuration observes chat completion latency by model.
	ChatRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_request_duration_seconds",
			Help:      "Chat completion request duration in seconds.",
			Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)
)

var registerOnce sync.Once

// RegisterMetrics registers all collectors with the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			ChatRequestsTotal,
			ChatRequestDuration,
			httpRequestsTotal,
			httpRequestDuration,
		)
	})
}
