// Package metrics constructs the metrics the application tracks.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts dispatched messages per request name.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wllama_requests_total",
		Help: "Total messages dispatched per request name",
	}, []string{"name"})

	// ErrorsTotal counts failed messages per request name.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wllama_errors_total",
		Help: "Total failed messages per request name",
	}, []string{"name"})

	// GeneratedTokensTotal counts tokens produced by the decode loop.
	GeneratedTokensTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wllama_generated_tokens_total",
		Help: "Total tokens produced by the decode loop",
	})

	// CacheHitsTotal counts result cache hits for repeated image prompts.
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wllama_result_cache_hits_total",
		Help: "Result cache hits for repeated image prompts",
	})

	prefillDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wllama_prefill_duration_seconds",
		Help:    "Duration of chunk prefill evaluation",
		Buckets: prometheus.DefBuckets,
	})

	decodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wllama_decode_duration_seconds",
		Help:    "Duration of the decode loop",
		Buckets: prometheus.DefBuckets,
	})
)

// ObservePrefill records the duration of one prefill evaluation.
func ObservePrefill(d time.Duration) {
	prefillDuration.Observe(d.Seconds())
}

// ObserveDecode records the duration of one decode loop.
func ObserveDecode(d time.Duration) {
	decodeDuration.Observe(d.Seconds())
}
