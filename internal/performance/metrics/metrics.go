// Package metrics holds the Prometheus collectors for the ingestion pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// UpstreamAttempts counts individual HTTP attempts against the upstream API.
	UpstreamAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_upstream_attempts_total",
			Help: "Upstream HTTP attempts by outcome.",
		},
		[]string{"provider", "outcome"},
	)

	// UpstreamDuration observes the full fetch including retries.
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "performance_upstream_fetch_seconds",
			Help:    "Upstream fetch latency including retries and backoff.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider"},
	)

	// Requests counts pipeline results by the source that served them.
	Requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_pipeline_requests_total",
			Help: "Pipeline requests by serving source or failure reason.",
		},
		[]string{"source"},
	)

	// RateLimited counts admissions denied by the upstream limiter.
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "performance_ratelimit_denied_total",
		Help: "Upstream admissions denied by the rate limiter.",
	})

	// FallbackStages counts the stage each resolved query finished in.
	FallbackStages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_fallback_stage_total",
			Help: "Fallback resolutions by terminal stage.",
		},
		[]string{"stage"},
	)

	// RejectedEntries counts raw entries dropped during normalization.
	RejectedEntries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "performance_normalize_rejected_total",
		Help: "Raw upstream entries rejected for missing geographic keys.",
	})
)

func init() {
	prometheus.MustRegister(UpstreamAttempts, UpstreamDuration, Requests, RateLimited, FallbackStages, RejectedEntries)
}
