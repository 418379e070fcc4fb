// Package metrics holds the Prometheus collectors shared across the
// application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// DiscoveryRuns counts finished discovery runs by terminal status, the
	// layer that produced the result, and the mode profile.
	DiscoveryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitefinder",
		Name:      "discovery_runs_total",
		Help:      "Finished discovery runs by status, method and mode.",
	}, []string{"status", "method", "mode"})

	// DiscoveryDuration observes wall time of whole discovery runs.
	DiscoveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sitefinder",
		Name:      "discovery_duration_seconds",
		Help:      "Wall time of discovery runs.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"mode"})

	// Verifications counts candidate verifications by outcome
	// (accepted, rejected, failed, blocklisted).
	Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitefinder",
		Name:      "verifications_total",
		Help:      "Candidate verifications by outcome.",
	}, []string{"outcome"})

	// CacheLookups counts verification-cache lookups by result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitefinder",
		Name:      "verification_cache_lookups_total",
		Help:      "Verification cache lookups by result (hit/miss).",
	}, []string{"result"})

	// SearchQueries counts outbound queries per named search source.
	SearchQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sitefinder",
		Name:      "search_queries_total",
		Help:      "Outbound search queries by source and outcome.",
	}, []string{"source", "outcome"})
)
