// Package metrics exposes Prometheus instrumentation for the recommendation
// engine. Collectors are registered once at package init; the surrounding
// application decides whether and where to serve them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHitsTotal counts result-cache hits.
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	// CacheMissesTotal counts result-cache misses, including expired entries.
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	// CacheEvictionsTotal counts entries removed by TTL expiry or LRU pressure.
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_cache_evictions_total",
			Help: "Total number of result cache evictions",
		},
		[]string{"reason"}, // "expired", "lru", "invalidate"
	)

	// MatchDuration tracks end-to-end latency of match queries.
	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommender_match_duration_seconds",
			Help:    "Duration of match queries in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	// CorpusRecipes reports the size of the currently published index.
	CorpusRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommender_corpus_recipes",
			Help: "Number of recipes in the active vector index",
		},
	)

	// IndexRebuildsTotal counts index rebuild attempts by outcome.
	IndexRebuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommender_index_rebuilds_total",
			Help: "Total number of vector index rebuild attempts",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	// MalformedAmountsTotal counts ingredient amounts that could not be
	// parsed and were passed through unscaled.
	MalformedAmountsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommender_malformed_amounts_total",
			Help: "Total number of unparseable ingredient amounts passed through unscaled",
		},
	)
)
