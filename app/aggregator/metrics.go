package aggregator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarkr_source_fetches_total",
		Help: "Source fetches attempted, by adapter family and outcome.",
	}, []string{"adapter", "outcome"})

	metricCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookmarkr_cache_lookups_total",
		Help: "Aggregation cache lookups, by scope and outcome.",
	}, []string{"scope", "outcome"})

	metricDedupDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookmarkr_dedup_dropped_total",
		Help: "Items dropped by the deduplication pass.",
	})

	metricAggregationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookmarkr_aggregation_duration_seconds",
		Help:    "Wall time of full aggregation cycles, by scope.",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})
)
