package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for RecommendationsTotal.
const (
	PathModel    = "model"
	PathFallback = "fallback"
)

var (
	// RecommendationsTotal counts ranked lists produced, split by the path that produced them.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_advisor_recommendations_total",
			Help: "Total number of crop recommendation lists produced",
		},
		[]string{"path"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "farm_advisor_provider_request_duration_seconds",
			Help:    "Duration of outbound weather provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	ProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_advisor_provider_errors_total",
			Help: "Total number of failed weather provider requests",
		},
		[]string{"provider", "operation"},
	)

	ForecastCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_advisor_forecast_cache_hits_total",
			Help: "Total number of forecast requests served from cache",
		},
	)

	ForecastCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "farm_advisor_forecast_cache_misses_total",
			Help: "Total number of forecast requests that reached the provider",
		},
	)

	TrackedSnapshots = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "farm_advisor_tracked_snapshots_total",
			Help: "Total number of scheduled current-condition captures, by outcome",
		},
		[]string{"outcome"},
	)
)
