// Package metrics exposes the Prometheus instruments of the service. Data
// source failures are reported here instead of being returned to callers.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platefinder_query_duration_seconds",
			Help:    "Duration of data source queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DataSourceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platefinder_datasource_errors_total",
			Help: "Data source failures that were degraded to an empty or fallback result",
		},
		[]string{"operation"},
	)

	RecommendationTier = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platefinder_recommendation_tier_total",
			Help: "Recommendation responses by the fallback tier that served them",
		},
		[]string{"tier"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platefinder_events_published_total",
			Help: "User events handed to the broker",
		},
		[]string{"event_type", "status"},
	)
)

// ObserveQuery records the duration of a query started at start.
func ObserveQuery(operation string, start time.Time) {
	QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// RecordDataSourceError counts one degraded failure.
func RecordDataSourceError(operation string) {
	DataSourceErrors.WithLabelValues(operation).Inc()
}

// RecordTier counts a recommendation response served by tier.
func RecordTier(tier string) {
	RecommendationTier.WithLabelValues(tier).Inc()
}

// RecordEvent counts a publish attempt; status is "ok" or "error".
func RecordEvent(eventType, status string) {
	EventsPublished.WithLabelValues(eventType, status).Inc()
}
