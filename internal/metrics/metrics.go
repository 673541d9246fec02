// Package metrics registers the Prometheus collectors of the charts service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	ChartBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chart_build_duration_seconds",
			Help:    "Duration of chart builds in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	SparseWindowFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trending_sparse_window_fallbacks_total",
			Help: "Number of aggregations that fell back to the full category history",
		},
		[]string{"category"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"operation"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"operation"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification publishes by outcome (sent, failed, dropped, rejected)",
		},
		[]string{"outcome"},
	)

	SnapshotsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chart_snapshots_recorded_total",
			Help: "Number of weekly chart snapshots written",
		},
		[]string{"category"},
	)
)

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint string, status int, elapsed time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(elapsed.Seconds())
}
