// Package metrics defines dataset-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset counter vectors
var (
	DatasetFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "dataset_fetches_total",
		Help:      "Total number of season file fetches by status",
	}, []string{"status"})
	DatasetCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "dataset_cache_hits_total",
		Help:      "Total number of parsed-season cache hits",
	})
	DatasetRowsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "dataset_rows_skipped_total",
		Help:      "Total number of unreadable season file rows skipped",
	})
)

// Dataset histograms
var (
	DatasetFetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "steady_better",
		Name:      "dataset_fetch_duration_seconds",
		Help:      "Duration of season file downloads in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// RecordDatasetFetch records a season file fetch event.
// status should be one of: "success", "failure"
func RecordDatasetFetch(status string, durationSeconds float64) {
	DatasetFetchesTotal.WithLabelValues(status).Inc()
	DatasetFetchDuration.Observe(durationSeconds)
}

// RecordDatasetCacheHit records a parsed-season cache hit.
func RecordDatasetCacheHit() {
	DatasetCacheHitsTotal.Inc()
}

// RecordDatasetRowSkipped records an unreadable row.
func RecordDatasetRowSkipped() {
	DatasetRowsSkippedTotal.Inc()
}
