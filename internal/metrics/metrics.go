// Package metrics provides centralized Prometheus metrics registry for the backtester.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "runs_total",
		Help:      "Total number of backtest runs by selection policy, filter policy and status",
	}, []string{"selection_policy", "filter_policy", "status"})
	MatchesLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "matches_loaded_total",
		Help:      "Total number of match records loaded from season files",
	})
	MatchesFilteredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "matches_filtered_total",
		Help:      "Total number of match records dropped by row filters",
	})
	WagersSimulatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "wagers_simulated_total",
		Help:      "Total number of wagers fed through the staking simulator",
	})
	ExportsWrittenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "steady_better",
		Name:      "exports_written_total",
		Help:      "Total number of export artifacts written by format",
	}, []string{"format"})
)

// Gauge metrics
var (
	LastFinalBalance = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "steady_better",
		Name:      "last_final_balance",
		Help:      "Final bankroll of the most recent run per selection policy",
	}, []string{"selection_policy"})
	LastROI = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "steady_better",
		Name:      "last_roi_percent",
		Help:      "Return on investment of the most recent run per selection policy",
	}, []string{"selection_policy"})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "steady_better",
		Name:      "run_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	})
	RunROI = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "steady_better",
		Name:      "run_roi_percent",
		Help:      "Distribution of run ROI percentages",
		Buckets:   []float64{-100, -50, -20, -10, -5, 0, 5, 10, 20, 50, 100},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(RunsTotal)
		registry.MustRegister(MatchesLoadedTotal)
		registry.MustRegister(MatchesFilteredTotal)
		registry.MustRegister(WagersSimulatedTotal)
		registry.MustRegister(ExportsWrittenTotal)

		// Register gauge metrics
		registry.MustRegister(LastFinalBalance)
		registry.MustRegister(LastROI)

		// Register histogram metrics
		registry.MustRegister(RunDuration)
		registry.MustRegister(RunROI)

		// Register dataset metrics
		registry.MustRegister(DatasetFetchesTotal)
		registry.MustRegister(DatasetCacheHitsTotal)
		registry.MustRegister(DatasetRowsSkippedTotal)
		registry.MustRegister(DatasetFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRun records a completed backtest run.
// status should be one of: "completed", "bankrupt", "failed"
func RecordRun(selectionPolicy, filterPolicy, status string) {
	RunsTotal.WithLabelValues(selectionPolicy, filterPolicy, status).Inc()
}

// RecordRunDuration records how long a run took.
func RecordRunDuration(durationSeconds float64) {
	RunDuration.Observe(durationSeconds)
}

// RecordRunOutcome records the financial outcome of a run.
func RecordRunOutcome(selectionPolicy string, roi, finalBalance float64) {
	RunROI.Observe(roi)
	LastROI.WithLabelValues(selectionPolicy).Set(roi)
	LastFinalBalance.WithLabelValues(selectionPolicy).Set(finalBalance)
}

// RecordMatchesLoaded records match records read from a season file.
func RecordMatchesLoaded(count int) {
	MatchesLoadedTotal.Add(float64(count))
}

// RecordMatchesFiltered records match records dropped by a row filter.
func RecordMatchesFiltered(count int) {
	MatchesFilteredTotal.Add(float64(count))
}

// RecordWagersSimulated records wagers fed through the simulator.
func RecordWagersSimulated(count int) {
	WagersSimulatedTotal.Add(float64(count))
}

// RecordExportWritten records a written export artifact.
// format should be one of: "csv", "json", "html"
func RecordExportWritten(format string) {
	ExportsWrittenTotal.WithLabelValues(format).Inc()
}
