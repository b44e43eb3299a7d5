// Package logger provides backtest-run logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for backtest run events.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogRunStarted logs the start of a simulation run.
func (rl *RunLogger) LogRunStarted(runID, dataset, selectionPolicy, filter string, matchesLoaded int) {
	rl.WithFields(logrus.Fields{
		"run_id":           runID,
		"dataset":          dataset,
		"selection_policy": selectionPolicy,
		"filter":           filter,
		"matches_loaded":   matchesLoaded,
	}).Info("Backtest run started")
}

// LogFilterApplied logs how many records survived the row filter.
func (rl *RunLogger) LogFilterApplied(runID, filter string, before, after int) {
	rl.WithFields(logrus.Fields{
		"run_id":          runID,
		"filter":          filter,
		"matches_before":  before,
		"matches_after":   after,
		"matches_dropped": before - after,
	}).Debug("Row filter applied")
}

// LogRunCompleted logs the outcome of a simulation run.
func (rl *RunLogger) LogRunCompleted(runID, dataset string, steps int, totalProfit, roi, winRatio, finalBalance float64, durationMs float64) {
	rl.WithFields(logrus.Fields{
		"run_id":        runID,
		"dataset":       dataset,
		"steps":         steps,
		"total_profit":  totalProfit,
		"roi":           roi,
		"win_ratio":     winRatio,
		"final_balance": finalBalance,
		"duration_ms":   durationMs,
	}).Info("Backtest run completed")
}

// LogStakeEscalation warns when a losing streak has pushed the stake far
// above the base unit.
func (rl *RunLogger) LogStakeEscalation(runID string, stake, baseStake float64, loseStreak int) {
	rl.WithFields(logrus.Fields{
		"run_id":      runID,
		"stake":       stake,
		"base_stake":  baseStake,
		"lose_streak": loseStreak,
	}).Warn("Stake escalation threshold exceeded")
}

// LogBankruptcy warns that the bankroll went negative during a run.
func (rl *RunLogger) LogBankruptcy(runID, dataset string, bankroll float64, step int) {
	rl.WithFields(logrus.Fields{
		"run_id":   runID,
		"dataset":  dataset,
		"bankroll": bankroll,
		"step":     step,
	}).Warn("Bankroll went negative")
}

// LogExportWritten logs a finished export artifact.
func (rl *RunLogger) LogExportWritten(runID, path string, rows int) {
	rl.WithFields(logrus.Fields{
		"run_id": runID,
		"path":   path,
		"rows":   rows,
	}).Info("Export written")
}
