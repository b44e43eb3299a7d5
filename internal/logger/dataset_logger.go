package logger

import (
	"github.com/sirupsen/logrus"
)

// DatasetLogger provides dedicated logging for dataset loading events.
type DatasetLogger struct {
	*logrus.Entry
}

// NewDatasetLogger creates a new dataset logger.
func NewDatasetLogger(baseLogger *logrus.Logger) *DatasetLogger {
	return &DatasetLogger{
		Entry: baseLogger.WithField("component", "dataset"),
	}
}

// LogFetchStarted logs the start of a remote dataset download.
func (dl *DatasetLogger) LogFetchStarted(url, cachePath string) {
	dl.WithFields(logrus.Fields{
		"url":        url,
		"cache_path": cachePath,
	}).Info("Dataset fetch started")
}

// LogFetchCompleted logs a finished download or cache hit.
func (dl *DatasetLogger) LogFetchCompleted(url, cachePath string, cacheHit bool, bytes int64) {
	dl.WithFields(logrus.Fields{
		"url":        url,
		"cache_path": cachePath,
		"cache_hit":  cacheHit,
		"bytes":      bytes,
	}).Info("Dataset fetch completed")
}

// LogParseCompleted logs the outcome of parsing a season file.
func (dl *DatasetLogger) LogParseCompleted(path string, rows, skipped int) {
	dl.WithFields(logrus.Fields{
		"path":         path,
		"rows_parsed":  rows,
		"rows_skipped": skipped,
	}).Info("Dataset parsed")
}

// LogRowSkipped logs a single unreadable row.
func (dl *DatasetLogger) LogRowSkipped(path string, line int, reason string) {
	dl.WithFields(logrus.Fields{
		"path":   path,
		"line":   line,
		"reason": reason,
	}).Debug("Row skipped")
}

// LogSuspiciousOdds warns about decimal odds at or below even money payout.
func (dl *DatasetLogger) LogSuspiciousOdds(path string, line int, odds float64) {
	dl.WithFields(logrus.Fields{
		"path": path,
		"line": line,
		"odds": odds,
	}).Warn("Suspicious decimal odds")
}
