// Package logger provides market-scan logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ScanLogger provides dedicated logging for market scan operations.
type ScanLogger struct {
	*logrus.Entry
}

// NewScanLogger creates a new scan logger.
func NewScanLogger(baseLogger *logrus.Logger) *ScanLogger {
	return &ScanLogger{
		Entry: baseLogger.WithField("component", "scan"),
	}
}

// LogScanCompleted logs the outcome of one market scan.
func (sl *ScanLogger) LogScanCompleted(marketsChecked, edgesCalculated, significantEdges int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"markets_checked":   marketsChecked,
		"edges_calculated":  edgesCalculated,
		"significant_edges": significantEdges,
		"scan_duration_ms":  durationMs,
	}).Info("Market scan completed")
}

// LogTopEdge logs the strongest mispricing found in a scan.
func (sl *ScanLogger) LogTopEdge(entity, platform string, modelProbability, marketProbability, edge float64, recommendation string) {
	sl.WithFields(logrus.Fields{
		"entity":             entity,
		"platform":           platform,
		"model_probability":  modelProbability,
		"market_probability": marketProbability,
		"edge":               edge,
		"recommendation":     recommendation,
	}).Info("Top edge identified")
}

// LogVenueDegraded logs a venue that contributed fallback or no quotes.
func (sl *ScanLogger) LogVenueDegraded(venue, reason string) {
	sl.WithFields(logrus.Fields{
		"venue":  venue,
		"reason": reason,
	}).Warn("Venue degraded during scan")
}
