// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for model changes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogProbabilityOverride logs a direct probability override on a model entity.
func (al *AuditLogger) LogProbabilityOverride(entity, category string, oldValue, newValue float64, author string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"entity":    entity,
		"category":  category,
		"old_value": oldValue,
		"new_value": newValue,
		"author":    author,
		"timestamp": timestamp.Unix(),
	}).Info("Probability override recorded")
}

// LogFactorUpdate logs a factor-driven rescore of a model entity.
func (al *AuditLogger) LogFactorUpdate(entity, category string, newProbability float64, reasoning string) {
	al.WithFields(logrus.Fields{
		"entity":          entity,
		"category":        category,
		"new_probability": newProbability,
		"reasoning":       reasoning,
	}).Info("Factor update recorded")
}

// LogModelReload logs a reload of the model snapshot from its seed.
func (al *AuditLogger) LogModelReload(version string, candidates int) {
	al.WithFields(logrus.Fields{
		"version":    version,
		"candidates": candidates,
	}).Info("Model snapshot reloaded")
}

// LogPortfolioAccess logs an authenticated portfolio fetch attempt.
func (al *AuditLogger) LogPortfolioAccess(succeeded bool, positions int) {
	al.WithFields(logrus.Fields{
		"succeeded": succeeded,
		"positions": positions,
	}).Info("Portfolio access recorded")
}
