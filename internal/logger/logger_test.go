package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	if err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestAuditLoggerProbabilityOverride(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogProbabilityOverride(
		"NUEVAYoL",
		"first_song",
		0.28,
		0.40,
		"admin",
		time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "NUEVAYoL", logEntry["entity"])
	assert.Equal(t, "audit", logEntry["component"])
	assert.Equal(t, 0.28, logEntry["old_value"])
	assert.Equal(t, 0.40, logEntry["new_value"])
}

func TestAuditLoggerFactorUpdate(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogFactorUpdate("DtMF", "first_song", 0.18, "Streaming numbers spiked")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "DtMF", logEntry["entity"])
	assert.Equal(t, "Streaming numbers spiked", logEntry["reasoning"])
}

func TestScanLoggerScanCompleted(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogScanCompleted(12, 8, 2, 350.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "scan", logEntry["component"])
	assert.Equal(t, float64(12), logEntry["markets_checked"])
	assert.Equal(t, float64(2), logEntry["significant_edges"])
}

func TestScanLoggerTopEdge(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogTopEdge("NUEVAYoL", "kalshi", 0.20, 0.56, -0.36, "SELL")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "SELL", logEntry["recommendation"])
	assert.Equal(t, -0.36, logEntry["edge"])
}

func TestLoggerJSONFormat(t *testing.T) {
	log, buf := setupTestLogger()
	scanLogger := NewScanLogger(log)

	scanLogger.LogVenueDegraded("polymarket", "gamma api unreachable")

	// Verify output is valid JSON
	var logEntry map[string]interface{}
	err := json.Unmarshal(buf.Bytes(), &logEntry)
	assert.NoError(t, err)
	assert.NotEmpty(t, logEntry)
}

func BenchmarkScanLoggerScanCompleted(b *testing.B) {
	log := logrus.New()
	log.SetOutput(&bytes.Buffer{})
	scanLogger := NewScanLogger(log)

	for i := 0; i < b.N; i++ {
		scanLogger.LogScanCompleted(12, 8, 2, 350.0)
	}
}
