package scheduler

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/encore-edge/internal/markets"
)

type stubScanner struct {
	calls int
}

func (s *stubScanner) Scan(ctx context.Context) markets.ScanStats {
	s.calls++
	return markets.ScanStats{MarketsChecked: 3, EdgesCalculated: 2}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestSchedulerStartRequiresJobs(t *testing.T) {
	s := NewScheduler(&stubScanner{}, testLogger())
	assert.Error(t, s.Start())
}

func TestSchedulerLifecycle(t *testing.T) {
	s := NewScheduler(&stubScanner{}, testLogger())

	require.NoError(t, s.ScheduleScan("*/5 * * * *"))
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	// Cannot add jobs while running.
	assert.Error(t, s.ScheduleScan("@hourly"))

	assert.False(t, s.GetNextRun().IsZero())

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())

	// Stopping twice is a no-op.
	assert.NoError(t, s.Stop())
}

func TestSchedulerRejectsInvalidExpression(t *testing.T) {
	s := NewScheduler(&stubScanner{}, testLogger())
	assert.Error(t, s.ScheduleScan("not a cron expression"))
}

func TestSchedulerDoubleStart(t *testing.T) {
	s := NewScheduler(&stubScanner{}, testLogger())
	require.NoError(t, s.ScheduleScan("@hourly"))
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Error(t, s.Start())
}
