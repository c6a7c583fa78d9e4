// Package scheduler runs periodic market scans in the background.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/encore-edge/internal/logger"
	"github.com/yourusername/encore-edge/internal/markets"
	"github.com/yourusername/encore-edge/internal/tracing"
)

// Scanner runs one full market scan and reports its statistics.
type Scanner interface {
	Scan(ctx context.Context) markets.ScanStats
}

// Scheduler manages scheduled market-scan jobs
type Scheduler struct {
	cron            *cron.Cron
	scanner         Scanner
	scanLogger      *logger.ScanLogger
	log             *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	scanTimeout     time.Duration
	tracingEnabled  bool
}

// NewScheduler creates a new scheduler
func NewScheduler(scanner Scanner, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		scanner:         scanner,
		scanLogger:      logger.NewScanLogger(log),
		log:             log,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
		scanTimeout:     2 * time.Minute,
	}
}

// EnableTracing wraps scheduled scans in X-Ray segments.
func (s *Scheduler) EnableTracing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracingEnabled = true
}

// ScheduleScan schedules a recurring full market scan
func (s *Scheduler) ScheduleScan(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.scanTimeout)
		defer cancel()

		s.mu.RLock()
		traced := s.tracingEnabled
		s.mu.RUnlock()

		tracing.TraceScan(ctx, traced, func(scanCtx context.Context) (int, int) {
			start := time.Now()
			stats := s.scanner.Scan(scanCtx)
			duration := float64(time.Since(start).Milliseconds())

			s.scanLogger.LogScanCompleted(stats.MarketsChecked, stats.EdgesCalculated, stats.SignificantEdges, duration)
			if stats.TopEdge != nil {
				s.scanLogger.LogTopEdge(
					stats.TopEdge.Entity,
					stats.TopEdge.Platform,
					stats.TopEdge.ModelProbability,
					stats.TopEdge.MarketProbability,
					stats.TopEdge.Edge,
					string(stats.TopEdge.Recommendation),
				)
			}
			return stats.MarketsChecked, stats.SignificantEdges
		})
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.log.WithField("schedule", cronExpression).Info("Scheduled market scan job")

	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.log.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.log.Warn("Scheduler stop timed out waiting for running jobs")
	}
	s.isRunning = false
	s.log.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
