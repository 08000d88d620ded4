package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/condconfig/pkg/telemetry/logging"
)

// Scheduler re-runs the import on a cron schedule.
type Scheduler struct {
	schedule string
	cron     *cron.Cron
	logger   *logging.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for a standard 5-field cron expression.
//
// Common cron expressions:
//   - "*/15 * * * *" - Every 15 minutes
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 3 * * *"    - Daily at 3 AM
func NewScheduler(schedule string, logger *logging.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	if logger == nil {
		var err error
		if logger, err = logging.New(logging.Config{}); err != nil {
			return nil, err
		}
	}

	return &Scheduler{
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "schedule"),
	}, nil
}

// Start registers run and starts the cron loop. The scheduler stops when
// ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, run RunFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	if _, err := s.cron.AddFunc(s.schedule, func() { s.runScheduled(ctx, run) }); err != nil {
		return fmt.Errorf("failed to schedule import: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("import scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runScheduled(ctx context.Context, run RunFunc) {
	s.logger.Info("starting scheduled import")

	if err := run(ctx); err != nil {
		s.logger.Error("scheduled import failed", "error", err)
		return
	}
	s.logger.Debug("scheduled import completed")
}

// Stop stops the scheduler and waits for a running import to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("import scheduler stopped")
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled import time, or nil when not started.
func (s *Scheduler) NextRun() *time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
