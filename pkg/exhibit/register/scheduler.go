package register

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs register snapshots at scheduled intervals using cron syntax.
type Scheduler struct {
	snapshotter *Snapshotter
	cron        *cron.Cron
	mu          sync.Mutex
	logger      *slog.Logger
	running     bool
}

// NewScheduler creates a new snapshot scheduler.
func NewScheduler(snapshotter *Snapshotter) *Scheduler {
	return &Scheduler{
		snapshotter: snapshotter,
		cron:        cron.New(),
		logger:      slog.Default().With("component", "exhibit.register.scheduler"),
	}
}

// Start begins scheduled snapshots based on the cron expression in
// config.SnapshotSchedule.
//
// Common cron expressions:
//   - "0 3 * * *"    - Daily at 3 AM
//   - "0 */6 * * *"  - Every 6 hours
//   - "0 0 * * 0"    - Weekly on Sunday at midnight
//
// If SnapshotSchedule is empty, the scheduler does nothing.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.snapshotter.config.SnapshotSchedule
	if schedule == "" {
		s.logger.Info("snapshot schedule not configured, skipping scheduler")
		return nil
	}

	// Validate cron expression
	_, err := cron.ParseStandard(schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	_, err = s.cron.AddFunc(schedule, func() {
		s.runSnapshot(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule snapshots: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("register scheduler started",
		"schedule", schedule,
		"output_dir", s.snapshotter.config.OutputDir,
	)

	// Wait for context cancellation in background
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSnapshot executes one snapshot cycle.
func (s *Scheduler) runSnapshot(ctx context.Context) {
	s.logger.Info("starting scheduled register snapshot")

	count, path, err := s.snapshotter.Snapshot(ctx)
	if err != nil {
		s.logger.Error("scheduled snapshot failed",
			"error", err,
		)
		return
	}

	s.logger.Info("scheduled snapshot completed",
		"records", count,
		"path", path,
	)
}

// Stop stops the scheduler and waits for any running jobs to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for running jobs to finish
		s.running = false
		s.logger.Info("register scheduler stopped")
	}
}

// IsRunning returns true if the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled snapshot time.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
