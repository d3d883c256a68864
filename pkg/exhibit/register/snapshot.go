package register

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"evidex-hq/custodia/pkg/exhibit"
	"evidex-hq/custodia/pkg/exhibit/export"
	"evidex-hq/custodia/pkg/exhibit/query"
)

// Config contains configuration for the register snapshotter.
type Config struct {
	// SnapshotSchedule is a cron expression for scheduling snapshots.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables scheduling.
	SnapshotSchedule string

	// OutputDir is the directory snapshot files are written to.
	OutputDir string
}

// DefaultConfig returns the default register configuration.
func DefaultConfig() *Config {
	return &Config{
		SnapshotSchedule: "0 3 * * *",
		OutputDir:        "data/register/",
	}
}

// Snapshotter exports the full register to timestamped CSV files.
type Snapshotter struct {
	storage   exhibit.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewSnapshotter creates a new register snapshotter.
func NewSnapshotter(storage exhibit.Storage, config *Config) *Snapshotter {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Snapshotter{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "exhibit.register"),
	}
	s.scheduler = NewScheduler(s)
	return s
}

// Scheduler returns the cron scheduler driving periodic snapshots.
func (s *Snapshotter) Scheduler() *Scheduler {
	return s.scheduler
}

// Snapshot exports every stored record to a timestamped CSV file under
// OutputDir and returns the record count and the file path. Rows are
// streamed from storage straight into the file, and the file is written to
// a temp name and renamed into place so readers never observe a partial
// snapshot.
func (s *Snapshotter) Snapshot(ctx context.Context) (int, string, error) {
	q := &exhibit.Query{Limit: query.MaxLimit}
	query.ApplyDefaults(q)

	if err := os.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return 0, "", fmt.Errorf("creating snapshot directory: %w", err)
	}

	name := fmt.Sprintf("register-%s.csv", time.Now().UTC().Format("20060102-150405"))
	finalPath := filepath.Join(s.config.OutputDir, name)

	tmp, err := os.CreateTemp(s.config.OutputDir, "register-*.csv.tmp")
	if err != nil {
		return 0, "", fmt.Errorf("creating snapshot file: %w", err)
	}
	tmpPath := tmp.Name()

	cw := export.NewCSVWriter(tmp, true)
	count := 0
	err = s.storage.StreamEvidence(ctx, q, func(r *exhibit.Record) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		return cw.Write(r)
	})
	if err == nil {
		err = cw.Flush()
	}
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("writing register snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("closing snapshot file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return 0, "", fmt.Errorf("publishing snapshot file: %w", err)
	}

	s.logger.Info("register snapshot written",
		"path", finalPath,
		"records", count,
	)
	return count, finalPath, nil
}
