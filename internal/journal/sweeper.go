package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"pageforge/internal/logfields"
)

// sweepInterval is how often the retention sweep runs.
const sweepInterval = 24 * time.Hour

// Sweeper periodically deletes journal events older than the retention
// window.
type Sweeper struct {
	store     Store
	retention time.Duration
	scheduler gocron.Scheduler
}

// NewSweeper creates a sweeper pruning events older than retention.
func NewSweeper(store Store, retention time.Duration) (*Sweeper, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Sweeper{store: store, retention: retention, scheduler: s}, nil
}

// Start runs one immediate sweep and schedules the periodic ones.
func (s *Sweeper) Start(ctx context.Context) error {
	s.SweepNow(ctx)

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() { s.SweepNow(context.Background()) }),
		gocron.WithName("journal-retention"),
	)
	if err != nil {
		return fmt.Errorf("failed to create retention job: %w", err)
	}
	s.scheduler.Start()
	return nil
}

// Stop shuts down the scheduler.
func (s *Sweeper) Stop() error {
	return s.scheduler.Shutdown()
}

// SweepNow prunes expired events once. Failures are logged; the next
// sweep retries.
func (s *Sweeper) SweepNow(ctx context.Context) {
	cutoff := time.Now().Add(-s.retention)
	removed, err := s.store.Prune(ctx, cutoff)
	if err != nil {
		slog.Warn("Journal retention sweep failed", logfields.Error(err))
		return
	}
	if removed > 0 {
		slog.Info("Journal retention sweep removed events",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff))
	}
}
