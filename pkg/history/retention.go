package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls automatic history pruning.
type RetentionConfig struct {
	// RetentionDays removes records older than this many days. Zero
	// disables age-based pruning.
	RetentionDays int

	// MaxRecords caps the table size, removing the oldest rows beyond it.
	// Zero disables the cap.
	MaxRecords int64

	// PruneSchedule is a standard cron expression ("0 3 * * *" for daily
	// at 3 AM). Empty disables scheduled pruning.
	PruneSchedule string
}

// Pruner removes expired render records from the store.
type Pruner struct {
	store  *Store
	config *RetentionConfig
	logger *slog.Logger
}

// NewPruner creates a pruner over the given store.
func NewPruner(store *Store, config *RetentionConfig) *Pruner {
	return &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "history.pruner"),
	}
}

// Prune applies the age and cap policies once, returning the total number
// of records removed.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.store.DeleteBefore(ctx, cutoff)
		if err != nil {
			return total, fmt.Errorf("age-based prune: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.store.DeleteOverCap(ctx, p.config.MaxRecords)
		if err != nil {
			return total, fmt.Errorf("cap-based prune: %w", err)
		}
		total += deleted
	}

	return total, nil
}

// Scheduler runs the pruner on the configured cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
	logger  *slog.Logger
}

// NewScheduler creates a retention scheduler for the pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "history.scheduler"),
	}
}

// Start begins scheduled pruning. An empty schedule is a no-op, so the
// scheduler can always be started.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	if schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}

	_, err := s.cron.AddFunc(schedule, func() {
		deleted, err := s.pruner.Prune(ctx)
		if err != nil {
			s.logger.Error("scheduled history pruning failed", "error", err)
			return
		}
		if deleted > 0 {
			s.logger.Info("scheduled history pruning completed", "deleted_count", deleted)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
		"max_records", s.pruner.config.MaxRecords,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop stops the scheduler and waits for a running prune to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		<-s.cron.Stop().Done()
		s.running = false
		s.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
