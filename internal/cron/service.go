package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/stitchsync/stitchsync-backend/internal/schedule"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

const defaultInterval = time.Minute

// dueRunner is the dispatcher surface of the schedule service.
type dueRunner interface {
	RunDue(ctx context.Context) (*schedule.DispatchSummary, error)
}

// ServiceParams configure the cron worker.
type ServiceParams struct {
	Logger   *logger.Logger
	Lock     Lock
	Schedule dueRunner
	Interval time.Duration
}

// Service sweeps due scheduled jobs on a fixed cadence. The redis lock keeps
// concurrent worker instances from dispatching the same cycle.
type Service struct {
	logg     *logger.Logger
	lock     Lock
	schedule dueRunner
	interval time.Duration
}

// NewService builds a cron worker service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	if params.Schedule == nil {
		return nil, fmt.Errorf("schedule service required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		lock:     params.Lock,
		schedule: params.Schedule,
		interval: interval,
	}, nil
}

// Run starts the dispatch loop until the context is canceled.
func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.runCycle(ctx); err != nil {
		s.logg.Error(ctx, "dispatch cycle failed", err)
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "cron worker context canceled")
			return ctx.Err()
		case <-ticker.C:
			if err := s.runCycle(ctx); err != nil {
				s.logg.Error(ctx, "dispatch cycle failed", err)
			}
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another worker holds the dispatch lock; skipping cycle")
		return nil
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release dispatch lock", relErr)
		}
	}()

	summary, err := s.schedule.RunDue(ctx)
	if err != nil {
		return fmt.Errorf("run due jobs: %w", err)
	}
	if summary.Succeeded+summary.Failed+summary.Skipped > 0 {
		cycleCtx := s.logg.WithFields(ctx, map[string]any{
			"succeeded": summary.Succeeded,
			"failed":    summary.Failed,
			"skipped":   summary.Skipped,
		})
		s.logg.Info(cycleCtx, "dispatch cycle complete")
	}
	return nil
}
