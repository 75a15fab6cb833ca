package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

const defaultRetention = 90 * 24 * time.Hour

type jobPurger interface {
	PurgeTerminalBefore(ctx context.Context, shop string, before time.Time) (int64, error)
}

// cleanupJob removes terminal order jobs past the retention window.
type cleanupJob struct {
	orders    jobPurger
	retention time.Duration
	logg      *logger.Logger
	now       func() time.Time
}

// NewCleanupJob builds the cleanup job body. A non-positive retention falls
// back to the default.
func NewCleanupJob(orders jobPurger, retention time.Duration, logg *logger.Logger) (Job, error) {
	if orders == nil {
		return nil, fmt.Errorf("order purger required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if retention <= 0 {
		retention = defaultRetention
	}
	return &cleanupJob{orders: orders, retention: retention, logg: logg, now: time.Now}, nil
}

func (j *cleanupJob) Type() enums.JobType {
	return enums.JobTypeCleanup
}

func (j *cleanupJob) Run(ctx context.Context, shop string) error {
	cutoff := j.now().Add(-j.retention)
	purged, err := j.orders.PurgeTerminalBefore(ctx, shop, cutoff)
	if err != nil {
		return fmt.Errorf("purge terminal jobs: %w", err)
	}
	if purged > 0 {
		j.logg.Info(j.logg.WithField(ctx, "purged", purged), "removed terminal order jobs past retention")
	}
	return nil
}
