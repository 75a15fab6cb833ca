package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/metrics"
)

// Job is one shop-scoped recurring task body.
type Job interface {
	Type() enums.JobType
	Run(ctx context.Context, shop string) error
}

// Registry dispatches scheduled jobs to their registered bodies. It is the
// runner the schedule service executes through.
type Registry struct {
	jobs    map[enums.JobType]Job
	metrics *metrics.CronJobMetrics
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(cronMetrics *metrics.CronJobMetrics, jobs ...Job) *Registry {
	registry := &Registry{
		jobs:    map[enums.JobType]Job{},
		metrics: cronMetrics,
	}
	for _, job := range jobs {
		registry.Register(job)
	}
	return registry
}

// Register adds a job body, replacing any previous body for the same type.
func (r *Registry) Register(job Job) {
	if job == nil {
		return
	}
	r.jobs[job.Type()] = job
}

// Execute runs the body registered for the scheduled job's type.
func (r *Registry) Execute(ctx context.Context, scheduled *models.ScheduledJob) error {
	job, ok := r.jobs[scheduled.JobType]
	if !ok {
		return fmt.Errorf("no job body registered for type %s", scheduled.JobType)
	}

	start := time.Now()
	err := job.Run(ctx, scheduled.Shop)
	if r.metrics != nil {
		r.metrics.ObserveDuration(scheduled.JobType.String(), time.Since(start))
		if err != nil {
			r.metrics.IncFailure(scheduled.JobType.String())
		} else {
			r.metrics.IncSuccess(scheduled.JobType.String())
		}
	}
	return err
}
