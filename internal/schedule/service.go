package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// CreateInput registers a recurring job for a shop.
type CreateInput struct {
	JobType  string `json:"job_type" validate:"required"`
	Schedule string `json:"schedule" validate:"required"`
	Enabled  *bool  `json:"enabled"`
}

// UpdateInput changes a job's cadence or enablement. Nil fields are left
// untouched.
type UpdateInput struct {
	Schedule *string `json:"schedule"`
	Enabled  *bool   `json:"enabled"`
}

// DispatchSummary counts one dispatcher sweep over due jobs.
type DispatchSummary struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// Service manages recurring jobs and their executions.
type Service interface {
	Create(ctx context.Context, shop string, input CreateInput) (*models.ScheduledJob, error)
	Update(ctx context.Context, shop string, id uuid.UUID, input UpdateInput) (*models.ScheduledJob, error)
	Delete(ctx context.Context, shop string, id uuid.UUID) error
	Get(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error)
	List(ctx context.Context, shop string) ([]models.ScheduledJob, error)

	// Run triggers the job immediately, even when it is disabled.
	Run(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error)

	// RunDue executes every enabled job whose fire time has passed.
	RunDue(ctx context.Context) (*DispatchSummary, error)
}

type service struct {
	repo   Repository
	runner Runner
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds a schedule service.
func NewService(repo Repository, runner Runner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("schedule repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("job runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, runner: runner, logg: logg, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, shop string, input CreateInput) (*models.ScheduledJob, error) {
	jobType, err := enums.ParseJobType(input.JobType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid job type")
	}
	kind, err := enums.ParseScheduleKind(input.Schedule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid schedule")
	}

	if _, err := s.repo.FindByShopAndType(ctx, shop, jobType); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("job %s already scheduled", jobType))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing job")
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}
	next := ComputeNextRun(kind, s.now())
	created, err := s.repo.Create(ctx, &models.ScheduledJob{
		Shop:       shop,
		JobType:    jobType,
		Schedule:   kind,
		Enabled:    enabled,
		LastStatus: enums.JobRunStatusPending,
		NextRunAt:  &next,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create scheduled job")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, shop string, id uuid.UUID, input UpdateInput) (*models.ScheduledJob, error) {
	job, err := s.load(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	if input.Schedule != nil {
		kind, err := enums.ParseScheduleKind(*input.Schedule)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid schedule")
		}
		if kind != job.Schedule {
			job.Schedule = kind
			next := ComputeNextRun(kind, s.now())
			job.NextRunAt = &next
		}
	}
	if input.Enabled != nil {
		job.Enabled = *input.Enabled
	}

	if err := s.repo.Save(ctx, job); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save scheduled job")
	}
	return job, nil
}

func (s *service) Delete(ctx context.Context, shop string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, shop, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "scheduled job not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete scheduled job")
	}
	return nil
}

func (s *service) Get(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error) {
	return s.load(ctx, shop, id)
}

func (s *service) List(ctx context.Context, shop string) ([]models.ScheduledJob, error) {
	jobs, err := s.repo.List(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scheduled jobs")
	}
	return jobs, nil
}

func (s *service) Run(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error) {
	job, err := s.load(ctx, shop, id)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, job); err != nil {
		return nil, err
	}
	return s.load(ctx, shop, id)
}

func (s *service) RunDue(ctx context.Context) (*DispatchSummary, error) {
	due, err := s.repo.ListDue(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list due jobs")
	}

	summary := &DispatchSummary{}
	var errs error
	for i := range due {
		job := due[i]
		err := s.execute(ctx, &job)
		switch {
		case err == nil:
			summary.Succeeded++
		case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeStateConflict:
			summary.Skipped++
		default:
			summary.Failed++
			errs = multierr.Append(errs, fmt.Errorf("job %s/%s: %w", job.Shop, job.JobType, err))
		}
	}
	if errs != nil {
		s.logg.Error(ctx, "scheduled dispatch finished with failures", errs)
	}
	return summary, nil
}

// execute runs one job body under the run guard and records the outcome.
func (s *service) execute(ctx context.Context, job *models.ScheduledJob) error {
	started, err := s.repo.TryStart(ctx, job.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start scheduled job")
	}
	if !started {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "job is already running")
	}

	jobCtx := s.logg.WithJob(s.logg.WithShop(ctx, job.Shop), job.JobType.String())
	s.logg.Info(jobCtx, "job start")

	ranAt := s.now()
	runErr := s.runner.Execute(jobCtx, job)
	next := ComputeNextRun(job.Schedule, ranAt)

	outcome := RunOutcome{
		Status:    enums.JobRunStatusSuccess,
		RanAt:     ranAt,
		NextRunAt: &next,
	}
	if runErr != nil {
		message := runErr.Error()
		outcome.Status = enums.JobRunStatusFailed
		outcome.Error = &message
	}
	if err := s.repo.FinishRun(ctx, job.ID, outcome); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record job outcome")
	}

	if runErr != nil {
		s.logg.Error(jobCtx, "job failed", runErr)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, runErr, "job execution failed")
	}
	s.logg.Info(jobCtx, "job completed")
	return nil
}

func (s *service) load(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error) {
	job, err := s.repo.FindByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "scheduled job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load scheduled job")
	}
	return job, nil
}
