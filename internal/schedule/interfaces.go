package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// RunOutcome is the terminal record of one job execution.
type RunOutcome struct {
	Status    enums.JobRunStatus
	Error     *string
	RanAt     time.Time
	NextRunAt *time.Time
}

// Repository persists scheduled jobs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, job *models.ScheduledJob) (*models.ScheduledJob, error)
	Save(ctx context.Context, job *models.ScheduledJob) error
	Delete(ctx context.Context, shop string, id uuid.UUID) error
	FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error)
	FindByShopAndType(ctx context.Context, shop string, jobType enums.JobType) (*models.ScheduledJob, error)
	List(ctx context.Context, shop string) ([]models.ScheduledJob, error)

	// ListDue returns enabled jobs across all shops whose next fire time has
	// passed and that are not currently running.
	ListDue(ctx context.Context, now time.Time) ([]models.ScheduledJob, error)

	// TryStart flips the job to running. It reports false when another worker
	// already holds the job.
	TryStart(ctx context.Context, id uuid.UUID) (bool, error)

	// FinishRun records the outcome of a started job and schedules the next
	// fire time.
	FinishRun(ctx context.Context, id uuid.UUID, outcome RunOutcome) error
}

// Runner executes the body of a scheduled job. The cron worker supplies an
// implementation that dispatches on the job type.
type Runner interface {
	Execute(ctx context.Context, job *models.ScheduledJob) error
}
