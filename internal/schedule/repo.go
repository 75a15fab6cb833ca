package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a scheduled job repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, job *models.ScheduledJob) (*models.ScheduledJob, error) {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repository) Save(ctx context.Context, job *models.ScheduledJob) error {
	return r.db.WithContext(ctx).Save(job).Error
}

func (r *repository) Delete(ctx context.Context, shop string, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		Delete(&models.ScheduledJob{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.ScheduledJob, error) {
	var job models.ScheduledJob
	err := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) FindByShopAndType(ctx context.Context, shop string, jobType enums.JobType) (*models.ScheduledJob, error) {
	var job models.ScheduledJob
	err := r.db.WithContext(ctx).
		Where("shop = ? AND job_type = ?", shop, jobType).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) List(ctx context.Context, shop string) ([]models.ScheduledJob, error) {
	var jobs []models.ScheduledJob
	err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("job_type ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repository) ListDue(ctx context.Context, now time.Time) ([]models.ScheduledJob, error) {
	var jobs []models.ScheduledJob
	err := r.db.WithContext(ctx).
		Where("enabled = ? AND next_run_at IS NOT NULL AND next_run_at <= ? AND last_status <> ?",
			true, now, enums.JobRunStatusRunning).
		Order("next_run_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// TryStart is the run guard: the update only lands when the job is not
// already running, so concurrent workers cannot double-start it.
func (r *repository) TryStart(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ScheduledJob{}).
		Where("id = ? AND last_status <> ?", id, enums.JobRunStatusRunning).
		Update("last_status", enums.JobRunStatusRunning)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repository) FinishRun(ctx context.Context, id uuid.UUID, outcome RunOutcome) error {
	return r.db.WithContext(ctx).
		Model(&models.ScheduledJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_status": outcome.Status,
			"last_error":  outcome.Error,
			"last_run_at": outcome.RanAt,
			"next_run_at": outcome.NextRunAt,
			"run_count":   gorm.Expr("run_count + ?", 1),
		}).Error
}
