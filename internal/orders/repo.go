package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert creates the job keyed by shop + external order id. A repeated
// webhook delivery leaves the existing row untouched; the bool reports
// whether a new row was created.
func (r *repository) Upsert(ctx context.Context, job *models.OrderJob) (*models.OrderJob, bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shop"}, {Name: "external_order_id"}},
			DoNothing: true,
		}).
		Create(job)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := r.FindByExternalID(ctx, job.Shop, job.ExternalOrderID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return job, true, nil
}

func (r *repository) FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.OrderJob, error) {
	var job models.OrderJob
	err := r.db.WithContext(ctx).
		Preload("Tracking").
		Where("shop = ? AND id = ?", shop, id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) FindByExternalID(ctx context.Context, shop string, externalOrderID int64) (*models.OrderJob, error) {
	var job models.OrderJob
	err := r.db.WithContext(ctx).
		Preload("Tracking").
		Where("shop = ? AND external_order_id = ?", shop, externalOrderID).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) List(ctx context.Context, shop string, status *enums.OrderJobStatus) ([]models.OrderJob, error) {
	query := r.db.WithContext(ctx).Preload("Tracking").Where("shop = ?", shop)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var jobs []models.OrderJob
	if err := query.Order("created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repository) ListByStatuses(ctx context.Context, shop string, statuses []enums.OrderJobStatus) ([]models.OrderJob, error) {
	var jobs []models.OrderJob
	err := r.db.WithContext(ctx).
		Preload("Tracking").
		Where("shop = ? AND status IN ?", shop, statuses).
		Order("created_at ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// PurgeTerminalBefore removes delivered and errored jobs created before the
// cutoff, together with their shipment records. It returns the number of jobs
// removed.
func (r *repository) PurgeTerminalBefore(ctx context.Context, shop string, before time.Time) (int64, error) {
	var purged int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		terminal := []enums.OrderJobStatus{
			enums.OrderJobStatusDelivered,
			enums.OrderJobStatusError,
		}
		stale := tx.Model(&models.OrderJob{}).
			Select("id").
			Where("shop = ? AND status IN ? AND created_at < ?", shop, terminal, before)

		if err := tx.Where("order_job_id IN (?)", stale).
			Delete(&models.ShipmentTracking{}).Error; err != nil {
			return err
		}
		res := tx.Where("shop = ? AND status IN ? AND created_at < ?", shop, terminal, before).
			Delete(&models.OrderJob{})
		if res.Error != nil {
			return res.Error
		}
		purged = res.RowsAffected
		return nil
	})
	return purged, err
}

// TransitionStatus performs a guarded status change: the update only lands
// when the row is still in one of the expected source states. The bool
// reports whether the transition won.
func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from []enums.OrderJobStatus, to enums.OrderJobStatus, updates map[string]any) (bool, error) {
	if updates == nil {
		updates = map[string]any{}
	}
	updates["status"] = to

	res := r.db.WithContext(ctx).
		Model(&models.OrderJob{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
