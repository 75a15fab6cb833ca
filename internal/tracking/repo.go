package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// Repository persists shipment tracking records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, tracking *models.ShipmentTracking) (*models.ShipmentTracking, error)
	FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.ShipmentTracking, error)
	FindByOrderJobID(ctx context.Context, shop string, orderJobID uuid.UUID) (*models.ShipmentTracking, error)
	ListInFlight(ctx context.Context, shop string) ([]models.ShipmentTracking, error)
	ApplySignal(ctx context.Context, id uuid.UUID, status enums.TrackingStatus, lastLocation *string, estimatedDelivery *time.Time, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a tracking repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, tracking *models.ShipmentTracking) (*models.ShipmentTracking, error) {
	if tracking.ID == uuid.Nil {
		tracking.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(tracking).Error; err != nil {
		return nil, err
	}
	return tracking, nil
}

func (r *repository) FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.ShipmentTracking, error) {
	var tracking models.ShipmentTracking
	err := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		First(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

func (r *repository) FindByOrderJobID(ctx context.Context, shop string, orderJobID uuid.UUID) (*models.ShipmentTracking, error) {
	var tracking models.ShipmentTracking
	err := r.db.WithContext(ctx).
		Where("shop = ? AND order_job_id = ?", shop, orderJobID).
		First(&tracking).Error
	if err != nil {
		return nil, err
	}
	return &tracking, nil
}

// ListInFlight returns the shop's not-yet-delivered shipments.
func (r *repository) ListInFlight(ctx context.Context, shop string) ([]models.ShipmentTracking, error) {
	var rows []models.ShipmentTracking
	err := r.db.WithContext(ctx).
		Where("shop = ? AND status <> ?", shop, enums.TrackingStatusDelivered).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ApplySignal writes a carrier signal. Last write wins on the update
// timestamp; status regression away from delivered is excluded in the
// predicate, not left to the caller.
func (r *repository) ApplySignal(ctx context.Context, id uuid.UUID, status enums.TrackingStatus, lastLocation *string, estimatedDelivery *time.Time, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.ShipmentTracking{}).
		Where("id = ? AND status <> ?", id, enums.TrackingStatusDelivered).
		Updates(map[string]any{
			"status":             status,
			"last_location":      lastLocation,
			"estimated_delivery": estimatedDelivery,
			"last_update_at":     at,
		}).Error
}
