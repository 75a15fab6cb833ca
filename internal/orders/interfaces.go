package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// Repository persists order jobs.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Upsert(ctx context.Context, job *models.OrderJob) (*models.OrderJob, bool, error)
	FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.OrderJob, error)
	FindByExternalID(ctx context.Context, shop string, externalOrderID int64) (*models.OrderJob, error)
	List(ctx context.Context, shop string, status *enums.OrderJobStatus) ([]models.OrderJob, error)
	ListByStatuses(ctx context.Context, shop string, statuses []enums.OrderJobStatus) ([]models.OrderJob, error)
	PurgeTerminalBefore(ctx context.Context, shop string, before time.Time) (int64, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []enums.OrderJobStatus, to enums.OrderJobStatus, updates map[string]any) (bool, error)
}

// SupplierGateway relays an approved job to the wholesale supplier and
// returns the supplier's order number.
type SupplierGateway interface {
	SubmitOrder(ctx context.Context, job *models.OrderJob, shippingMethod string) (string, error)
}
