package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// OrderJobLine is one webhook line item retained for supplier submission.
type OrderJobLine struct {
	ExternalProductID int64 `json:"external_product_id"`
	Quantity          int   `json:"quantity"`
}

// OrderJob is a relayed order awaiting or undergoing supplier fulfillment.
// The shop + external order id pair is unique so repeated webhook deliveries
// never create a second job.
type OrderJob struct {
	ID                  uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop                string               `gorm:"column:shop;not null;uniqueIndex:idx_order_jobs_shop_external"`
	ExternalOrderID     int64                `gorm:"column:external_order_id;not null;uniqueIndex:idx_order_jobs_shop_external"`
	OrderNumber         int64                `gorm:"column:order_number;not null"`
	Status              enums.OrderJobStatus `gorm:"column:status;type:text;not null;default:'pending_approval'"`
	SupplierOrderNumber *string              `gorm:"column:supplier_order_number"`
	TotalCents          int64                `gorm:"column:total_cents;not null;default:0"`
	ItemCount           int                  `gorm:"column:item_count;not null;default:0"`
	Tags                []string             `gorm:"column:tags;type:jsonb;serializer:json"`
	Lines               []OrderJobLine       `gorm:"column:lines;type:jsonb;serializer:json"`
	LastError           *string              `gorm:"column:last_error"`
	SubmittedAt         *time.Time           `gorm:"column:submitted_at"`
	Tracking            *ShipmentTracking    `gorm:"foreignKey:OrderJobID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
