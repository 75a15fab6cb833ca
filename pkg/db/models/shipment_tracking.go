package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// ShipmentTracking is the 1:1 carrier record for a shipped order job.
type ShipmentTracking struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop              string               `gorm:"column:shop;not null;index"`
	OrderJobID        uuid.UUID            `gorm:"column:order_job_id;type:uuid;not null;uniqueIndex"`
	Carrier           string               `gorm:"column:carrier;not null"`
	TrackingNumber    string               `gorm:"column:tracking_number;not null"`
	Status            enums.TrackingStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	LastLocation      *string              `gorm:"column:last_location"`
	EstimatedDelivery *time.Time           `gorm:"column:estimated_delivery"`
	LastUpdateAt      time.Time            `gorm:"column:last_update_at"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
