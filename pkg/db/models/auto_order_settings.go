package models

import (
	"time"

	"github.com/google/uuid"
)

// AutoOrderSettings holds one row of order-automation configuration per shop,
// created lazily with defaults on first access.
type AutoOrderSettings struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop               string    `gorm:"column:shop;not null;uniqueIndex"`
	Enabled            bool      `gorm:"column:enabled;not null;default:false"`
	AutoSubmit         bool      `gorm:"column:auto_submit;not null;default:false"`
	DefaultShipping    string    `gorm:"column:default_shipping;not null;default:'ground'"`
	NotifyEmail        string    `gorm:"column:notify_email"`
	MinOrderValueCents int64     `gorm:"column:min_order_value_cents;not null;default:0"`
	ExcludedTags       []string  `gorm:"column:excluded_tags;type:jsonb;serializer:json"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
