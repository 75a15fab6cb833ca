package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// VolumePriceRule groups quantity tiers and size premiums for a set of
// mapped products within one shop.
type VolumePriceRule struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop         string                `gorm:"column:shop;not null;index"`
	Name         string                `gorm:"column:name;not null"`
	Active       bool                  `gorm:"column:active;not null;default:true"`
	Priority     int                   `gorm:"column:priority;not null;default:0"`
	Tiers        []VolumeTier          `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`
	SizePremiums []SizePremium         `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`
	Products     []RuleProductAssigned `gorm:"foreignKey:RuleID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// VolumeTier maps a quantity range to a discount. MaxQty nil means the tier is
// unbounded; the save path keeps tiers non-overlapping and ascending by MinQty.
type VolumeTier struct {
	ID       uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RuleID   uuid.UUID          `gorm:"column:rule_id;type:uuid;not null;index"`
	MinQty   int                `gorm:"column:min_qty;not null"`
	MaxQty   *int               `gorm:"column:max_qty"`
	Type     enums.DiscountType `gorm:"column:discount_type;type:text;not null"`
	Position int                `gorm:"column:position;not null;default:0"`
	// Value is basis points for percentage tiers (1000 = 10%) and cents for
	// fixed tiers.
	Value int64 `gorm:"column:discount_value;not null"`
}

// SizePremium is a flat per-unit surcharge for a size label, added after the
// tier discount.
type SizePremium struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RuleID      uuid.UUID `gorm:"column:rule_id;type:uuid;not null;index"`
	SizeLabel   string    `gorm:"column:size_label;not null"`
	AmountCents int64     `gorm:"column:amount_cents;not null"`
}

// RuleProductAssigned links a rule to a mapped product, optionally overriding
// the product's base price for tier resolution.
type RuleProductAssigned struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RuleID         uuid.UUID `gorm:"column:rule_id;type:uuid;not null;index"`
	ProductMapID   uuid.UUID `gorm:"column:product_map_id;type:uuid;not null;index"`
	BasePriceCents *int64    `gorm:"column:base_price_cents"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
