package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductMap links a shop's local product to a supplier style. Membership in
// this table is the authoritative signal that an order line is
// supplier-sourced.
type ProductMap struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop              string    `gorm:"column:shop;not null;uniqueIndex:idx_product_maps_shop_external"`
	ExternalProductID int64     `gorm:"column:external_product_id;not null;uniqueIndex:idx_product_maps_shop_external"`
	SupplierStyleID   string    `gorm:"column:supplier_style_id;not null;index"`
	Title             string    `gorm:"column:title"`
	BasePriceCents    *int64    `gorm:"column:base_price_cents"`
	StockQty          int       `gorm:"column:stock_qty;not null;default:0"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
