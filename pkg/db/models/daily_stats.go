package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyStats aggregates per-shop activity, one row per shop per day,
// increment-only.
type DailyStats struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Shop          string    `gorm:"column:shop;not null;uniqueIndex:idx_daily_stats_shop_date"`
	Date          string    `gorm:"column:date;type:date;not null;uniqueIndex:idx_daily_stats_shop_date"`
	OrdersCount   int       `gorm:"column:orders_count;not null;default:0"`
	ItemsSold     int       `gorm:"column:items_sold;not null;default:0"`
	RevenueCents  int64     `gorm:"column:revenue_cents;not null;default:0"`
	ImportedCount int       `gorm:"column:imported_count;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
