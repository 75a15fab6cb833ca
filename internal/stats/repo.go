package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
)

// Repository persists the per-shop per-day aggregates. All writes are
// increment-upserts keyed by shop + date.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Increment(ctx context.Context, shop string, day time.Time, delta Delta) error
	ListRange(ctx context.Context, shop string, from, to time.Time) ([]models.DailyStats, error)
}

// Delta is one additive update to a day's aggregates.
type Delta struct {
	Orders    int
	ItemsSold int
	Revenue   int64
	Imported  int
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a stats repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

const dayFormat = "2006-01-02"

func (r *repository) Increment(ctx context.Context, shop string, day time.Time, delta Delta) error {
	row := &models.DailyStats{
		ID:            uuid.New(),
		Shop:          shop,
		Date:          day.UTC().Format(dayFormat),
		OrdersCount:   delta.Orders,
		ItemsSold:     delta.ItemsSold,
		RevenueCents:  delta.Revenue,
		ImportedCount: delta.Imported,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "shop"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"orders_count":   gorm.Expr("daily_stats.orders_count + ?", delta.Orders),
				"items_sold":     gorm.Expr("daily_stats.items_sold + ?", delta.ItemsSold),
				"revenue_cents":  gorm.Expr("daily_stats.revenue_cents + ?", delta.Revenue),
				"imported_count": gorm.Expr("daily_stats.imported_count + ?", delta.Imported),
				"updated_at":     time.Now(),
			}),
		}).
		Create(row).Error
}

func (r *repository) ListRange(ctx context.Context, shop string, from, to time.Time) ([]models.DailyStats, error) {
	var rows []models.DailyStats
	err := r.db.WithContext(ctx).
		Where("shop = ? AND date >= ? AND date <= ?", shop, from.UTC().Format(dayFormat), to.UTC().Format(dayFormat)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
