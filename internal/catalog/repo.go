package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Upsert writes a mapping keyed by shop + external product id, refreshing the
// style, title and base price on conflict.
func (r *repository) Upsert(ctx context.Context, m *models.ProductMap) (*models.ProductMap, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "shop"}, {Name: "external_product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"supplier_style_id", "title", "base_price_cents", "updated_at",
			}),
		}).
		Create(m).Error
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) Delete(ctx context.Context, shop string, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		Delete(&models.ProductMap{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.ProductMap, error) {
	var m models.ProductMap
	err := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByExternalID(ctx context.Context, shop string, externalProductID int64) (*models.ProductMap, error) {
	var m models.ProductMap
	err := r.db.WithContext(ctx).
		Where("shop = ? AND external_product_id = ?", shop, externalProductID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByStyleID(ctx context.Context, shop, styleID string) (*models.ProductMap, error) {
	var m models.ProductMap
	err := r.db.WithContext(ctx).
		Where("shop = ? AND supplier_style_id = ?", shop, styleID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) List(ctx context.Context, shop string) ([]models.ProductMap, error) {
	var maps []models.ProductMap
	err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Order("created_at ASC").
		Find(&maps).Error
	if err != nil {
		return nil, err
	}
	return maps, nil
}

// ListMapped returns the shop's mappings, narrowed to ids when provided.
func (r *repository) ListMapped(ctx context.Context, shop string, ids []uuid.UUID) ([]models.ProductMap, error) {
	query := r.db.WithContext(ctx).Where("shop = ?", shop)
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	var maps []models.ProductMap
	if err := query.Order("created_at ASC").Find(&maps).Error; err != nil {
		return nil, err
	}
	return maps, nil
}

func (r *repository) UpdateStock(ctx context.Context, shop string, id uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductMap{}).
		Where("shop = ? AND id = ?", shop, id).
		Update("stock_qty", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateBasePrice(ctx context.Context, shop string, id uuid.UUID, cents int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.ProductMap{}).
		Where("shop = ? AND id = ?", shop, id).
		Update("base_price_cents", cents)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
