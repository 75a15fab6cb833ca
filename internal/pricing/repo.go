package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pricing repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateRule(ctx context.Context, rule *models.VolumePriceRule) (*models.VolumePriceRule, error) {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

// UpdateRule replaces a rule's definition wholesale: child tiers, premiums
// and assignments are deleted and recreated from the incoming record.
func (r *repository) UpdateRule(ctx context.Context, rule *models.VolumePriceRule) (*models.VolumePriceRule, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.VolumeTier{}, &models.SizePremium{}, &models.RuleProductAssigned{}} {
			if err := tx.Where("rule_id = ?", rule.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(rule).Error
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

func (r *repository) DeleteRule(ctx context.Context, shop string, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		Select("Tiers", "SizePremiums", "Products").
		Delete(&models.VolumePriceRule{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) FindRuleByID(ctx context.Context, shop string, id uuid.UUID) (*models.VolumePriceRule, error) {
	var rule models.VolumePriceRule
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("min_qty ASC") }).
		Preload("SizePremiums").
		Preload("Products").
		Where("shop = ? AND id = ?", shop, id).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *repository) ListRules(ctx context.Context, shop string) ([]models.VolumePriceRule, error) {
	var rules []models.VolumePriceRule
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("min_qty ASC") }).
		Preload("SizePremiums").
		Preload("Products").
		Where("shop = ?", shop).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActiveRuleForProduct returns the highest-priority active rule that has
// the product assigned, or gorm.ErrRecordNotFound.
func (r *repository) FindActiveRuleForProduct(ctx context.Context, shop string, productMapID uuid.UUID) (*models.VolumePriceRule, error) {
	var rule models.VolumePriceRule
	err := r.db.WithContext(ctx).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB { return db.Order("min_qty ASC") }).
		Preload("SizePremiums").
		Preload("Products").
		Joins("JOIN rule_product_assigneds ON rule_product_assigneds.rule_id = volume_price_rules.id").
		Where("volume_price_rules.shop = ? AND volume_price_rules.active = ? AND rule_product_assigneds.product_map_id = ?", shop, true, productMapID).
		Order("volume_price_rules.priority DESC, volume_price_rules.created_at ASC").
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}
