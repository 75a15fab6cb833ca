package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

func setupPricingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:pricing_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE volume_price_rules (
  id TEXT PRIMARY KEY,
  shop TEXT NOT NULL,
  name TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  priority INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE volume_tiers (
  id TEXT PRIMARY KEY,
  rule_id TEXT NOT NULL,
  min_qty INTEGER NOT NULL,
  max_qty INTEGER,
  discount_type TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  discount_value INTEGER NOT NULL
);`, `
CREATE TABLE size_premiums (
  id TEXT PRIMARY KEY,
  rule_id TEXT NOT NULL,
  size_label TEXT NOT NULL,
  amount_cents INTEGER NOT NULL
);`, `
CREATE TABLE rule_product_assigneds (
  id TEXT PRIMARY KEY,
  rule_id TEXT NOT NULL,
  product_map_id TEXT NOT NULL,
  base_price_cents INTEGER,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedRule(t *testing.T, repo Repository, shop string, priority int, active bool, productMapID uuid.UUID) *models.VolumePriceRule {
	t.Helper()
	maxQty := 11
	rule := &models.VolumePriceRule{
		ID:       uuid.New(),
		Shop:     shop,
		Name:     "Seeded",
		Active:   active,
		Priority: priority,
		Tiers: []models.VolumeTier{
			{ID: uuid.New(), MinQty: 1, MaxQty: &maxQty, Type: enums.DiscountTypePercentage, Value: 0},
			{ID: uuid.New(), MinQty: 12, Type: enums.DiscountTypePercentage, Value: 1000, Position: 1},
		},
		SizePremiums: []models.SizePremium{
			{ID: uuid.New(), SizeLabel: "2XL", AmountCents: 200},
		},
		Products: []models.RuleProductAssigned{
			{ID: uuid.New(), ProductMapID: productMapID},
		},
	}
	created, err := repo.CreateRule(context.Background(), rule)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFindRule(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)
	productMapID := uuid.New()

	created := seedRule(t, repo, "demo.myshopify.com", 0, true, productMapID)

	found, err := repo.FindRuleByID(context.Background(), "demo.myshopify.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Seeded", found.Name)
	require.Len(t, found.Tiers, 2)
	assert.Equal(t, 1, found.Tiers[0].MinQty)
	assert.Equal(t, 12, found.Tiers[1].MinQty)
	require.Len(t, found.SizePremiums, 1)
	require.Len(t, found.Products, 1)

	_, err = repo.FindRuleByID(context.Background(), "other.myshopify.com", created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindActiveRuleForProductPrefersPriority(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)
	productMapID := uuid.New()

	seedRule(t, repo, "demo.myshopify.com", 1, true, productMapID)
	high := seedRule(t, repo, "demo.myshopify.com", 5, true, productMapID)
	seedRule(t, repo, "demo.myshopify.com", 9, false, productMapID)

	found, err := repo.FindActiveRuleForProduct(context.Background(), "demo.myshopify.com", productMapID)
	require.NoError(t, err)
	assert.Equal(t, high.ID, found.ID)

	_, err = repo.FindActiveRuleForProduct(context.Background(), "demo.myshopify.com", uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateRuleReplacesChildren(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)
	created := seedRule(t, repo, "demo.myshopify.com", 0, true, uuid.New())

	created.Name = "Edited"
	created.Tiers = []models.VolumeTier{
		{ID: uuid.New(), RuleID: created.ID, MinQty: 1, Type: enums.DiscountTypeFixed, Value: 150},
	}
	created.SizePremiums = nil
	created.Products = nil

	_, err := repo.UpdateRule(context.Background(), created)
	require.NoError(t, err)

	found, err := repo.FindRuleByID(context.Background(), "demo.myshopify.com", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Edited", found.Name)
	require.Len(t, found.Tiers, 1)
	assert.Equal(t, enums.DiscountTypeFixed, found.Tiers[0].Type)
	assert.Empty(t, found.SizePremiums)
}

func TestRepositoryDeleteRuleCascades(t *testing.T) {
	db := setupPricingTestDB(t)
	repo := NewRepository(db)
	created := seedRule(t, repo, "demo.myshopify.com", 0, true, uuid.New())

	require.NoError(t, repo.DeleteRule(context.Background(), "demo.myshopify.com", created.ID))

	_, err := repo.FindRuleByID(context.Background(), "demo.myshopify.com", created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var tierCount int64
	require.NoError(t, db.Model(&models.VolumeTier{}).Where("rule_id = ?", created.ID).Count(&tierCount).Error)
	assert.Zero(t, tierCount)

	err = repo.DeleteRule(context.Background(), "demo.myshopify.com", uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
