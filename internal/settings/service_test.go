package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

func setupSettingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:settings_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`
CREATE TABLE auto_order_settings (
  id TEXT PRIMARY KEY,
  shop TEXT NOT NULL UNIQUE,
  enabled INTEGER NOT NULL DEFAULT 0,
  auto_submit INTEGER NOT NULL DEFAULT 0,
  default_shipping TEXT NOT NULL DEFAULT 'ground',
  notify_email TEXT,
  min_order_value_cents INTEGER NOT NULL DEFAULT 0,
  excluded_tags TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`).Error)
	return db
}

func newSettingsService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupSettingsTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestGetCreatesDefaultsOnFirstAccess(t *testing.T) {
	svc := newSettingsService(t)

	settings, err := svc.Get(context.Background(), "demo.myshopify.com")
	require.NoError(t, err)
	assert.False(t, settings.Enabled)
	assert.False(t, settings.AutoSubmit)
	assert.Equal(t, "ground", settings.DefaultShipping)
	assert.Zero(t, settings.MinOrderValueCents)

	again, err := svc.Get(context.Background(), "demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, settings.ID, again.ID)
}

func TestUpdatePersistsFields(t *testing.T) {
	svc := newSettingsService(t)

	minValue := decimal.NewFromInt(50)
	updated, err := svc.Update(context.Background(), "demo.myshopify.com", UpdateInput{
		Enabled:       true,
		AutoSubmit:    true,
		NotifyEmail:   "ops@example.com",
		MinOrderValue: &minValue,
		ExcludedTags:  []string{"Wholesale", "wholesale", " Sample ", ""},
	})
	require.NoError(t, err)
	assert.True(t, updated.Enabled)
	assert.True(t, updated.AutoSubmit)
	assert.Equal(t, int64(5000), updated.MinOrderValueCents)
	assert.Equal(t, []string{"wholesale", "sample"}, updated.ExcludedTags)

	found, err := svc.Get(context.Background(), "demo.myshopify.com")
	require.NoError(t, err)
	assert.True(t, found.Enabled)
	assert.Equal(t, []string{"wholesale", "sample"}, found.ExcludedTags)
}

func TestUpdateRejectsNegativeMinimum(t *testing.T) {
	svc := newSettingsService(t)

	negative := decimal.NewFromInt(-1)
	_, err := svc.Update(context.Background(), "demo.myshopify.com", UpdateInput{MinOrderValue: &negative})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateKeepsShippingWhenOmitted(t *testing.T) {
	svc := newSettingsService(t)

	updated, err := svc.Update(context.Background(), "demo.myshopify.com", UpdateInput{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "ground", updated.DefaultShipping)

	updated, err = svc.Update(context.Background(), "demo.myshopify.com", UpdateInput{DefaultShipping: "express"})
	require.NoError(t, err)
	assert.Equal(t, "express", updated.DefaultShipping)
}
