package orders

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

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE order_jobs (
  id TEXT PRIMARY KEY,
  shop TEXT NOT NULL,
  external_order_id INTEGER NOT NULL,
  order_number INTEGER NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending_approval',
  supplier_order_number TEXT,
  total_cents INTEGER NOT NULL DEFAULT 0,
  item_count INTEGER NOT NULL DEFAULT 0,
  tags TEXT,
  lines TEXT,
  last_error TEXT,
  submitted_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (shop, external_order_id)
);`, `
CREATE TABLE shipment_trackings (
  id TEXT PRIMARY KEY,
  shop TEXT NOT NULL,
  order_job_id TEXT NOT NULL UNIQUE,
  carrier TEXT NOT NULL,
  tracking_number TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  last_location TEXT,
  estimated_delivery DATETIME,
  last_update_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newJob(shop string, externalID int64) *models.OrderJob {
	return &models.OrderJob{
		ID:              uuid.New(),
		Shop:            shop,
		ExternalOrderID: externalID,
		OrderNumber:     1000 + externalID,
		Status:          enums.OrderJobStatusPendingApproval,
		TotalCents:      4800,
		ItemCount:       12,
		Tags:            []string{"web"},
		Lines:           []models.OrderJobLine{{ExternalProductID: 101, Quantity: 12}},
	}
}

func TestUpsertIsIdempotentByExternalOrderID(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	first, created, err := repo.Upsert(ctx, newJob("demo.myshopify.com", 5001))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.Upsert(ctx, newJob("demo.myshopify.com", 5001))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.OrderJob{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	_, created, err = repo.Upsert(ctx, newJob("other.myshopify.com", 5001))
	require.NoError(t, err)
	assert.True(t, created, "same external id under another shop is a distinct job")
}

func TestUpsertRetainsLines(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	created, _, err := repo.Upsert(context.Background(), newJob("demo.myshopify.com", 5001))
	require.NoError(t, err)

	found, err := repo.FindByID(context.Background(), "demo.myshopify.com", created.ID)
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, int64(101), found.Lines[0].ExternalProductID)
	assert.Equal(t, 12, found.Lines[0].Quantity)
}

func TestTransitionStatusGuardsSourceState(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	job, _, err := repo.Upsert(ctx, newJob("demo.myshopify.com", 5001))
	require.NoError(t, err)

	won, err := repo.TransitionStatus(ctx, job.ID,
		[]enums.OrderJobStatus{enums.OrderJobStatusPendingApproval},
		enums.OrderJobStatusSubmitted,
		map[string]any{"supplier_order_number": "SS-100"})
	require.NoError(t, err)
	assert.True(t, won)

	// Second identical transition loses: the row is no longer pending.
	won, err = repo.TransitionStatus(ctx, job.ID,
		[]enums.OrderJobStatus{enums.OrderJobStatusPendingApproval},
		enums.OrderJobStatusSubmitted, nil)
	require.NoError(t, err)
	assert.False(t, won)

	found, err := repo.FindByID(ctx, "demo.myshopify.com", job.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderJobStatusSubmitted, found.Status)
	require.NotNil(t, found.SupplierOrderNumber)
	assert.Equal(t, "SS-100", *found.SupplierOrderNumber)
}

func TestListFiltersByStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	pending, _, err := repo.Upsert(ctx, newJob("demo.myshopify.com", 5001))
	require.NoError(t, err)
	submitted := newJob("demo.myshopify.com", 5002)
	submitted.Status = enums.OrderJobStatusSubmitted
	_, _, err = repo.Upsert(ctx, submitted)
	require.NoError(t, err)

	status := enums.OrderJobStatusPendingApproval
	jobs, err := repo.List(ctx, "demo.myshopify.com", &status)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, pending.ID, jobs[0].ID)

	all, err := repo.List(ctx, "demo.myshopify.com", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inFlight, err := repo.ListByStatuses(ctx, "demo.myshopify.com",
		[]enums.OrderJobStatus{enums.OrderJobStatusSubmitted, enums.OrderJobStatusShipped})
	require.NoError(t, err)
	require.Len(t, inFlight, 1)
	assert.Equal(t, enums.OrderJobStatusSubmitted, inFlight[0].Status)
}
