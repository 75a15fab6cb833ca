package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/shopify"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

// Repository persists product mappings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Upsert(ctx context.Context, m *models.ProductMap) (*models.ProductMap, error)
	Delete(ctx context.Context, shop string, id uuid.UUID) error
	FindByID(ctx context.Context, shop string, id uuid.UUID) (*models.ProductMap, error)
	FindByExternalID(ctx context.Context, shop string, externalProductID int64) (*models.ProductMap, error)
	FindByStyleID(ctx context.Context, shop, styleID string) (*models.ProductMap, error)
	List(ctx context.Context, shop string) ([]models.ProductMap, error)
	ListMapped(ctx context.Context, shop string, ids []uuid.UUID) ([]models.ProductMap, error)
	UpdateBasePrice(ctx context.Context, shop string, id uuid.UUID, cents int64) error
	UpdateStock(ctx context.Context, shop string, id uuid.UUID, qty int) error
}

// StyleSource is the supplier catalog surface the import path consumes.
type StyleSource interface {
	GetStyle(ctx context.Context, styleID string) (*supplier.Style, error)
	ListProducts(ctx context.Context, styleID string) ([]supplier.Product, error)
}

// ProductCreator creates the storefront product an imported style maps to.
type ProductCreator interface {
	CreateProduct(ctx context.Context, shop, accessToken string, input shopify.ProductInput) (int64, error)
}

// ImportRecorder bumps the daily imported-count aggregate.
type ImportRecorder interface {
	AddImported(ctx context.Context, shop string, count int) error
}
