package pricing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/shopify"
)

// Repository persists volume price rules and their child records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateRule(ctx context.Context, rule *models.VolumePriceRule) (*models.VolumePriceRule, error)
	UpdateRule(ctx context.Context, rule *models.VolumePriceRule) (*models.VolumePriceRule, error)
	DeleteRule(ctx context.Context, shop string, id uuid.UUID) error
	FindRuleByID(ctx context.Context, shop string, id uuid.UUID) (*models.VolumePriceRule, error)
	ListRules(ctx context.Context, shop string) ([]models.VolumePriceRule, error)
	FindActiveRuleForProduct(ctx context.Context, shop string, productMapID uuid.UUID) (*models.VolumePriceRule, error)
}

// ProductSource supplies the mapped products a bulk adjustment targets and
// persists the new base price after a committed write.
type ProductSource interface {
	ListMapped(ctx context.Context, shop string, ids []uuid.UUID) ([]models.ProductMap, error)
	UpdateBasePrice(ctx context.Context, shop string, id uuid.UUID, cents int64) error
}

// PriceWriter issues external variant price writes.
type PriceWriter interface {
	ListVariants(ctx context.Context, shop, accessToken, productGID string) ([]shopify.Variant, error)
	UpdateVariantPrices(ctx context.Context, shop, accessToken, productGID string, inputs []shopify.VariantPriceInput) error
}
