package intake

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

// productLookup is the product-map membership check.
type productLookup interface {
	FindByExternalID(ctx context.Context, shop string, externalProductID int64) (*models.ProductMap, error)
}

// Classify reports whether an order involves supplier-sourced products. The
// authoritative signal is product-map membership only; the check
// short-circuits at the first mapped line, and a zero-line order is never
// relevant.
func Classify(ctx context.Context, lookup productLookup, shop string, lineItems []WebhookLineItem) (bool, error) {
	for _, line := range lineItems {
		_, err := lookup.FindByExternalID(ctx, shop, line.ProductID)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "product map lookup")
		}
	}
	return false, nil
}
