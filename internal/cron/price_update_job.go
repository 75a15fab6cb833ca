package cron

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/shopify"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

// priceWriter pushes storefront price changes.
type priceWriter interface {
	ListVariants(ctx context.Context, shop, accessToken, productGID string) ([]shopify.Variant, error)
	UpdateVariantPrices(ctx context.Context, shop, accessToken, productGID string, inputs []shopify.VariantPriceInput) error
}

// tokenSource yields the Admin API token for a shop.
type tokenSource interface {
	AccessToken(ctx context.Context, shop string) (string, error)
}

// priceUpdateJob re-derives each mapping's base price from the supplier's
// current piece prices and pushes changes to the storefront.
type priceUpdateJob struct {
	mappings mappingSource
	styles   styleSource
	writer   priceWriter
	tokens   tokenSource
	logg     *logger.Logger
}

// NewPriceUpdateJob builds the price update job body.
func NewPriceUpdateJob(mappings mappingSource, styles styleSource, writer priceWriter, tokens tokenSource, logg *logger.Logger) (Job, error) {
	if mappings == nil {
		return nil, fmt.Errorf("mapping source required")
	}
	if styles == nil {
		return nil, fmt.Errorf("style source required")
	}
	if writer == nil {
		return nil, fmt.Errorf("price writer required")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &priceUpdateJob{
		mappings: mappings,
		styles:   styles,
		writer:   writer,
		tokens:   tokens,
		logg:     logg,
	}, nil
}

func (j *priceUpdateJob) Type() enums.JobType {
	return enums.JobTypePriceUpdate
}

func (j *priceUpdateJob) Run(ctx context.Context, shop string) error {
	mappings, err := j.mappings.List(ctx, shop)
	if err != nil {
		return fmt.Errorf("list mappings: %w", err)
	}
	token, err := j.tokens.AccessToken(ctx, shop)
	if err != nil {
		return fmt.Errorf("resolve access token: %w", err)
	}

	var errs error
	for _, mapping := range mappings {
		products, err := j.styles.ListProducts(ctx, mapping.SupplierStyleID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
			continue
		}
		cents := lowestPieceCents(products)
		if cents <= 0 {
			continue
		}
		if mapping.BasePriceCents != nil && *mapping.BasePriceCents == cents {
			continue
		}
		if err := j.pushPrice(ctx, shop, token, mapping.ExternalProductID, cents); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
			continue
		}
		if err := j.mappings.UpdateBasePrice(ctx, shop, mapping.ID, cents); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
		}
	}
	return errs
}

func (j *priceUpdateJob) pushPrice(ctx context.Context, shop, token string, externalProductID, cents int64) error {
	gid := shopify.ProductGID(externalProductID)
	variants, err := j.writer.ListVariants(ctx, shop, token, gid)
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	if len(variants) == 0 {
		return fmt.Errorf("product %d has no variants", externalProductID)
	}
	inputs := make([]shopify.VariantPriceInput, len(variants))
	for i, variant := range variants {
		inputs[i] = shopify.VariantPriceInput{VariantID: variant.ID, PriceCents: cents}
	}
	return j.writer.UpdateVariantPrices(ctx, shop, token, gid, inputs)
}

func lowestPieceCents(products []supplier.Product) int64 {
	var lowest int64
	for _, product := range products {
		cents := decimal.NewFromFloat(product.PiecePrice).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		if cents <= 0 {
			continue
		}
		if lowest == 0 || cents < lowest {
			lowest = cents
		}
	}
	return lowest
}
