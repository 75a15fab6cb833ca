package pricing

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/metrics"
	"github.com/stitchsync/stitchsync-backend/pkg/shopify"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// ComputeAdjustedPrice transforms a price, applies the rounding policy, then
// clamps to a one-cent minimum. The ordering is fixed: transform, round,
// clamp.
func ComputeAdjustedPrice(currentCents int64, adjustType enums.AdjustType, value decimal.Decimal, rounding enums.RoundingPolicy) (int64, error) {
	if !adjustType.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid adjust type %q", adjustType))
	}
	if !rounding.IsValid() {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid rounding policy %q", rounding))
	}

	price := decimal.NewFromInt(currentCents).Div(hundred)

	switch adjustType {
	case enums.AdjustTypePercentIncrease:
		price = price.Mul(one.Add(value.Div(hundred)))
	case enums.AdjustTypePercentDecrease:
		price = price.Mul(one.Sub(value.Div(hundred)))
	case enums.AdjustTypeFixedIncrease:
		price = price.Add(value)
	case enums.AdjustTypeFixedDecrease:
		price = price.Sub(value)
	case enums.AdjustTypeMultiplier:
		price = price.Mul(value)
	case enums.AdjustTypeSetFixed:
		price = value
	}

	var cents int64
	switch rounding {
	case enums.RoundingPolicyNone:
		cents = price.Mul(hundred).Round(0).IntPart()
	case enums.RoundingPolicyNinetyNine:
		cents = price.Floor().Mul(hundred).IntPart() + 99
	case enums.RoundingPolicyNinetyFive:
		cents = price.Floor().Mul(hundred).IntPart() + 95
	case enums.RoundingPolicyNearest:
		cents = price.Round(0).Mul(hundred).IntPart()
	case enums.RoundingPolicyUp:
		cents = price.Ceil().Mul(hundred).IntPart()
	}

	if cents < minPriceCents {
		cents = minPriceCents
	}
	return cents, nil
}

// Adjuster previews and commits bulk price adjustments across a shop's
// mapped products.
type Adjuster struct {
	products ProductSource
	writer   PriceWriter
	writes   *metrics.PriceWriteMetrics
	logg     *logger.Logger
	workers  int
}

// NewAdjuster builds a bulk price adjuster with the given write concurrency.
func NewAdjuster(products ProductSource, writer PriceWriter, writes *metrics.PriceWriteMetrics, logg *logger.Logger, workers int) (*Adjuster, error) {
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	if writer == nil {
		return nil, fmt.Errorf("price writer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if workers < 1 {
		workers = 1
	}
	return &Adjuster{
		products: products,
		writer:   writer,
		writes:   writes,
		logg:     logg,
		workers:  workers,
	}, nil
}

// buildPlan computes the full projected change set. Preview and Apply both
// run through here, so a preview always predicts exactly what a commit will
// write.
func (a *Adjuster) buildPlan(ctx context.Context, shop string, input AdjustInput) (*AdjustPreview, error) {
	adjustType, err := enums.ParseAdjustType(input.AdjustType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse adjust type")
	}
	rounding, err := enums.ParseRoundingPolicy(input.Rounding)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse rounding policy")
	}

	products, err := a.products.ListMapped(ctx, shop, input.ProductMapIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list mapped products")
	}

	preview := &AdjustPreview{Lines: make([]AdjustLine, 0, len(products))}
	for _, product := range products {
		if product.BasePriceCents == nil {
			preview.Skipped++
			continue
		}
		oldCents := *product.BasePriceCents
		newCents, err := ComputeAdjustedPrice(oldCents, adjustType, input.Value, rounding)
		if err != nil {
			return nil, err
		}

		change := decimal.Zero
		if oldCents != 0 {
			change = decimal.NewFromInt(newCents - oldCents).
				Div(decimal.NewFromInt(oldCents)).
				Mul(hundred).
				Round(2)
		}

		preview.Lines = append(preview.Lines, AdjustLine{
			ProductMapID:  product.ID,
			ExternalID:    product.ExternalProductID,
			Title:         product.Title,
			OldPrice:      decimal.NewFromInt(oldCents).Div(hundred),
			NewPrice:      decimal.NewFromInt(newCents).Div(hundred),
			PercentChange: change,
			oldCents:      oldCents,
			newCents:      newCents,
		})
	}
	return preview, nil
}

// Preview computes the projected change set without side effects.
func (a *Adjuster) Preview(ctx context.Context, shop string, input AdjustInput) (*AdjustPreview, error) {
	return a.buildPlan(ctx, shop, input)
}

// Apply commits the change set, writing one external price update per
// product with bounded concurrency. A single product's failure never aborts
// the batch.
func (a *Adjuster) Apply(ctx context.Context, shop, accessToken string, input AdjustInput) (*AdjustResult, error) {
	plan, err := a.buildPlan(ctx, shop, input)
	if err != nil {
		return nil, err
	}

	var updated, failed int64
	lines := make(chan AdjustLine)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for line := range lines {
				if err := a.writeLine(ctx, shop, accessToken, line); err != nil {
					atomic.AddInt64(&failed, 1)
					if a.writes != nil {
						a.writes.IncFailure()
					}
					a.logg.Error(a.logg.WithField(ctx, "product_map_id", line.ProductMapID.String()), "price write failed", err)
					continue
				}
				atomic.AddInt64(&updated, 1)
				if a.writes != nil {
					a.writes.IncSuccess()
				}
			}
		}()
	}

	for _, line := range plan.Lines {
		lines <- line
	}
	close(lines)
	wg.Wait()

	return &AdjustResult{
		Updated: atomic.LoadInt64(&updated),
		Failed:  atomic.LoadInt64(&failed),
		Skipped: plan.Skipped,
	}, nil
}

func (a *Adjuster) writeLine(ctx context.Context, shop, accessToken string, line AdjustLine) error {
	gid := shopify.ProductGID(line.ExternalID)
	variants, err := a.writer.ListVariants(ctx, shop, accessToken, gid)
	if err != nil {
		return fmt.Errorf("list variants: %w", err)
	}
	if len(variants) == 0 {
		return fmt.Errorf("product %d has no variants", line.ExternalID)
	}

	inputs := make([]shopify.VariantPriceInput, len(variants))
	for i, variant := range variants {
		inputs[i] = shopify.VariantPriceInput{VariantID: variant.ID, PriceCents: line.newCents}
	}
	if err := a.writer.UpdateVariantPrices(ctx, shop, accessToken, gid, inputs); err != nil {
		return fmt.Errorf("update variant prices: %w", err)
	}

	if err := a.products.UpdateBasePrice(ctx, shop, line.ProductMapID, line.newCents); err != nil {
		return fmt.Errorf("persist base price: %w", err)
	}
	return nil
}
