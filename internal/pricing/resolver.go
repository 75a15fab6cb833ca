package pricing

import (
	"errors"
	"strings"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
)

// ErrNoMatchingTier is returned when no tier's range contains the requested
// quantity. Callers fall back to the base price.
var ErrNoMatchingTier = errors.New("no tier matches quantity")

const minPriceCents = int64(1)

// SelectTier picks the tier whose range contains quantity. Under a
// misconfigured overlapping tier set the lowest-minQty match wins, so the
// result is deterministic regardless of input order.
func SelectTier(tiers []models.VolumeTier, quantity int) (*models.VolumeTier, error) {
	var match *models.VolumeTier
	for i := range tiers {
		tier := &tiers[i]
		if quantity < tier.MinQty {
			continue
		}
		if tier.MaxQty != nil && quantity > *tier.MaxQty {
			continue
		}
		if match == nil || tier.MinQty < match.MinQty {
			match = tier
		}
	}
	if match == nil {
		return nil, ErrNoMatchingTier
	}
	return match, nil
}

// PremiumFor returns the surcharge for a size label, zero when the label has
// no premium configured.
func PremiumFor(premiums []models.SizePremium, sizeLabel string) int64 {
	if sizeLabel == "" {
		return 0
	}
	for _, premium := range premiums {
		if strings.EqualFold(premium.SizeLabel, sizeLabel) {
			return premium.AmountCents
		}
	}
	return 0
}

// ResolveUnitPrice applies the matching tier's discount to the base price,
// adds the size premium after the discount, and floors the result at one
// cent. It returns ErrNoMatchingTier when the tier set has a gap at the
// requested quantity.
func ResolveUnitPrice(basePriceCents int64, quantity int, tiers []models.VolumeTier, premiumCents int64) (int64, error) {
	tier, err := SelectTier(tiers, quantity)
	if err != nil {
		return 0, err
	}

	price := basePriceCents
	switch tier.Type {
	case enums.DiscountTypePercentage:
		// Value is basis points; half-up rounding keeps the math in cents.
		price -= (basePriceCents*tier.Value + 5000) / 10000
	case enums.DiscountTypeFixed:
		price -= tier.Value
	}

	price += premiumCents
	if price < minPriceCents {
		price = minPriceCents
	}
	return price, nil
}
