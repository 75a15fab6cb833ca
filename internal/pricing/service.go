package pricing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

// Service defines rule management and price quoting.
type Service interface {
	CreateRule(ctx context.Context, shop string, input CreateRuleInput) (*models.VolumePriceRule, error)
	UpdateRule(ctx context.Context, shop string, id uuid.UUID, input UpdateRuleInput) (*models.VolumePriceRule, error)
	DeleteRule(ctx context.Context, shop string, id uuid.UUID) error
	GetRule(ctx context.Context, shop string, id uuid.UUID) (*models.VolumePriceRule, error)
	ListRules(ctx context.Context, shop string) ([]models.VolumePriceRule, error)
	Quote(ctx context.Context, shop string, input QuoteInput) (*QuoteResult, error)
}

type service struct {
	repo     Repository
	products ProductSource
}

// NewService builds a pricing service.
func NewService(repo Repository, products ProductSource) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product source required")
	}
	return &service{repo: repo, products: products}, nil
}

// defaultTierSchedule is seeded when a rule is created without tiers.
// Percent values are basis points.
func defaultTierSchedule() []models.VolumeTier {
	intp := func(v int) *int { return &v }
	return []models.VolumeTier{
		{MinQty: 1, MaxQty: intp(5), Type: enums.DiscountTypePercentage, Value: 0, Position: 0},
		{MinQty: 6, MaxQty: intp(11), Type: enums.DiscountTypePercentage, Value: 500, Position: 1},
		{MinQty: 12, MaxQty: intp(23), Type: enums.DiscountTypePercentage, Value: 1000, Position: 2},
		{MinQty: 24, MaxQty: intp(47), Type: enums.DiscountTypePercentage, Value: 1500, Position: 3},
		{MinQty: 48, MaxQty: intp(71), Type: enums.DiscountTypePercentage, Value: 2000, Position: 4},
		{MinQty: 72, MaxQty: intp(143), Type: enums.DiscountTypePercentage, Value: 2500, Position: 5},
		{MinQty: 144, MaxQty: nil, Type: enums.DiscountTypePercentage, Value: 3000, Position: 6},
	}
}

func buildTiers(inputs []TierInput) ([]models.VolumeTier, error) {
	tiers := make([]models.VolumeTier, len(inputs))
	for i, input := range inputs {
		discountType, err := enums.ParseDiscountType(input.Type)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse discount type")
		}
		if input.MinQty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier min quantity must be at least 1")
		}
		if input.MaxQty != nil && *input.MaxQty < input.MinQty {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier max quantity must not be below min quantity")
		}
		if input.Value.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "tier discount value must not be negative")
		}

		var value int64
		switch discountType {
		case enums.DiscountTypePercentage:
			if input.Value.GreaterThan(hundred) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "percentage discount must not exceed 100")
			}
			value = input.Value.Mul(hundred).Round(0).IntPart()
		case enums.DiscountTypeFixed:
			value = input.Value.Mul(hundred).Round(0).IntPart()
		}

		tiers[i] = models.VolumeTier{
			MinQty:   input.MinQty,
			MaxQty:   input.MaxQty,
			Type:     discountType,
			Value:    value,
			Position: i,
		}
	}

	if err := validateTierCoverage(tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// validateTierCoverage rejects tier sets that are not ascending and
// non-overlapping. An unbounded tier is only allowed in last position.
func validateTierCoverage(tiers []models.VolumeTier) error {
	for i := 1; i < len(tiers); i++ {
		prev, cur := tiers[i-1], tiers[i]
		if cur.MinQty <= prev.MinQty {
			return pkgerrors.New(pkgerrors.CodeValidation, "tiers must be ascending by min quantity")
		}
		if prev.MaxQty == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "only the last tier may be unbounded")
		}
		if cur.MinQty <= *prev.MaxQty {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("tier starting at %d overlaps the previous tier", cur.MinQty))
		}
	}
	return nil
}

func buildPremiums(inputs []SizePremiumInput) []models.SizePremium {
	premiums := make([]models.SizePremium, len(inputs))
	for i, input := range inputs {
		premiums[i] = models.SizePremium{
			SizeLabel:   input.SizeLabel,
			AmountCents: input.Amount.Mul(hundred).Round(0).IntPart(),
		}
	}
	return premiums
}

func buildAssignments(inputs []RuleProductInput) []models.RuleProductAssigned {
	assignments := make([]models.RuleProductAssigned, len(inputs))
	for i, input := range inputs {
		assignment := models.RuleProductAssigned{ProductMapID: input.ProductMapID}
		if input.BasePrice != nil {
			cents := input.BasePrice.Mul(hundred).Round(0).IntPart()
			assignment.BasePriceCents = &cents
		}
		assignments[i] = assignment
	}
	return assignments
}

func (s *service) CreateRule(ctx context.Context, shop string, input CreateRuleInput) (*models.VolumePriceRule, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rule name required")
	}

	var tiers []models.VolumeTier
	if len(input.Tiers) == 0 {
		tiers = defaultTierSchedule()
	} else {
		built, err := buildTiers(input.Tiers)
		if err != nil {
			return nil, err
		}
		tiers = built
	}

	rule := &models.VolumePriceRule{
		Shop:         shop,
		Name:         input.Name,
		Active:       input.Active,
		Priority:     input.Priority,
		Tiers:        tiers,
		SizePremiums: buildPremiums(input.SizePremiums),
		Products:     buildAssignments(input.Products),
	}

	created, err := s.repo.CreateRule(ctx, rule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create price rule")
	}
	return created, nil
}

func (s *service) UpdateRule(ctx context.Context, shop string, id uuid.UUID, input UpdateRuleInput) (*models.VolumePriceRule, error) {
	existing, err := s.repo.FindRuleByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price rule")
	}

	tiers, err := buildTiers(input.Tiers)
	if err != nil {
		return nil, err
	}
	for i := range tiers {
		tiers[i].RuleID = existing.ID
	}
	premiums := buildPremiums(input.SizePremiums)
	for i := range premiums {
		premiums[i].RuleID = existing.ID
	}
	assignments := buildAssignments(input.Products)
	for i := range assignments {
		assignments[i].RuleID = existing.ID
	}

	existing.Name = input.Name
	existing.Active = input.Active
	existing.Priority = input.Priority
	existing.Tiers = tiers
	existing.SizePremiums = premiums
	existing.Products = assignments

	updated, err := s.repo.UpdateRule(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update price rule")
	}
	return updated, nil
}

func (s *service) DeleteRule(ctx context.Context, shop string, id uuid.UUID) error {
	if err := s.repo.DeleteRule(ctx, shop, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "price rule not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete price rule")
	}
	return nil
}

func (s *service) GetRule(ctx context.Context, shop string, id uuid.UUID) (*models.VolumePriceRule, error) {
	rule, err := s.repo.FindRuleByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load price rule")
	}
	return rule, nil
}

func (s *service) ListRules(ctx context.Context, shop string) ([]models.VolumePriceRule, error) {
	rules, err := s.repo.ListRules(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list price rules")
	}
	return rules, nil
}

// Quote resolves the discounted unit price for one mapped product. A tier
// gap falls back to the base price rather than failing the quote.
func (s *service) Quote(ctx context.Context, shop string, input QuoteInput) (*QuoteResult, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	products, err := s.products.ListMapped(ctx, shop, []uuid.UUID{input.ProductMapID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product map")
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not mapped")
	}
	product := products[0]

	rule, err := s.repo.FindActiveRuleForProduct(ctx, shop, product.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active rule")
	}

	baseCents, ruleID := resolveBasePrice(&product, rule)
	if baseCents == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product has no base price")
	}

	result := &QuoteResult{
		ProductMapID:   product.ID,
		Quantity:       input.Quantity,
		BasePrice:      decimal.NewFromInt(*baseCents).Div(hundred),
		RuleID:         ruleID,
		UnitPriceCents: *baseCents,
	}

	if rule != nil {
		premium := PremiumFor(rule.SizePremiums, input.SizeLabel)
		unit, err := ResolveUnitPrice(*baseCents, input.Quantity, rule.Tiers, premium)
		if err == nil {
			result.UnitPriceCents = unit
			result.TierMatched = true
		} else if !errors.Is(err, ErrNoMatchingTier) {
			return nil, err
		}
	}

	result.UnitPrice = decimal.NewFromInt(result.UnitPriceCents).Div(hundred)
	return result, nil
}

// resolveBasePrice prefers the rule assignment's override, then the product
// map's own base price.
func resolveBasePrice(product *models.ProductMap, rule *models.VolumePriceRule) (*int64, *uuid.UUID) {
	var ruleID *uuid.UUID
	base := product.BasePriceCents
	if rule != nil {
		id := rule.ID
		ruleID = &id
		for _, assignment := range rule.Products {
			if assignment.ProductMapID == product.ID && assignment.BasePriceCents != nil {
				base = assignment.BasePriceCents
				break
			}
		}
	}
	return base, ruleID
}
