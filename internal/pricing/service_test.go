package pricing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

type fakeRuleRepo struct {
	rules      map[uuid.UUID]*models.VolumePriceRule
	activeRule *models.VolumePriceRule
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: map[uuid.UUID]*models.VolumePriceRule{}}
}

func (f *fakeRuleRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeRuleRepo) CreateRule(_ context.Context, rule *models.VolumePriceRule) (*models.VolumePriceRule, error) {
	rule.ID = uuid.New()
	f.rules[rule.ID] = rule
	return rule, nil
}

func (f *fakeRuleRepo) UpdateRule(_ context.Context, rule *models.VolumePriceRule) (*models.VolumePriceRule, error) {
	f.rules[rule.ID] = rule
	return rule, nil
}

func (f *fakeRuleRepo) DeleteRule(_ context.Context, _ string, id uuid.UUID) error {
	if _, ok := f.rules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.rules, id)
	return nil
}

func (f *fakeRuleRepo) FindRuleByID(_ context.Context, _ string, id uuid.UUID) (*models.VolumePriceRule, error) {
	rule, ok := f.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return rule, nil
}

func (f *fakeRuleRepo) ListRules(_ context.Context, _ string) ([]models.VolumePriceRule, error) {
	var out []models.VolumePriceRule
	for _, rule := range f.rules {
		out = append(out, *rule)
	}
	return out, nil
}

func (f *fakeRuleRepo) FindActiveRuleForProduct(_ context.Context, _ string, _ uuid.UUID) (*models.VolumePriceRule, error) {
	if f.activeRule == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.activeRule, nil
}

func TestCreateRuleSeedsDefaultTiers(t *testing.T) {
	repo := newFakeRuleRepo()
	svc, err := NewService(repo, &fakeProductSource{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	rule, err := svc.CreateRule(context.Background(), "demo.myshopify.com", CreateRuleInput{Name: "Wholesale", Active: true})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if len(rule.Tiers) != 7 {
		t.Fatalf("expected 7 seeded tiers, got %d", len(rule.Tiers))
	}
	last := rule.Tiers[len(rule.Tiers)-1]
	if last.MaxQty != nil {
		t.Fatal("expected last seeded tier to be unbounded")
	}
	for i := 1; i < len(rule.Tiers); i++ {
		if rule.Tiers[i].MinQty <= rule.Tiers[i-1].MinQty {
			t.Fatal("seeded tiers not ascending")
		}
	}
}

func TestCreateRuleRejectsOverlappingTiers(t *testing.T) {
	svc, err := NewService(newFakeRuleRepo(), &fakeProductSource{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.CreateRule(context.Background(), "demo.myshopify.com", CreateRuleInput{
		Name: "Bad",
		Tiers: []TierInput{
			{MinQty: 1, MaxQty: intp(20), Type: "percentage", Value: decimal.Zero},
			{MinQty: 10, MaxQty: nil, Type: "percentage", Value: decimal.NewFromInt(10)},
		},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRuleRejectsUnboundedMiddleTier(t *testing.T) {
	svc, err := NewService(newFakeRuleRepo(), &fakeProductSource{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.CreateRule(context.Background(), "demo.myshopify.com", CreateRuleInput{
		Name: "Bad",
		Tiers: []TierInput{
			{MinQty: 1, MaxQty: nil, Type: "percentage", Value: decimal.Zero},
			{MinQty: 10, MaxQty: nil, Type: "percentage", Value: decimal.NewFromInt(10)},
		},
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRuleConvertsPercentToBasisPoints(t *testing.T) {
	svc, err := NewService(newFakeRuleRepo(), &fakeProductSource{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	rule, err := svc.CreateRule(context.Background(), "demo.myshopify.com", CreateRuleInput{
		Name: "Converted",
		Tiers: []TierInput{
			{MinQty: 1, MaxQty: nil, Type: "percentage", Value: decimal.RequireFromString("12.5")},
		},
	})
	if err != nil {
		t.Fatalf("CreateRule: %v", err)
	}
	if rule.Tiers[0].Value != 1250 {
		t.Fatalf("expected 1250 basis points, got %d", rule.Tiers[0].Value)
	}
}

func TestQuoteUsesActiveRule(t *testing.T) {
	productID := uuid.New()
	ruleID := uuid.New()
	repo := newFakeRuleRepo()
	repo.activeRule = &models.VolumePriceRule{
		ID:     ruleID,
		Active: true,
		Tiers:  threeTierSet(),
		SizePremiums: []models.SizePremium{
			{SizeLabel: "2XL", AmountCents: 200},
		},
	}
	products := &fakeProductSource{products: []models.ProductMap{
		{ID: productID, BasePriceCents: centsp(2000)},
	}}

	svc, err := NewService(repo, products)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	quote, err := svc.Quote(context.Background(), "demo.myshopify.com", QuoteInput{
		ProductMapID: productID,
		Quantity:     30,
		SizeLabel:    "2XL",
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.UnitPriceCents != 1800 {
		t.Fatalf("expected 1800 cents, got %d", quote.UnitPriceCents)
	}
	if !quote.TierMatched || quote.RuleID == nil || *quote.RuleID != ruleID {
		t.Fatalf("unexpected quote metadata: %+v", quote)
	}
}

func TestQuoteFallsBackToBasePriceWithoutRule(t *testing.T) {
	productID := uuid.New()
	products := &fakeProductSource{products: []models.ProductMap{
		{ID: productID, BasePriceCents: centsp(2000)},
	}}
	svc, err := NewService(newFakeRuleRepo(), products)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	quote, err := svc.Quote(context.Background(), "demo.myshopify.com", QuoteInput{ProductMapID: productID, Quantity: 3})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.UnitPriceCents != 2000 || quote.TierMatched {
		t.Fatalf("expected base-price fallback, got %+v", quote)
	}
}

func TestQuoteHonorsAssignmentOverride(t *testing.T) {
	productID := uuid.New()
	repo := newFakeRuleRepo()
	repo.activeRule = &models.VolumePriceRule{
		ID:    uuid.New(),
		Tiers: threeTierSet(),
		Products: []models.RuleProductAssigned{
			{ProductMapID: productID, BasePriceCents: centsp(3000)},
		},
	}
	products := &fakeProductSource{products: []models.ProductMap{
		{ID: productID, BasePriceCents: centsp(2000)},
	}}
	svc, err := NewService(repo, products)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	quote, err := svc.Quote(context.Background(), "demo.myshopify.com", QuoteInput{ProductMapID: productID, Quantity: 30})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.UnitPriceCents != 2400 {
		t.Fatalf("expected override base 3000 discounted to 2400, got %d", quote.UnitPriceCents)
	}
}

func TestQuoteUnmappedProduct(t *testing.T) {
	svc, err := NewService(newFakeRuleRepo(), &fakeProductSource{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	_, err = svc.Quote(context.Background(), "demo.myshopify.com", QuoteInput{ProductMapID: uuid.New(), Quantity: 1})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDiscountTypeEnumRoundTrip(t *testing.T) {
	parsed, err := enums.ParseDiscountType("percentage")
	if err != nil || parsed != enums.DiscountTypePercentage {
		t.Fatalf("unexpected parse result %v %v", parsed, err)
	}
	if _, err := enums.ParseDiscountType("bogus"); err == nil {
		t.Fatal("expected parse error")
	}
}
