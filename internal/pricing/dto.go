package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TierInput describes one quantity tier as submitted by the admin surface.
// Value is a percent for percentage tiers and a dollar amount for fixed tiers.
type TierInput struct {
	MinQty int             `json:"min_qty" validate:"required,min=1"`
	MaxQty *int            `json:"max_qty"`
	Type   string          `json:"discount_type" validate:"required"`
	Value  decimal.Decimal `json:"discount_value"`
}

// SizePremiumInput is a flat per-unit surcharge for one size label.
type SizePremiumInput struct {
	SizeLabel string          `json:"size_label" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// RuleProductInput assigns a mapped product to a rule, optionally overriding
// its base price.
type RuleProductInput struct {
	ProductMapID uuid.UUID        `json:"product_map_id" validate:"required"`
	BasePrice    *decimal.Decimal `json:"base_price"`
}

// CreateRuleInput carries a new rule. When Tiers is empty the rule is seeded
// with the default tier schedule.
type CreateRuleInput struct {
	Name         string             `json:"name" validate:"required,max=120"`
	Active       bool               `json:"active"`
	Priority     int                `json:"priority"`
	Tiers        []TierInput        `json:"tiers" validate:"dive"`
	SizePremiums []SizePremiumInput `json:"size_premiums" validate:"dive"`
	Products     []RuleProductInput `json:"products" validate:"dive"`
}

// UpdateRuleInput replaces an existing rule's definition wholesale.
type UpdateRuleInput struct {
	Name         string             `json:"name" validate:"required,max=120"`
	Active       bool               `json:"active"`
	Priority     int                `json:"priority"`
	Tiers        []TierInput        `json:"tiers" validate:"required,min=1,dive"`
	SizePremiums []SizePremiumInput `json:"size_premiums" validate:"dive"`
	Products     []RuleProductInput `json:"products" validate:"dive"`
}

// QuoteInput asks for the discounted unit price of one mapped product at a
// given quantity.
type QuoteInput struct {
	ProductMapID uuid.UUID `json:"product_map_id" validate:"required"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
	SizeLabel    string    `json:"size_label"`
}

// QuoteResult reports the resolved unit price alongside the inputs that
// produced it.
type QuoteResult struct {
	ProductMapID   uuid.UUID       `json:"product_map_id"`
	Quantity       int             `json:"quantity"`
	BasePrice      decimal.Decimal `json:"base_price"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	RuleID         *uuid.UUID      `json:"rule_id"`
	TierMatched    bool            `json:"tier_matched"`
	UnitPriceCents int64           `json:"-"`
}

// AdjustInput describes a bulk price adjustment. Empty ProductMapIDs targets
// every mapped product in the shop.
type AdjustInput struct {
	ProductMapIDs []uuid.UUID     `json:"product_map_ids"`
	AdjustType    string          `json:"adjust_type" validate:"required"`
	Value         decimal.Decimal `json:"value"`
	Rounding      string          `json:"rounding"`
}

// AdjustLine is one product's projected price change.
type AdjustLine struct {
	ProductMapID  uuid.UUID       `json:"product_map_id"`
	ExternalID    int64           `json:"external_product_id"`
	Title         string          `json:"title"`
	OldPrice      decimal.Decimal `json:"old_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	PercentChange decimal.Decimal `json:"percent_change"`

	oldCents int64
	newCents int64
}

// AdjustPreview is the full projected change set, computed without side
// effects.
type AdjustPreview struct {
	Lines   []AdjustLine `json:"lines"`
	Skipped int          `json:"skipped"`
}

// AdjustResult summarizes a committed bulk adjustment.
type AdjustResult struct {
	Updated int64 `json:"updated"`
	Failed  int64 `json:"failed"`
	Skipped int   `json:"skipped"`
}
