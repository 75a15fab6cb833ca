package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/stitchsync/stitchsync-backend/pkg/db"
	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

// UpdateInput carries the settings form fields.
type UpdateInput struct {
	Enabled         bool             `json:"enabled"`
	AutoSubmit      bool             `json:"auto_submit"`
	DefaultShipping string           `json:"default_shipping"`
	NotifyEmail     string           `json:"notify_email" validate:"omitempty,email"`
	MinOrderValue   *decimal.Decimal `json:"min_order_value"`
	ExcludedTags    []string         `json:"excluded_tags"`
}

// Service exposes lazily-defaulted automation settings per shop.
type Service interface {
	Get(ctx context.Context, shop string) (*models.AutoOrderSettings, error)
	Update(ctx context.Context, shop string, input UpdateInput) (*models.AutoOrderSettings, error)
}

type service struct {
	repo Repository
}

// NewService builds a settings service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

const defaultShipping = "ground"

// Get returns the shop's settings, creating the default row on first access.
func (s *service) Get(ctx context.Context, shop string) (*models.AutoOrderSettings, error) {
	existing, err := s.repo.FindByShop(ctx, shop)
	if err == nil {
		return existing, nil
	}
	if !IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}

	created, err := s.repo.Create(ctx, &models.AutoOrderSettings{
		Shop:            shop,
		DefaultShipping: defaultShipping,
	})
	if err != nil {
		// A concurrent first access may have created the row already.
		if db.IsUniqueViolation(err, "") {
			return s.repo.FindByShop(ctx, shop)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create default settings")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, shop string, input UpdateInput) (*models.AutoOrderSettings, error) {
	if input.MinOrderValue != nil && input.MinOrderValue.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum order value must not be negative")
	}

	current, err := s.Get(ctx, shop)
	if err != nil {
		return nil, err
	}

	current.Enabled = input.Enabled
	current.AutoSubmit = input.AutoSubmit
	current.NotifyEmail = strings.TrimSpace(input.NotifyEmail)
	if input.DefaultShipping != "" {
		current.DefaultShipping = input.DefaultShipping
	}
	if input.MinOrderValue != nil {
		current.MinOrderValueCents = input.MinOrderValue.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	}
	current.ExcludedTags = normalizeTags(input.ExcludedTags)

	saved, err := s.repo.Save(ctx, current)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save settings")
	}
	return saved, nil
}

// normalizeTags lowercases and de-duplicates, since webhook tag matching is
// case-insensitive.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
