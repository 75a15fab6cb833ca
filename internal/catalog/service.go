package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/shopify"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

// Service manages product mappings and supplier imports.
type Service interface {
	List(ctx context.Context, shop string) ([]models.ProductMap, error)
	MapProduct(ctx context.Context, shop string, input MapProductInput) (*models.ProductMap, error)
	Unmap(ctx context.Context, shop string, id uuid.UUID) error
	ImportStyles(ctx context.Context, shop, accessToken string, input ImportInput) (*ImportResult, error)
}

type service struct {
	repo    Repository
	styles  StyleSource
	creator ProductCreator
	imports ImportRecorder
	logg    *logger.Logger
}

// NewService builds a catalog service.
func NewService(repo Repository, styles StyleSource, creator ProductCreator, imports ImportRecorder, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if styles == nil {
		return nil, fmt.Errorf("style source required")
	}
	if creator == nil {
		return nil, fmt.Errorf("product creator required")
	}
	if imports == nil {
		return nil, fmt.Errorf("import recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		styles:  styles,
		creator: creator,
		imports: imports,
		logg:    logg,
	}, nil
}

func (s *service) List(ctx context.Context, shop string) ([]models.ProductMap, error) {
	maps, err := s.repo.List(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product maps")
	}
	return maps, nil
}

func (s *service) MapProduct(ctx context.Context, shop string, input MapProductInput) (*models.ProductMap, error) {
	if input.ExternalProductID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external product id required")
	}
	if input.SupplierStyleID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier style id required")
	}

	m := &models.ProductMap{
		ID:                uuid.New(),
		Shop:              shop,
		ExternalProductID: input.ExternalProductID,
		SupplierStyleID:   input.SupplierStyleID,
		Title:             input.Title,
	}
	if input.BasePrice != nil {
		cents := input.BasePrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
		m.BasePriceCents = &cents
	}

	saved, err := s.repo.Upsert(ctx, m)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save product map")
	}
	return saved, nil
}

func (s *service) Unmap(ctx context.Context, shop string, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, shop, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product map not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product map")
	}
	return nil
}

// ImportStyles imports supplier styles: each style becomes a storefront
// product plus a mapping row. One style's failure never aborts the run.
func (s *service) ImportStyles(ctx context.Context, shop, accessToken string, input ImportInput) (*ImportResult, error) {
	if len(input.StyleIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one style id required")
	}

	result := &ImportResult{}
	for _, styleID := range input.StyleIDs {
		if _, err := s.repo.FindByStyleID(ctx, shop, styleID); err == nil {
			result.Skipped++
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing mapping")
		}

		if err := s.importStyle(ctx, shop, accessToken, styleID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", styleID, err))
			s.logg.Error(s.logg.WithField(ctx, "style_id", styleID), "style import failed", err)
			continue
		}
		result.Imported++
	}

	if result.Imported > 0 {
		if err := s.imports.AddImported(ctx, shop, result.Imported); err != nil {
			s.logg.Error(ctx, "record imported count", err)
		}
	}
	return result, nil
}

func (s *service) importStyle(ctx context.Context, shop, accessToken, styleID string) error {
	style, err := s.styles.GetStyle(ctx, styleID)
	if err != nil {
		return fmt.Errorf("fetch style: %w", err)
	}

	products, err := s.styles.ListProducts(ctx, styleID)
	if err != nil {
		return fmt.Errorf("fetch style products: %w", err)
	}

	title := style.Title
	if title == "" {
		title = fmt.Sprintf("%s %s", style.BrandName, style.StyleName)
	}

	externalID, err := s.creator.CreateProduct(ctx, shop, accessToken, shopify.ProductInput{
		Title:  title,
		Vendor: style.BrandName,
		Tags:   []string{"stitchsync", style.BaseCategory},
	})
	if err != nil {
		return fmt.Errorf("create storefront product: %w", err)
	}

	m := &models.ProductMap{
		ID:                uuid.New(),
		Shop:              shop,
		ExternalProductID: externalID,
		SupplierStyleID:   styleID,
		Title:             title,
	}
	if cents := lowestPieceCents(products); cents > 0 {
		m.BasePriceCents = &cents
	}
	if _, err := s.repo.Upsert(ctx, m); err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	return nil
}

// lowestPieceCents picks the cheapest sku price as the mapping's base price.
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
