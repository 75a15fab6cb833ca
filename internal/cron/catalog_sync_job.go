package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

// mappingSource is the product map surface the sync jobs consume.
type mappingSource interface {
	List(ctx context.Context, shop string) ([]models.ProductMap, error)
	Upsert(ctx context.Context, m *models.ProductMap) (*models.ProductMap, error)
	UpdateStock(ctx context.Context, shop string, id uuid.UUID, qty int) error
	UpdateBasePrice(ctx context.Context, shop string, id uuid.UUID, cents int64) error
}

type styleSource interface {
	GetStyle(ctx context.Context, styleID string) (*supplier.Style, error)
	ListProducts(ctx context.Context, styleID string) ([]supplier.Product, error)
}

// catalogSyncJob refreshes mapped products against the supplier catalog.
type catalogSyncJob struct {
	mappings mappingSource
	styles   styleSource
	logg     *logger.Logger
}

// NewCatalogSyncJob builds the catalog sync job body.
func NewCatalogSyncJob(mappings mappingSource, styles styleSource, logg *logger.Logger) (Job, error) {
	if mappings == nil {
		return nil, fmt.Errorf("mapping source required")
	}
	if styles == nil {
		return nil, fmt.Errorf("style source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &catalogSyncJob{mappings: mappings, styles: styles, logg: logg}, nil
}

func (j *catalogSyncJob) Type() enums.JobType {
	return enums.JobTypeCatalogSync
}

// Run re-reads each mapped style from the supplier and refreshes the stored
// metadata. One broken style does not stop the rest.
func (j *catalogSyncJob) Run(ctx context.Context, shop string) error {
	mappings, err := j.mappings.List(ctx, shop)
	if err != nil {
		return fmt.Errorf("list mappings: %w", err)
	}

	var errs error
	for i := range mappings {
		mapping := mappings[i]
		style, err := j.styles.GetStyle(ctx, mapping.SupplierStyleID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
			continue
		}
		if style.Title == mapping.Title {
			continue
		}
		mapping.Title = style.Title
		if _, err := j.mappings.Upsert(ctx, &mapping); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
		}
	}
	return errs
}
