package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// inventorySyncJob records the supplier's available stock per mapped style.
type inventorySyncJob struct {
	mappings mappingSource
	styles   styleSource
	logg     *logger.Logger
}

// NewInventorySyncJob builds the inventory sync job body.
func NewInventorySyncJob(mappings mappingSource, styles styleSource, logg *logger.Logger) (Job, error) {
	if mappings == nil {
		return nil, fmt.Errorf("mapping source required")
	}
	if styles == nil {
		return nil, fmt.Errorf("style source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &inventorySyncJob{mappings: mappings, styles: styles, logg: logg}, nil
}

func (j *inventorySyncJob) Type() enums.JobType {
	return enums.JobTypeInventorySync
}

func (j *inventorySyncJob) Run(ctx context.Context, shop string) error {
	mappings, err := j.mappings.List(ctx, shop)
	if err != nil {
		return fmt.Errorf("list mappings: %w", err)
	}

	var errs error
	for _, mapping := range mappings {
		products, err := j.styles.ListProducts(ctx, mapping.SupplierStyleID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
			continue
		}
		total := 0
		for _, product := range products {
			total += product.Qty
		}
		if total == mapping.StockQty {
			continue
		}
		if err := j.mappings.UpdateStock(ctx, shop, mapping.ID, total); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("style %s: %w", mapping.SupplierStyleID, err))
		}
	}
	return errs
}
