package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/stitchsync/stitchsync-backend/internal/tracking"
	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

type submittedJobSource interface {
	ListByStatuses(ctx context.Context, shop string, statuses []enums.OrderJobStatus) ([]models.OrderJob, error)
}

type supplierStatusSource interface {
	GetOrderStatus(ctx context.Context, orderNumber string) (*supplier.OrderStatus, error)
}

// shipmentService is the tracking surface this job drives.
type shipmentService interface {
	Create(ctx context.Context, shop string, input tracking.CreateInput) (*models.ShipmentTracking, error)
	RefreshAll(ctx context.Context, shop string) (*tracking.RefreshSummary, error)
}

// orderStatusJob polls the supplier for submitted orders, records shipments
// as tracking numbers appear, and refreshes every in-flight shipment.
type orderStatusJob struct {
	jobs      submittedJobSource
	statuses  supplierStatusSource
	shipments shipmentService
	logg      *logger.Logger
}

// NewOrderStatusJob builds the order status job body.
func NewOrderStatusJob(jobs submittedJobSource, statuses supplierStatusSource, shipments shipmentService, logg *logger.Logger) (Job, error) {
	if jobs == nil {
		return nil, fmt.Errorf("job source required")
	}
	if statuses == nil {
		return nil, fmt.Errorf("status source required")
	}
	if shipments == nil {
		return nil, fmt.Errorf("shipment service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &orderStatusJob{
		jobs:      jobs,
		statuses:  statuses,
		shipments: shipments,
		logg:      logg,
	}, nil
}

func (j *orderStatusJob) Type() enums.JobType {
	return enums.JobTypeOrderStatus
}

func (j *orderStatusJob) Run(ctx context.Context, shop string) error {
	submitted, err := j.jobs.ListByStatuses(ctx, shop, []enums.OrderJobStatus{enums.OrderJobStatusSubmitted})
	if err != nil {
		return fmt.Errorf("list submitted jobs: %w", err)
	}

	var errs error
	for _, job := range submitted {
		if job.SupplierOrderNumber == nil {
			continue
		}
		status, err := j.statuses.GetOrderStatus(ctx, *job.SupplierOrderNumber)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", *job.SupplierOrderNumber, err))
			continue
		}
		if status.TrackingNumber == "" {
			continue
		}
		_, err = j.shipments.Create(ctx, shop, tracking.CreateInput{
			OrderJobID:     job.ID,
			Carrier:        status.Carrier,
			TrackingNumber: status.TrackingNumber,
		})
		if err != nil {
			// The shipment may already be on record from an earlier poll.
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeConflict {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", *job.SupplierOrderNumber, err))
		}
	}

	if _, err := j.shipments.RefreshAll(ctx, shop); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("refresh shipments: %w", err))
	}
	return errs
}
