package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
	"github.com/stitchsync/stitchsync-backend/pkg/supplier"
)

// carrierSource is the abstracted carrier signal.
type carrierSource interface {
	GetTrackingStatus(ctx context.Context, carrier, trackingNumber string) (*supplier.TrackingInfo, error)
}

// jobMarker moves the owning order job along when the shipment does.
type jobMarker interface {
	MarkShipped(ctx context.Context, shop string, id uuid.UUID) error
	MarkDelivered(ctx context.Context, shop string, id uuid.UUID) error
}

// CreateInput records a new shipment for a submitted order job.
type CreateInput struct {
	OrderJobID     uuid.UUID `json:"order_job_id" validate:"required"`
	Carrier        string    `json:"carrier" validate:"required"`
	TrackingNumber string    `json:"tracking_number" validate:"required"`
}

// Service maintains shipment tracking records alongside their order jobs.
type Service interface {
	Create(ctx context.Context, shop string, input CreateInput) (*models.ShipmentTracking, error)
	Refresh(ctx context.Context, shop string, id uuid.UUID) (*models.ShipmentTracking, error)
	RefreshAll(ctx context.Context, shop string) (*RefreshSummary, error)
}

// RefreshSummary counts a batch refresh. Failed shipments keep their prior
// state.
type RefreshSummary struct {
	Refreshed int `json:"refreshed"`
	Failed    int `json:"failed"`
}

type service struct {
	repo    Repository
	carrier carrierSource
	jobs    jobMarker
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds a tracking service.
func NewService(repo Repository, carrier carrierSource, jobs jobMarker, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository required")
	}
	if carrier == nil {
		return nil, fmt.Errorf("carrier source required")
	}
	if jobs == nil {
		return nil, fmt.Errorf("job marker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, carrier: carrier, jobs: jobs, logg: logg, now: time.Now}, nil
}

// Create records the shipment and moves the owning job to shipped.
func (s *service) Create(ctx context.Context, shop string, input CreateInput) (*models.ShipmentTracking, error) {
	if input.Carrier == "" || input.TrackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "carrier and tracking number required")
	}
	if _, err := s.repo.FindByOrderJobID(ctx, shop, input.OrderJobID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "order job already has a shipment")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing shipment")
	}

	created, err := s.repo.Create(ctx, &models.ShipmentTracking{
		Shop:           shop,
		OrderJobID:     input.OrderJobID,
		Carrier:        input.Carrier,
		TrackingNumber: input.TrackingNumber,
		Status:         enums.TrackingStatusPending,
		LastUpdateAt:   s.now(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create shipment tracking")
	}

	if err := s.jobs.MarkShipped(ctx, shop, input.OrderJobID); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "order_job_id", input.OrderJobID.String()), "mark job shipped", err)
	}
	return created, nil
}

// Refresh re-derives the shipment state from the carrier signal. It is safe
// to call repeatedly: last write wins, a delivered shipment never regresses,
// and a failed carrier call leaves the prior state untouched.
func (s *service) Refresh(ctx context.Context, shop string, id uuid.UUID) (*models.ShipmentTracking, error) {
	current, err := s.repo.FindByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shipment tracking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shipment tracking")
	}
	if current.Status == enums.TrackingStatusDelivered {
		return current, nil
	}

	signal, err := s.carrier.GetTrackingStatus(ctx, current.Carrier, current.TrackingNumber)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "tracking_id", id.String()), "carrier refresh failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch carrier status")
	}

	status, err := enums.ParseTrackingStatus(signal.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "carrier returned unknown status")
	}

	var location *string
	if signal.LastLocation != "" {
		location = &signal.LastLocation
	}
	if err := s.repo.ApplySignal(ctx, id, status, location, signal.EstimatedDelivery, s.now()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply carrier signal")
	}

	if status == enums.TrackingStatusDelivered {
		if err := s.jobs.MarkDelivered(ctx, shop, current.OrderJobID); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "order_job_id", current.OrderJobID.String()), "mark job delivered", err)
		}
	}
	return s.repo.FindByID(ctx, shop, id)
}

// RefreshAll refreshes every in-flight shipment for the shop. Per-shipment
// failures are aggregated, never fatal to the batch.
func (s *service) RefreshAll(ctx context.Context, shop string) (*RefreshSummary, error) {
	inFlight, err := s.repo.ListInFlight(ctx, shop)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list in-flight shipments")
	}

	summary := &RefreshSummary{}
	var errs error
	for _, shipment := range inFlight {
		if _, err := s.Refresh(ctx, shop, shipment.ID); err != nil {
			summary.Failed++
			errs = multierr.Append(errs, fmt.Errorf("shipment %s: %w", shipment.ID, err))
			continue
		}
		summary.Refreshed++
	}
	if errs != nil {
		s.logg.Error(s.logg.WithShop(ctx, shop), "tracking batch refresh finished with failures", errs)
	}
	return summary, nil
}
