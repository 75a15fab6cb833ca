package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// Service drives the order job lifecycle: approval, submission, shipping
// and delivery transitions, error handling and retry.
type Service interface {
	Get(ctx context.Context, shop string, id uuid.UUID) (*models.OrderJob, error)
	List(ctx context.Context, shop string, status *enums.OrderJobStatus) ([]models.OrderJob, error)
	Approve(ctx context.Context, shop string, id uuid.UUID, shippingMethod string) (*models.OrderJob, error)
	Retry(ctx context.Context, shop string, id uuid.UUID) (*models.OrderJob, error)
	MarkShipped(ctx context.Context, shop string, id uuid.UUID) error
	MarkDelivered(ctx context.Context, shop string, id uuid.UUID) error
	MarkError(ctx context.Context, shop string, id uuid.UUID, message string) error
}

type service struct {
	repo    Repository
	gateway SupplierGateway
	logg    *logger.Logger
	now     func() time.Time
}

// NewService builds an orders service.
func NewService(repo Repository, gateway SupplierGateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("supplier gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, gateway: gateway, logg: logg, now: time.Now}, nil
}

func (s *service) Get(ctx context.Context, shop string, id uuid.UUID) (*models.OrderJob, error) {
	job, err := s.repo.FindByID(ctx, shop, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order job")
	}
	return job, nil
}

func (s *service) List(ctx context.Context, shop string, status *enums.OrderJobStatus) ([]models.OrderJob, error) {
	jobs, err := s.repo.List(ctx, shop, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order jobs")
	}
	return jobs, nil
}

// Approve submits a pending job to the supplier. On submission failure the
// job lands in error with the failure text preserved.
func (s *service) Approve(ctx context.Context, shop string, id uuid.UUID, shippingMethod string) (*models.OrderJob, error) {
	job, err := s.Get(ctx, shop, id)
	if err != nil {
		return nil, err
	}
	if job.Status != enums.OrderJobStatusPendingApproval {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order job is %s, not awaiting approval", job.Status))
	}

	supplierOrderNumber, err := s.gateway.SubmitOrder(ctx, job, shippingMethod)
	if err != nil {
		s.logg.Error(s.logg.WithField(ctx, "order_job_id", id.String()), "supplier submission failed", err)
		if markErr := s.MarkError(ctx, shop, id, err.Error()); markErr != nil {
			return nil, markErr
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order to supplier")
	}

	now := s.now()
	won, err := s.repo.TransitionStatus(ctx, id,
		[]enums.OrderJobStatus{enums.OrderJobStatusPendingApproval},
		enums.OrderJobStatusSubmitted,
		map[string]any{
			"supplier_order_number": supplierOrderNumber,
			"submitted_at":          now,
			"last_error":            nil,
		})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record submission")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order job changed state during approval")
	}
	return s.Get(ctx, shop, id)
}

// Retry moves a failed job back to the approval queue.
func (s *service) Retry(ctx context.Context, shop string, id uuid.UUID) (*models.OrderJob, error) {
	job, err := s.Get(ctx, shop, id)
	if err != nil {
		return nil, err
	}
	if job.Status != enums.OrderJobStatusError {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only failed order jobs can be retried")
	}

	won, err := s.repo.TransitionStatus(ctx, id,
		[]enums.OrderJobStatus{enums.OrderJobStatusError},
		enums.OrderJobStatusPendingApproval,
		map[string]any{"last_error": nil})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retry order job")
	}
	if !won {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order job changed state during retry")
	}
	return s.Get(ctx, shop, id)
}

// MarkShipped is driven by tracking creation on a submitted job.
func (s *service) MarkShipped(ctx context.Context, shop string, id uuid.UUID) error {
	return s.transition(ctx, shop, id,
		[]enums.OrderJobStatus{enums.OrderJobStatusSubmitted},
		enums.OrderJobStatusShipped, nil)
}

// MarkDelivered is driven by the tracking status reaching delivered.
func (s *service) MarkDelivered(ctx context.Context, shop string, id uuid.UUID) error {
	return s.transition(ctx, shop, id,
		[]enums.OrderJobStatus{enums.OrderJobStatusShipped},
		enums.OrderJobStatusDelivered, nil)
}

// MarkError moves any non-terminal job to error, preserving the message for
// the admin surface.
func (s *service) MarkError(ctx context.Context, shop string, id uuid.UUID, message string) error {
	return s.transition(ctx, shop, id,
		[]enums.OrderJobStatus{
			enums.OrderJobStatusPendingApproval,
			enums.OrderJobStatusSubmitted,
			enums.OrderJobStatusShipped,
		},
		enums.OrderJobStatusError,
		map[string]any{"last_error": message})
}

func (s *service) transition(ctx context.Context, shop string, id uuid.UUID, from []enums.OrderJobStatus, to enums.OrderJobStatus, updates map[string]any) error {
	if _, err := s.Get(ctx, shop, id); err != nil {
		return err
	}
	won, err := s.repo.TransitionStatus(ctx, id, from, to, updates)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition order job")
	}
	if !won {
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order job cannot move to %s from its current state", to))
	}
	return nil
}
