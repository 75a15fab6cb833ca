package intake

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stitchsync/stitchsync-backend/internal/orders"
	"github.com/stitchsync/stitchsync-backend/internal/settings"
	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

// orderStats records one relayed order in the daily aggregates.
type orderStats interface {
	RecordOrder(ctx context.Context, shop string, items int, revenueCents int64) error
}

// Service handles verified order-created deliveries.
type Service interface {
	HandleOrderCreated(ctx context.Context, shop string, order WebhookOrder) (*Result, error)
}

type service struct {
	catalog   productLookup
	jobs      orders.Repository
	lifecycle orders.Service
	settings  settings.Service
	stats     orderStats
	logg      *logger.Logger
}

// NewService builds the intake service.
func NewService(catalog productLookup, jobs orders.Repository, lifecycle orders.Service, settingsSvc settings.Service, stats orderStats, logg *logger.Logger) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("product lookup required")
	}
	if jobs == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if lifecycle == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if settingsSvc == nil {
		return nil, fmt.Errorf("settings service required")
	}
	if stats == nil {
		return nil, fmt.Errorf("stats recorder required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:   catalog,
		jobs:      jobs,
		lifecycle: lifecycle,
		settings:  settingsSvc,
		stats:     stats,
		logg:      logg,
	}, nil
}

// HandleOrderCreated classifies the order, upserts the job idempotently by
// shop + external order id, records stats once per order, and routes per the
// shop's automation settings. A failed auto-submission leaves the job in
// error; the webhook itself still succeeds.
func (s *service) HandleOrderCreated(ctx context.Context, shop string, order WebhookOrder) (*Result, error) {
	if order.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	relevant, err := Classify(ctx, s.catalog, shop, order.LineItems)
	if err != nil {
		return nil, err
	}
	if !relevant {
		return &Result{Relevant: false}, nil
	}

	shopSettings, err := s.settings.Get(ctx, shop)
	if err != nil {
		return nil, err
	}

	totalCents, err := parseTotalCents(order.TotalPrice)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse order total")
	}

	itemCount := 0
	lines := make([]models.OrderJobLine, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		itemCount += line.Quantity
		lines = append(lines, models.OrderJobLine{
			ExternalProductID: line.ProductID,
			Quantity:          line.Quantity,
		})
	}

	job, created, err := s.jobs.Upsert(ctx, &models.OrderJob{
		ID:              uuid.New(),
		Shop:            shop,
		ExternalOrderID: order.ID,
		OrderNumber:     order.OrderNumber,
		Status:          enums.OrderJobStatusPendingApproval,
		TotalCents:      totalCents,
		ItemCount:       itemCount,
		Tags:            order.TagList(),
		Lines:           lines,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert order job")
	}

	result := &Result{
		Relevant: true,
		Created:  created,
		JobID:    &job.ID,
		Routing:  RoutingPendingApproval,
		Status:   job.Status,
	}
	if !created {
		// Repeated delivery of the same order: nothing further to do.
		return result, nil
	}

	if err := s.stats.RecordOrder(ctx, shop, itemCount, totalCents); err != nil {
		s.logg.Error(s.logg.WithShop(ctx, shop), "record order stats", err)
	}

	routing := DecideRouting(order, totalCents, shopSettings)
	result.Routing = routing
	if routing == RoutingAutoSubmit {
		submitted, err := s.lifecycle.Approve(ctx, shop, job.ID, shopSettings.DefaultShipping)
		if err != nil {
			s.logg.Error(s.logg.WithField(ctx, "order_job_id", job.ID.String()), "auto submission failed", err)
			result.Status = enums.OrderJobStatusError
			return result, nil
		}
		result.Status = submitted.Status
	}
	return result, nil
}

func parseTotalCents(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	return total.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
