package intake

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/internal/orders"
	"github.com/stitchsync/stitchsync-backend/internal/settings"
	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	"github.com/stitchsync/stitchsync-backend/pkg/enums"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

type fakeJobsRepo struct {
	jobs map[int64]*models.OrderJob
}

func newFakeJobsRepo() *fakeJobsRepo {
	return &fakeJobsRepo{jobs: map[int64]*models.OrderJob{}}
}

func (f *fakeJobsRepo) WithTx(*gorm.DB) orders.Repository { return f }

func (f *fakeJobsRepo) Upsert(_ context.Context, job *models.OrderJob) (*models.OrderJob, bool, error) {
	if existing, ok := f.jobs[job.ExternalOrderID]; ok {
		return existing, false, nil
	}
	f.jobs[job.ExternalOrderID] = job
	return job, true, nil
}

func (f *fakeJobsRepo) FindByID(_ context.Context, _ string, id uuid.UUID) (*models.OrderJob, error) {
	for _, job := range f.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeJobsRepo) FindByExternalID(_ context.Context, _ string, externalOrderID int64) (*models.OrderJob, error) {
	if job, ok := f.jobs[externalOrderID]; ok {
		return job, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeJobsRepo) List(context.Context, string, *enums.OrderJobStatus) ([]models.OrderJob, error) {
	return nil, nil
}

func (f *fakeJobsRepo) ListByStatuses(context.Context, string, []enums.OrderJobStatus) ([]models.OrderJob, error) {
	return nil, nil
}

func (f *fakeJobsRepo) PurgeTerminalBefore(context.Context, string, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeJobsRepo) TransitionStatus(context.Context, uuid.UUID, []enums.OrderJobStatus, enums.OrderJobStatus, map[string]any) (bool, error) {
	return true, nil
}

type fakeLifecycle struct {
	approved []uuid.UUID
	err      error
}

func (f *fakeLifecycle) Get(context.Context, string, uuid.UUID) (*models.OrderJob, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLifecycle) List(context.Context, string, *enums.OrderJobStatus) ([]models.OrderJob, error) {
	return nil, nil
}

func (f *fakeLifecycle) Approve(_ context.Context, _ string, id uuid.UUID, _ string) (*models.OrderJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.approved = append(f.approved, id)
	return &models.OrderJob{ID: id, Status: enums.OrderJobStatusSubmitted}, nil
}

func (f *fakeLifecycle) Retry(context.Context, string, uuid.UUID) (*models.OrderJob, error) {
	return nil, nil
}

func (f *fakeLifecycle) MarkShipped(context.Context, string, uuid.UUID) error   { return nil }
func (f *fakeLifecycle) MarkDelivered(context.Context, string, uuid.UUID) error { return nil }
func (f *fakeLifecycle) MarkError(context.Context, string, uuid.UUID, string) error {
	return nil
}

type fakeSettings struct {
	settings models.AutoOrderSettings
}

func (f *fakeSettings) Get(context.Context, string) (*models.AutoOrderSettings, error) {
	copied := f.settings
	return &copied, nil
}

func (f *fakeSettings) Update(context.Context, string, settings.UpdateInput) (*models.AutoOrderSettings, error) {
	return nil, nil
}

type fakeOrderStats struct {
	records int
	items   int
	revenue int64
}

func (f *fakeOrderStats) RecordOrder(_ context.Context, _ string, items int, revenueCents int64) error {
	f.records++
	f.items += items
	f.revenue += revenueCents
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newIntakeService(t *testing.T, lookup *fakeLookup, repo *fakeJobsRepo, lifecycle *fakeLifecycle, cfg models.AutoOrderSettings, stats *fakeOrderStats) Service {
	t.Helper()
	svc, err := NewService(lookup, repo, lifecycle, &fakeSettings{settings: cfg}, stats, testLogger())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func mappedOrder() WebhookOrder {
	return WebhookOrder{
		ID:          5001,
		OrderNumber: 1001,
		TotalPrice:  "48.00",
		LineItems: []WebhookLineItem{
			{ProductID: 101, Quantity: 12},
			{ProductID: 999, Quantity: 2},
		},
	}
}

func TestHandleOrderCreatedIrrelevantOrder(t *testing.T) {
	svc := newIntakeService(t, &fakeLookup{}, newFakeJobsRepo(), &fakeLifecycle{}, models.AutoOrderSettings{}, &fakeOrderStats{})

	result, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", mappedOrder())
	if err != nil {
		t.Fatalf("HandleOrderCreated: %v", err)
	}
	if result.Relevant {
		t.Fatal("expected irrelevant order")
	}
}

func TestHandleOrderCreatedQueuesForApproval(t *testing.T) {
	repo := newFakeJobsRepo()
	stats := &fakeOrderStats{}
	lifecycle := &fakeLifecycle{}
	svc := newIntakeService(t, &fakeLookup{mapped: map[int64]bool{101: true}}, repo, lifecycle,
		models.AutoOrderSettings{Enabled: true, AutoSubmit: false}, stats)

	result, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", mappedOrder())
	if err != nil {
		t.Fatalf("HandleOrderCreated: %v", err)
	}
	if !result.Relevant || !result.Created || result.Routing != RoutingPendingApproval {
		t.Fatalf("unexpected result %+v", result)
	}

	job := repo.jobs[5001]
	if job == nil {
		t.Fatal("job not created")
	}
	if job.TotalCents != 4800 || job.ItemCount != 14 {
		t.Fatalf("unexpected job totals %+v", job)
	}
	if len(job.Lines) != 2 {
		t.Fatalf("expected retained lines, got %d", len(job.Lines))
	}
	if len(lifecycle.approved) != 0 {
		t.Fatal("manual mode must not auto-submit")
	}
	if stats.records != 1 || stats.items != 14 || stats.revenue != 4800 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestHandleOrderCreatedAutoSubmits(t *testing.T) {
	repo := newFakeJobsRepo()
	lifecycle := &fakeLifecycle{}
	svc := newIntakeService(t, &fakeLookup{mapped: map[int64]bool{101: true}}, repo, lifecycle,
		models.AutoOrderSettings{Enabled: true, AutoSubmit: true, DefaultShipping: "ground"}, &fakeOrderStats{})

	result, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", mappedOrder())
	if err != nil {
		t.Fatalf("HandleOrderCreated: %v", err)
	}
	if result.Routing != RoutingAutoSubmit || result.Status != enums.OrderJobStatusSubmitted {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(lifecycle.approved) != 1 {
		t.Fatalf("expected one auto submission, got %d", len(lifecycle.approved))
	}
}

func TestHandleOrderCreatedIdempotentAcrossRedelivery(t *testing.T) {
	repo := newFakeJobsRepo()
	stats := &fakeOrderStats{}
	lifecycle := &fakeLifecycle{}
	svc := newIntakeService(t, &fakeLookup{mapped: map[int64]bool{101: true}}, repo, lifecycle,
		models.AutoOrderSettings{Enabled: true, AutoSubmit: true}, stats)

	first, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", mappedOrder())
	if err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	second, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", mappedOrder())
	if err != nil {
		t.Fatalf("second delivery: %v", err)
	}

	if !first.Created || second.Created {
		t.Fatalf("expected create-then-noop, got %+v / %+v", first, second)
	}
	if *first.JobID != *second.JobID {
		t.Fatal("redelivery must resolve to the same job")
	}
	if len(repo.jobs) != 1 {
		t.Fatalf("expected one job, got %d", len(repo.jobs))
	}
	if stats.records != 1 {
		t.Fatalf("stats must be recorded once, got %d", stats.records)
	}
	if len(lifecycle.approved) != 1 {
		t.Fatalf("auto submission must run once, got %d", len(lifecycle.approved))
	}
}

func TestHandleOrderCreatedAutoSubmitFailureDoesNotFailWebhook(t *testing.T) {
	repo := newFakeJobsRepo()
	lifecycle := &fakeLifecycle{err: fmt.Errorf("supplier down")}
	svc := newIntakeService(t, &fakeLookup{mapped: map[int64]bool{101: true}}, repo, lifecycle,
		models.AutoOrderSettings{Enabled: true, AutoSubmit: true}, &fakeOrderStats{})

	result, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", mappedOrder())
	if err != nil {
		t.Fatalf("webhook must not fail on submission error, got %v", err)
	}
	if result.Status != enums.OrderJobStatusError {
		t.Fatalf("expected error status surfaced, got %s", result.Status)
	}
}

func TestHandleOrderCreatedGateBelowMinimum(t *testing.T) {
	repo := newFakeJobsRepo()
	lifecycle := &fakeLifecycle{}
	svc := newIntakeService(t, &fakeLookup{mapped: map[int64]bool{101: true}}, repo, lifecycle,
		models.AutoOrderSettings{Enabled: true, AutoSubmit: true, MinOrderValueCents: 5000}, &fakeOrderStats{})

	order := mappedOrder()
	order.TotalPrice = "40.00"
	result, err := svc.HandleOrderCreated(context.Background(), "demo.myshopify.com", order)
	if err != nil {
		t.Fatalf("HandleOrderCreated: %v", err)
	}
	if result.Routing != RoutingPendingApproval {
		t.Fatalf("expected manual routing below minimum, got %s", result.Routing)
	}
	if len(lifecycle.approved) != 0 {
		t.Fatal("below-minimum order must not auto-submit")
	}
}
