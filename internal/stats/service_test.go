package stats

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

type fakeStatsRepo struct {
	deltas []Delta
	rows   []models.DailyStats
}

func (f *fakeStatsRepo) WithTx(*gorm.DB) Repository { return f }

func (f *fakeStatsRepo) Increment(_ context.Context, _ string, _ time.Time, delta Delta) error {
	f.deltas = append(f.deltas, delta)
	return nil
}

func (f *fakeStatsRepo) ListRange(context.Context, string, time.Time, time.Time) ([]models.DailyStats, error) {
	return f.rows, nil
}

func TestRecordOrderIncrementsOnce(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.RecordOrder(context.Background(), "demo.myshopify.com", 12, 4800); err != nil {
		t.Fatalf("RecordOrder: %v", err)
	}
	if len(repo.deltas) != 1 {
		t.Fatalf("expected one increment, got %d", len(repo.deltas))
	}
	delta := repo.deltas[0]
	if delta.Orders != 1 || delta.ItemsSold != 12 || delta.Revenue != 4800 {
		t.Fatalf("unexpected delta %+v", delta)
	}
}

func TestAddImportedIgnoresNonPositive(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.AddImported(context.Background(), "demo.myshopify.com", 0); err != nil {
		t.Fatalf("AddImported: %v", err)
	}
	if len(repo.deltas) != 0 {
		t.Fatal("expected no increment for zero count")
	}
}

func TestSummarizeTotals(t *testing.T) {
	repo := &fakeStatsRepo{rows: []models.DailyStats{
		{Date: "2026-03-15", OrdersCount: 2, ItemsSold: 15, RevenueCents: 6300, ImportedCount: 5},
		{Date: "2026-03-16", OrdersCount: 1, ItemsSold: 4, RevenueCents: 1200},
	}}
	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	from := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	summary, err := svc.Summarize(context.Background(), "demo.myshopify.com", from, to)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if summary.TotalOrders != 3 || summary.TotalItems != 19 || summary.TotalImported != 5 {
		t.Fatalf("unexpected totals %+v", summary)
	}
	if summary.TotalRevenue.String() != "75" {
		t.Fatalf("expected total revenue 75, got %s", summary.TotalRevenue)
	}
	if len(summary.Days) != 2 || summary.Days[0].Revenue.String() != "63" {
		t.Fatalf("unexpected day rows %+v", summary.Days)
	}
}

func TestSummarizeRejectsInvertedRange(t *testing.T) {
	svc, err := NewService(&fakeStatsRepo{}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	from := time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)
	_, err = svc.Summarize(context.Background(), "demo.myshopify.com", from, from.AddDate(0, 0, -1))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
