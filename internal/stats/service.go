package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stitchsync/stitchsync-backend/pkg/db/models"
	pkgerrors "github.com/stitchsync/stitchsync-backend/pkg/errors"
)

// DayRow is one day of aggregates with money rendered for the admin surface.
type DayRow struct {
	Date     string          `json:"date"`
	Orders   int             `json:"orders"`
	Items    int             `json:"items"`
	Revenue  decimal.Decimal `json:"revenue"`
	Imported int             `json:"imported"`
}

// Summary is a range of daily rows plus totals.
type Summary struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Days          []DayRow        `json:"days"`
	TotalOrders   int             `json:"total_orders"`
	TotalItems    int             `json:"total_items"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalImported int             `json:"total_imported"`
}

// Service exposes aggregate writes and the reporting read.
type Service interface {
	RecordOrder(ctx context.Context, shop string, items int, revenueCents int64) error
	AddImported(ctx context.Context, shop string, count int) error
	Summarize(ctx context.Context, shop string, from, to time.Time) (*Summary, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a stats service. The clock is injectable for tests.
func NewService(repo Repository, now func() time.Time) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("stats repository required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}, nil
}

func (s *service) RecordOrder(ctx context.Context, shop string, items int, revenueCents int64) error {
	err := s.repo.Increment(ctx, shop, s.now(), Delta{
		Orders:    1,
		ItemsSold: items,
		Revenue:   revenueCents,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record order stats")
	}
	return nil
}

func (s *service) AddImported(ctx context.Context, shop string, count int) error {
	if count <= 0 {
		return nil
	}
	if err := s.repo.Increment(ctx, shop, s.now(), Delta{Imported: count}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record imported stats")
	}
	return nil
}

func (s *service) Summarize(ctx context.Context, shop string, from, to time.Time) (*Summary, error) {
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "range end precedes start")
	}

	rows, err := s.repo.ListRange(ctx, shop, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load daily stats")
	}

	summary := &Summary{
		From:         from.UTC().Format(dayFormat),
		To:           to.UTC().Format(dayFormat),
		Days:         make([]DayRow, len(rows)),
		TotalRevenue: decimal.Zero,
	}
	var totalRevenueCents int64
	for i, row := range rows {
		summary.Days[i] = dayRow(row)
		summary.TotalOrders += row.OrdersCount
		summary.TotalItems += row.ItemsSold
		summary.TotalImported += row.ImportedCount
		totalRevenueCents += row.RevenueCents
	}
	summary.TotalRevenue = centsToDecimal(totalRevenueCents)
	return summary, nil
}

func dayRow(row models.DailyStats) DayRow {
	return DayRow{
		Date:     row.Date,
		Orders:   row.OrdersCount,
		Items:    row.ItemsSold,
		Revenue:  centsToDecimal(row.RevenueCents),
		Imported: row.ImportedCount,
	}
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}
