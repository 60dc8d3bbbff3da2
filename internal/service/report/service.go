// Package report derives per-product summaries from sets of ledger rows:
// the Today screen's running totals, the range-based analysis view and the
// nightly day-close archive document.
package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/domain/models"
	"github.com/anarmmdv/bazar/internal/i18n"
	"github.com/anarmmdv/bazar/internal/repository/supastore"
)

// ErrBadDateRange indicates the analysis range starts after it ends.
var ErrBadDateRange = errors.New(i18n.MsgBadDateRange)

// Service exposes read-only analytics over the ledger tables.
type Service struct {
	store  supastore.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new report service instance.
func NewService(store supastore.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// RangeReport is the analysis view for one inclusive date range.
type RangeReport struct {
	From   string                  `json:"from"`
	To     string                  `json:"to"`
	Rows   []models.ProductSummary `json:"rows"`
	Totals models.Totals           `json:"totals"`
}

// Summarize folds buy and sell rows into one summary per product that
// appears in either set. Names resolve through the lookup, falling back to
// an explicit placeholder for unknown ids. The result is sorted by profit
// descending. Pure: the same input always yields the same output.
func Summarize(buys, sells []models.EntryRow, names map[string]string) []models.ProductSummary {
	byProduct := make(map[string]*models.ProductSummary)

	ensure := func(id string) *models.ProductSummary {
		if cur, ok := byProduct[id]; ok {
			return cur
		}
		name, ok := names[id]
		if !ok {
			name = i18n.UnknownProduct
		}
		cur := &models.ProductSummary{ProductID: id, Name: name}
		byProduct[id] = cur
		return cur
	}

	for _, r := range buys {
		cur := ensure(r.ProductID)
		cur.BoughtKg += r.Qty
		cur.BoughtAmount += r.Qty * r.Price
	}
	for _, r := range sells {
		cur := ensure(r.ProductID)
		cur.SoldKg += r.Qty
		cur.SoldAmount += r.Qty * r.Price
	}

	rows := make([]models.ProductSummary, 0, len(byProduct))
	for _, cur := range byProduct {
		cur.Profit = cur.SoldAmount - cur.BoughtAmount
		rows = append(rows, *cur)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Profit > rows[j].Profit })
	return rows
}

// TotalsOf derives the page-level grand totals from summary rows.
func TotalsOf(rows []models.ProductSummary) models.Totals {
	var t models.Totals
	for _, r := range rows {
		t.BoughtAmount += r.BoughtAmount
		t.SoldAmount += r.SoldAmount
	}
	t.Profit = t.SoldAmount - t.BoughtAmount
	return t
}

// Range builds the analysis report for an inclusive [from, to] date range.
func (s *Service) Range(ctx context.Context, from, to string) (*RangeReport, error) {
	if from > to {
		return nil, ErrBadDateRange
	}

	products, err := s.store.ListActiveProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	buys, err := s.store.ReadEntriesBetween(ctx, models.TableBuys, from, to)
	if err != nil {
		return nil, fmt.Errorf("load buys: %w", err)
	}

	sells, err := s.store.ReadEntriesBetween(ctx, models.TableSells, from, to)
	if err != nil {
		return nil, fmt.Errorf("load sells: %w", err)
	}

	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}

	rows := Summarize(buys, sells, names)
	return &RangeReport{
		From:   from,
		To:     to,
		Rows:   rows,
		Totals: TotalsOf(rows),
	}, nil
}

// DayClose aggregates the persisted rows of one day into the archive
// document written by the nightly job.
func (s *Service) DayClose(ctx context.Context, date string) (*models.DailyReport, error) {
	view, err := s.Range(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("aggregate day %s: %w", date, err)
	}

	return &models.DailyReport{
		Date:         date,
		BoughtAmount: view.Totals.BoughtAmount,
		SoldAmount:   view.Totals.SoldAmount,
		Profit:       view.Totals.Profit,
		Products:     view.Rows,
		CreatedAt:    s.now().UTC(),
	}, nil
}
