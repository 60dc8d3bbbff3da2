package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anarmmdv/bazar/internal/domain/models"
	"github.com/anarmmdv/bazar/internal/i18n"
)

type fakeStore struct {
	products []models.Product
	buys     map[string][]models.EntryRow
	sells    map[string][]models.EntryRow
}

func (f *fakeStore) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeStore) InsertProduct(ctx context.Context, name string) error          { return nil }
func (f *fakeStore) RenameProduct(ctx context.Context, id, name string) error      { return nil }
func (f *fakeStore) SetProductActive(ctx context.Context, id string, b bool) error { return nil }

func (f *fakeStore) byTable(table models.TableKind) map[string][]models.EntryRow {
	if table == models.TableBuys {
		return f.buys
	}
	return f.sells
}

func (f *fakeStore) ReadEntriesOn(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error) {
	return f.byTable(table)[date], nil
}

func (f *fakeStore) ReadEntriesBefore(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error) {
	var out []models.EntryRow
	for d, rows := range f.byTable(table) {
		if d < date {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (f *fakeStore) ReadEntriesBetween(ctx context.Context, table models.TableKind, from, to string) ([]models.EntryRow, error) {
	var out []models.EntryRow
	for d, rows := range f.byTable(table) {
		if d >= from && d <= to {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceEntries(ctx context.Context, table models.TableKind, date string, rows []models.EntryRow) error {
	return nil
}

func TestSummarize(t *testing.T) {
	names := map[string]string{"A": "Alma"}

	rows := Summarize(
		[]models.EntryRow{{ProductID: "A", Qty: 2, Price: 3}},
		[]models.EntryRow{{ProductID: "A", Qty: 1, Price: 5}},
		names,
	)

	require.Len(t, rows, 1)
	assert.Equal(t, models.ProductSummary{
		ProductID:    "A",
		Name:         "Alma",
		BoughtKg:     2,
		BoughtAmount: 6,
		SoldKg:       1,
		SoldAmount:   5,
		Profit:       -1,
	}, rows[0])
}

func TestSummarizeSortsByProfitDescending(t *testing.T) {
	names := map[string]string{"A": "Alma", "B": "Armud", "C": "Nar"}

	rows := Summarize(
		[]models.EntryRow{
			{ProductID: "A", Qty: 1, Price: 10},
			{ProductID: "B", Qty: 1, Price: 1},
		},
		[]models.EntryRow{
			{ProductID: "B", Qty: 1, Price: 8},
			{ProductID: "C", Qty: 1, Price: 2},
		},
		names,
	)

	require.Len(t, rows, 3)
	assert.Equal(t, "B", rows[0].ProductID) // profit 7
	assert.Equal(t, "C", rows[1].ProductID) // profit 2
	assert.Equal(t, "A", rows[2].ProductID) // profit -10
}

func TestSummarizeUnknownProductPlaceholder(t *testing.T) {
	rows := Summarize(
		[]models.EntryRow{{ProductID: "ghost", Qty: 1, Price: 1}},
		nil,
		map[string]string{},
	)

	require.Len(t, rows, 1)
	assert.Equal(t, i18n.UnknownProduct, rows[0].Name)
}

func TestSummarizeIsPure(t *testing.T) {
	buys := []models.EntryRow{{ProductID: "A", Qty: 2, Price: 3}}
	sells := []models.EntryRow{{ProductID: "A", Qty: 1, Price: 5}}
	names := map[string]string{"A": "Alma"}

	first := Summarize(buys, sells, names)
	second := Summarize(buys, sells, names)

	assert.Equal(t, first, second)
}

func TestTotalsOf(t *testing.T) {
	totals := TotalsOf([]models.ProductSummary{
		{BoughtAmount: 6, SoldAmount: 5},
		{BoughtAmount: 1, SoldAmount: 8},
	})

	assert.Equal(t, models.Totals{BoughtAmount: 7, SoldAmount: 13, Profit: 6}, totals)
}

func TestRangeRejectsInvertedDates(t *testing.T) {
	svc := NewService(&fakeStore{}, nil)

	_, err := svc.Range(context.Background(), "2025-08-10", "2025-08-01")
	assert.ErrorIs(t, err, ErrBadDateRange)
}

func TestRangeAggregatesWindow(t *testing.T) {
	store := &fakeStore{
		products: []models.Product{{ID: "A", Name: "Alma", Active: true}},
		buys: map[string][]models.EntryRow{
			"2025-08-01": {{ProductID: "A", Qty: 2, Price: 3}},
			"2025-07-01": {{ProductID: "A", Qty: 50, Price: 1}}, // outside range
		},
		sells: map[string][]models.EntryRow{
			"2025-08-02": {{ProductID: "A", Qty: 1, Price: 5}},
		},
	}
	svc := NewService(store, nil)

	view, err := svc.Range(context.Background(), "2025-08-01", "2025-08-31")
	require.NoError(t, err)

	require.Len(t, view.Rows, 1)
	assert.Equal(t, 2.0, view.Rows[0].BoughtKg)
	assert.Equal(t, models.Totals{BoughtAmount: 6, SoldAmount: 5, Profit: -1}, view.Totals)
}

func TestDayClose(t *testing.T) {
	store := &fakeStore{
		products: []models.Product{{ID: "A", Name: "Alma", Active: true}},
		buys: map[string][]models.EntryRow{
			"2025-08-10": {{ProductID: "A", Qty: 2, Price: 3}},
		},
		sells: map[string][]models.EntryRow{
			"2025-08-10": {{ProductID: "A", Qty: 2, Price: 4}},
		},
	}
	svc := NewService(store, nil)
	svc.now = func() time.Time { return time.Date(2025, 8, 10, 20, 0, 0, 0, time.UTC) }

	dayReport, err := svc.DayClose(context.Background(), "2025-08-10")
	require.NoError(t, err)

	assert.Equal(t, "2025-08-10", dayReport.Date)
	assert.Equal(t, 6.0, dayReport.BoughtAmount)
	assert.Equal(t, 8.0, dayReport.SoldAmount)
	assert.Equal(t, 2.0, dayReport.Profit)
	require.Len(t, dayReport.Products, 1)
	assert.Equal(t, svc.now().UTC(), dayReport.CreatedAt)
}
