package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/anarmmdv/bazar/internal/domain/models"
)

// fakeStore is an in-memory Store for session tests. Entries are keyed by
// table and date so the date filters behave like the real backend.
type fakeStore struct {
	mu           sync.Mutex
	products     []models.Product
	entries      map[models.TableKind]map[string][]models.EntryRow
	replaceCalls map[models.TableKind]int
	failReplace  bool
}

func newFakeStore(products ...models.Product) *fakeStore {
	return &fakeStore{
		products: products,
		entries: map[models.TableKind]map[string][]models.EntryRow{
			models.TableBuys:  {},
			models.TableSells: {},
		},
		replaceCalls: map[models.TableKind]int{},
	}
}

func (f *fakeStore) seed(table models.TableKind, date string, rows ...models.EntryRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[table][date] = rows
}

func (f *fakeStore) persisted(table models.TableKind, date string) []models.EntryRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.EntryRow(nil), f.entries[table][date]...)
}

func (f *fakeStore) replaces(table models.TableKind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.replaceCalls[table]
}

func (f *fakeStore) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Product
	for _, p := range f.products {
		if p.Active {
			active = append(active, p)
		}
	}
	return active, nil
}

func (f *fakeStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeStore) InsertProduct(ctx context.Context, name string) error { return nil }

func (f *fakeStore) RenameProduct(ctx context.Context, id, name string) error { return nil }

func (f *fakeStore) SetProductActive(ctx context.Context, id string, active bool) error { return nil }

func (f *fakeStore) ReadEntriesOn(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error) {
	return f.persisted(table, date), nil
}

func (f *fakeStore) ReadEntriesBefore(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EntryRow
	for d, rows := range f.entries[table] {
		if d < date {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (f *fakeStore) ReadEntriesBetween(ctx context.Context, table models.TableKind, from, to string) ([]models.EntryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EntryRow
	for d, rows := range f.entries[table] {
		if d >= from && d <= to {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceEntries(ctx context.Context, table models.TableKind, date string, rows []models.EntryRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replaceCalls[table]++
	if f.failReplace {
		// Delete ran but insert did not: the day is left empty.
		delete(f.entries[table], date)
		return errors.New("backend write failed")
	}
	f.entries[table][date] = append([]models.EntryRow(nil), rows...)
	return nil
}
