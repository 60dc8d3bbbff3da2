package supastore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/domain/models"
	"github.com/anarmmdv/bazar/pkg/clients/supabase"
)

const (
	productsTable = "products"
	buysTable     = "daily_buys"
	sellsTable    = "daily_sells"
)

// Store defines the persistence operations backed by the hosted table
// backend. All durable state of the application lives behind this interface.
type Store interface {
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	InsertProduct(ctx context.Context, name string) error
	RenameProduct(ctx context.Context, id, name string) error
	SetProductActive(ctx context.Context, id string, active bool) error

	ReadEntriesOn(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error)
	ReadEntriesBefore(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error)
	ReadEntriesBetween(ctx context.Context, table models.TableKind, from, to string) ([]models.EntryRow, error)
	ReplaceEntries(ctx context.Context, table models.TableKind, date string, rows []models.EntryRow) error
}

// SupabaseStore implements Store on top of the PostgREST client.
type SupabaseStore struct {
	client *supabase.Client
	logger *zap.Logger
}

// NewSupabaseStore builds the hosted-backend store adapter.
func NewSupabaseStore(client *supabase.Client, logger *zap.Logger) *SupabaseStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupabaseStore{client: client, logger: logger}
}

// ListActiveProducts returns visible products ordered by name.
func (s *SupabaseStore) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.client.Select(ctx, productsTable, "id,name,active",
		[]supabase.Filter{supabase.Eq("active", "true")}, "name.asc", &products)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	return products, nil
}

// ListProducts returns every product, hidden ones included, ordered by name.
func (s *SupabaseStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.client.Select(ctx, productsTable, "id,name,active", nil, "name.asc", &products); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// InsertProduct creates a new product. Name uniqueness is enforced by the
// backend constraint; a duplicate surfaces as a PostgREST error.
func (s *SupabaseStore) InsertProduct(ctx context.Context, name string) error {
	if err := s.client.Insert(ctx, productsTable, map[string]string{"name": name}); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// RenameProduct updates a product's name in place.
func (s *SupabaseStore) RenameProduct(ctx context.Context, id, name string) error {
	err := s.client.Update(ctx, productsTable, map[string]string{"name": name},
		[]supabase.Filter{supabase.Eq("id", id)})
	if err != nil {
		return fmt.Errorf("rename product %s: %w", id, err)
	}
	return nil
}

// SetProductActive hides or restores a product. Products are never deleted.
func (s *SupabaseStore) SetProductActive(ctx context.Context, id string, active bool) error {
	err := s.client.Update(ctx, productsTable, map[string]bool{"active": active},
		[]supabase.Filter{supabase.Eq("id", id)})
	if err != nil {
		return fmt.Errorf("set product %s active=%t: %w", id, active, err)
	}
	return nil
}

// ReadEntriesOn fetches the persisted rows for exactly one calendar day.
func (s *SupabaseStore) ReadEntriesOn(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error) {
	return s.readEntries(ctx, table, []supabase.Filter{supabase.Eq("entry_date", date)})
}

// ReadEntriesBefore fetches all rows strictly before the given day.
func (s *SupabaseStore) ReadEntriesBefore(ctx context.Context, table models.TableKind, date string) ([]models.EntryRow, error) {
	return s.readEntries(ctx, table, []supabase.Filter{supabase.Lt("entry_date", date)})
}

// ReadEntriesBetween fetches all rows within the inclusive [from, to] range.
func (s *SupabaseStore) ReadEntriesBetween(ctx context.Context, table models.TableKind, from, to string) ([]models.EntryRow, error) {
	return s.readEntries(ctx, table, []supabase.Filter{
		supabase.Gte("entry_date", from),
		supabase.Lte("entry_date", to),
	})
}

func (s *SupabaseStore) readEntries(ctx context.Context, table models.TableKind, filters []supabase.Filter) ([]models.EntryRow, error) {
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}

	var rows []models.EntryRow
	if err := s.client.Select(ctx, name, "product_id,qty,price", filters, "", &rows); err != nil {
		return nil, fmt.Errorf("read %s entries: %w", table, err)
	}
	return rows, nil
}

// insertRow is the wire shape of a persisted ledger row.
type insertRow struct {
	EntryDate string  `json:"entry_date"`
	ProductID string  `json:"product_id"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
}

// ReplaceEntries swaps the full persisted row set for one (day, table) pair:
// delete everything for the date, then bulk insert the new rows. The backend
// offers no cross-statement transaction here, so delete must complete before
// the insert is issued and a failure in between leaves the day empty until
// the next replace.
func (s *SupabaseStore) ReplaceEntries(ctx context.Context, table models.TableKind, date string, rows []models.EntryRow) error {
	name, err := tableName(table)
	if err != nil {
		return err
	}

	if err := s.client.Delete(ctx, name, []supabase.Filter{supabase.Eq("entry_date", date)}); err != nil {
		return fmt.Errorf("clear %s for %s: %w", table, date, err)
	}

	if len(rows) == 0 {
		return nil
	}

	payload := make([]insertRow, 0, len(rows))
	for _, r := range rows {
		payload = append(payload, insertRow{
			EntryDate: date,
			ProductID: r.ProductID,
			Qty:       r.Qty,
			Price:     r.Price,
		})
	}

	if err := s.client.Insert(ctx, name, payload); err != nil {
		return fmt.Errorf("insert %s for %s: %w", table, date, err)
	}

	s.logger.Debug("entries replaced",
		zap.String("table", string(table)),
		zap.String("date", date),
		zap.Int("rows", len(rows)))
	return nil
}

func tableName(table models.TableKind) (string, error) {
	switch table {
	case models.TableBuys:
		return buysTable, nil
	case models.TableSells:
		return sellsTable, nil
	default:
		return "", fmt.Errorf("unknown ledger table %q", table)
	}
}
