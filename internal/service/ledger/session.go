package ledger

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/internal/domain/models"
	"github.com/anarmmdv/bazar/internal/i18n"
	"github.com/anarmmdv/bazar/internal/repository/supastore"
)

const saveTimeout = 10 * time.Second

// Session owns the in-memory draft state of the Today screen: the editable
// buy and sell tables, the derived stock snapshot and the debounced
// autosave cycles that reconcile the draft with the backend.
//
// Lifecycle: Loading -> Ready, then every edit marks the draft dirty and
// restarts the quiet-period timer for its table. When the timer fires the
// session validates and, if valid, replaces the day's persisted rows with
// the current set. Validation failures surface a message and leave
// persisted state untouched.
type Session struct {
	store  supastore.Store
	logger *zap.Logger
	loc    *time.Location
	now    func() time.Time

	buySaver  *debouncer
	sellSaver *debouncer

	mu        sync.Mutex
	ready     bool
	date      string
	products  []models.Product
	names     map[string]string
	buys      []models.DraftRow
	sells     []models.DraftRow
	available map[string]float64
	buyMsg    string
	sellMsg   string
}

// View is a copy of the session state safe to hand to the HTTP layer.
type View struct {
	Date        string             `json:"date"`
	Products    []models.Product   `json:"products"`
	Buys        []models.DraftRow  `json:"buys"`
	Sells       []models.DraftRow  `json:"sells"`
	BuyMessage  string             `json:"buy_message"`
	SellMessage string             `json:"sell_message"`
	Available   map[string]float64 `json:"available"`
}

// NewSession wires a Today session against the given store.
func NewSession(store supastore.Store, loc *time.Location, debounce time.Duration, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		store:     store,
		logger:    logger,
		loc:       loc,
		now:       time.Now,
		buySaver:  newDebouncer(debounce),
		sellSaver: newDebouncer(debounce),
	}
}

// EnsureLoaded performs the initial load, or a reload once the Baku date
// has rolled over to a new day. Until it returns the session is not ready
// and autosave stays gated off.
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := DateIn(s.now(), s.loc)
	if s.ready && s.date == today {
		return nil
	}
	return s.loadLocked(ctx, today)
}

func (s *Session) loadLocked(ctx context.Context, date string) error {
	s.ready = false
	s.buyMsg = ""
	s.sellMsg = ""
	s.date = date

	products, err := s.store.ListActiveProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	buyRows, err := s.store.ReadEntriesOn(ctx, models.TableBuys, date)
	if err != nil {
		return fmt.Errorf("load today's buys: %w", err)
	}

	sellRows, err := s.store.ReadEntriesOn(ctx, models.TableSells, date)
	if err != nil {
		return fmt.Errorf("load today's sells: %w", err)
	}

	s.products = products
	s.names = make(map[string]string, len(products))
	for _, p := range products {
		s.names[p.ID] = p.Name
	}

	s.buys = entriesToDrafts(buyRows)
	s.sells = entriesToDrafts(sellRows)

	if err := s.refreshStockLocked(ctx); err != nil {
		return err
	}

	s.ready = true
	s.logger.Info("today session loaded",
		zap.String("date", date),
		zap.Int("buys", len(buyRows)),
		zap.Int("sells", len(sellRows)))
	return nil
}

// SetRows replaces the draft rows of one table and restarts that table's
// autosave timer. Buy edits also refresh the stock snapshot synchronously
// so subsequent sell validation sees fresh availability.
func (s *Session) SetRows(ctx context.Context, table models.TableKind, rows []models.DraftRow) error {
	if !table.Valid() {
		return fmt.Errorf("unknown ledger table %q", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(rows) == 0 {
		rows = []models.DraftRow{{}}
	}

	switch table {
	case models.TableBuys:
		s.buys = append([]models.DraftRow(nil), rows...)
		if err := s.refreshStockLocked(ctx); err != nil {
			s.logger.Warn("stock refresh failed after buy edit", zap.Error(err))
		}
		s.buySaver.Trigger(func() { s.flush(models.TableBuys) })
	case models.TableSells:
		s.sells = append([]models.DraftRow(nil), rows...)
		s.sellSaver.Trigger(func() { s.flush(models.TableSells) })
	}

	return nil
}

// AddRow appends an empty draft row to the given table.
func (s *Session) AddRow(table models.TableKind) error {
	if !table.Valid() {
		return fmt.Errorf("unknown ledger table %q", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch table {
	case models.TableBuys:
		s.buys = append(s.buys, models.DraftRow{})
	case models.TableSells:
		s.sells = append(s.sells, models.DraftRow{})
	}
	return nil
}

// RemoveRow deletes a draft row by index. Removing the last remaining row
// resets the table to a single empty row.
func (s *Session) RemoveRow(ctx context.Context, table models.TableKind, index int) error {
	if !table.Valid() {
		return fmt.Errorf("unknown ledger table %q", table)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.buys
	if table == models.TableSells {
		rows = s.sells
	}
	if index < 0 || index >= len(rows) {
		return fmt.Errorf("row index %d out of range", index)
	}

	if len(rows) == 1 {
		rows = []models.DraftRow{{}}
	} else {
		rows = append(append([]models.DraftRow(nil), rows[:index]...), rows[index+1:]...)
	}

	switch table {
	case models.TableBuys:
		s.buys = rows
		if err := s.refreshStockLocked(ctx); err != nil {
			s.logger.Warn("stock refresh failed after row removal", zap.Error(err))
		}
		s.buySaver.Trigger(func() { s.flush(models.TableBuys) })
	case models.TableSells:
		s.sells = rows
		s.sellSaver.Trigger(func() { s.flush(models.TableSells) })
	}
	return nil
}

// View returns a snapshot of the current session state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	available := make(map[string]float64, len(s.available))
	for k, v := range s.available {
		available[k] = v
	}

	return View{
		Date:        s.date,
		Products:    append([]models.Product(nil), s.products...),
		Buys:        append([]models.DraftRow(nil), s.buys...),
		Sells:       append([]models.DraftRow(nil), s.sells...),
		BuyMessage:  s.buyMsg,
		SellMessage: s.sellMsg,
		Available:   available,
	}
}

// Close cancels any pending autosave timers.
func (s *Session) Close() {
	s.buySaver.Stop()
	s.sellSaver.Stop()
}

// flush runs one autosave cycle for a table. It executes on the debounce
// timer goroutine; taking the session lock serializes it against edits and
// against the other table's cycle.
func (s *Session) flush(table models.TableKind) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return
	}

	switch table {
	case models.TableBuys:
		s.flushBuysLocked(ctx)
	case models.TableSells:
		s.flushSellsLocked(ctx)
	}
}

func (s *Session) flushBuysLocked(ctx context.Context) {
	if HasIncompleteSelected(s.buys) {
		s.buyMsg = i18n.MsgFillAllFields
		return
	}
	s.buyMsg = ""

	rows := NormalizeRows(s.buys)
	if err := s.store.ReplaceEntries(ctx, models.TableBuys, s.date, rows); err != nil {
		// No retry; the next edit's cycle re-runs the full replace.
		s.logger.Error("buy autosave failed", zap.String("date", s.date), zap.Error(err))
		return
	}

	if err := s.refreshStockLocked(ctx); err != nil {
		s.logger.Warn("stock refresh failed after buy autosave", zap.Error(err))
	}
}

func (s *Session) flushSellsLocked(ctx context.Context) {
	if HasIncompleteSelected(s.sells) {
		s.sellMsg = i18n.MsgFillAllFields
		return
	}

	rows := NormalizeRows(s.sells)
	for _, r := range rows {
		if r.Qty > s.available[r.ProductID] {
			s.sellMsg = fmt.Sprintf(i18n.MsgInsufficientStockFmt, s.productNameLocked(r.ProductID))
			return
		}
	}
	s.sellMsg = ""

	if err := s.store.ReplaceEntries(ctx, models.TableSells, s.date, rows); err != nil {
		s.logger.Error("sell autosave failed", zap.String("date", s.date), zap.Error(err))
	}
}

// refreshStockLocked recomputes the stock snapshot from history plus the
// current draft buys. On failure the previous snapshot is kept.
func (s *Session) refreshStockLocked(ctx context.Context) error {
	stock, err := AvailableStock(ctx, s.store, s.date, NormalizeRows(s.buys))
	if err != nil {
		return err
	}
	s.available = stock
	return nil
}

func (s *Session) productNameLocked(id string) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return i18n.UnknownProduct
}

func entriesToDrafts(rows []models.EntryRow) []models.DraftRow {
	if len(rows) == 0 {
		return []models.DraftRow{{}}
	}
	drafts := make([]models.DraftRow, 0, len(rows))
	for _, r := range rows {
		drafts = append(drafts, models.DraftRow{
			ProductID: r.ProductID,
			Qty:       formatAmount(r.Qty),
			Price:     formatAmount(r.Price),
		})
	}
	return drafts
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
