package ledger

import (
	"context"
	"fmt"

	"github.com/anarmmdv/bazar/internal/domain/models"
	"github.com/anarmmdv/bazar/internal/repository/supastore"
)

// AvailableStock computes, per product, the quantity available for sale as
// of the given day: all buys strictly before the day, minus all sells
// strictly before it, plus the day's draft buy rows (saved or not).
func AvailableStock(ctx context.Context, store supastore.Store, date string, draftBuys []models.EntryRow) (map[string]float64, error) {
	priorBuys, err := store.ReadEntriesBefore(ctx, models.TableBuys, date)
	if err != nil {
		return nil, fmt.Errorf("load prior buys: %w", err)
	}

	priorSells, err := store.ReadEntriesBefore(ctx, models.TableSells, date)
	if err != nil {
		return nil, fmt.Errorf("load prior sells: %w", err)
	}

	stock := make(map[string]float64)
	for _, r := range priorBuys {
		stock[r.ProductID] += r.Qty
	}
	for _, r := range priorSells {
		stock[r.ProductID] -= r.Qty
	}
	for _, r := range draftBuys {
		stock[r.ProductID] += r.Qty
	}

	return stock, nil
}
