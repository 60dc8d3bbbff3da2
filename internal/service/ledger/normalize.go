package ledger

import (
	"math"
	"strconv"
	"strings"

	"github.com/anarmmdv/bazar/internal/domain/models"
)

// ParseAmount converts free-text numeric input to a float64, accepting both
// "." and "," as the decimal separator. Empty or non-numeric input parses
// to 0, which downstream validation treats as not-filled-in.
func ParseAmount(value string) float64 {
	normalized := strings.ReplaceAll(strings.TrimSpace(value), ",", ".")
	parsed, err := strconv.ParseFloat(normalized, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return 0
	}
	return parsed
}

// NormalizeRows filters draft rows down to the persistable subset: product
// selected, quantity and price strictly positive after parsing.
func NormalizeRows(rows []models.DraftRow) []models.EntryRow {
	out := make([]models.EntryRow, 0, len(rows))
	for _, r := range rows {
		if r.ProductID == "" {
			continue
		}
		qty := ParseAmount(r.Qty)
		price := ParseAmount(r.Price)
		if qty <= 0 || price <= 0 {
			continue
		}
		out = append(out, models.EntryRow{ProductID: r.ProductID, Qty: qty, Price: price})
	}
	return out
}

// HasIncompleteSelected reports whether any row has a product chosen but an
// unfinished quantity or price. Such a row must block autosave instead of
// silently dropping out of the persisted set. Rows with no product selected
// never count.
func HasIncompleteSelected(rows []models.DraftRow) bool {
	for _, r := range rows {
		if r.ProductID == "" {
			continue
		}
		if !(ParseAmount(r.Qty) > 0 && ParseAmount(r.Price) > 0) {
			return true
		}
	}
	return false
}
