package models

// TableKind selects one of the two daily ledger tables.
type TableKind string

const (
	TableBuys  TableKind = "buys"
	TableSells TableKind = "sells"
)

// Valid reports whether the kind names a known ledger table.
func (k TableKind) Valid() bool {
	return k == TableBuys || k == TableSells
}

// DraftRow is an in-progress entry row exactly as typed by the user.
// Quantity and price stay raw text until normalization; ProductID may be
// empty while the row is still unselected.
type DraftRow struct {
	ProductID string `json:"product_id"`
	Qty       string `json:"qty"`
	Price     string `json:"price"`
}

// EntryRow is a validated ledger row ready for persistence: product chosen,
// quantity and unit price strictly positive.
type EntryRow struct {
	ProductID string  `json:"product_id"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
}

// ProductSummary aggregates one product's activity over a period.
type ProductSummary struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	BoughtKg     float64 `json:"bought_kg"`
	BoughtAmount float64 `json:"bought_amount"`
	SoldKg       float64 `json:"sold_kg"`
	SoldAmount   float64 `json:"sold_amount"`
	Profit       float64 `json:"profit"`
}

// Totals are the page-level sums over a set of product summaries.
type Totals struct {
	BoughtAmount float64 `json:"bought_amount"`
	SoldAmount   float64 `json:"sold_amount"`
	Profit       float64 `json:"profit"`
}
