package models

import "time"

// DailyReport is the archived day-close aggregate stored in MongoDB. It is
// derived data and can always be rebuilt from the ledger tables.
type DailyReport struct {
	Date         string           `bson:"date" json:"date"`
	BoughtAmount float64          `bson:"bought_amount" json:"bought_amount"`
	SoldAmount   float64          `bson:"sold_amount" json:"sold_amount"`
	Profit       float64          `bson:"profit" json:"profit"`
	Products     []ProductSummary `bson:"products" json:"products"`
	CreatedAt    time.Time        `bson:"created_at" json:"created_at"`
}
