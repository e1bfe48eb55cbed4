package domain

import "github.com/shopspring/decimal"

// Product is a single catalog item as last fetched from the catalog source.
// Products are immutable once fetched; a new fetch replaces the whole set.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}
