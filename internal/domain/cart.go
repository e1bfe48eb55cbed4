package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEntry pairs a product id with a quantity. ProductID is a foreign key
// into the catalog that need not currently resolve; Quantity is always >= 1
// for an entry held by the ledger.
type CartEntry struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// CartItem is an entry joined against the current catalog for display.
type CartItem struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Order summarises a checked-out cart. Shipping is always free; tax is a
// flat 10% of the subtotal.
type Order struct {
	Reference string          `json:"reference"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}
