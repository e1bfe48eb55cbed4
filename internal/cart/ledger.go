package cart

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/kv"
)

// ErrEmptyCart is returned when checkout is attempted on an empty ledger.
var ErrEmptyCart = errors.New("cart is empty")

// Checkout applies a flat 10% tax on the subtotal; shipping is free.
var taxRate = decimal.New(1, -1)

// Ledger holds the cart's entry sequence in insertion order plus a derived
// total. The total is a cache, not a source of truth: it goes stale until
// RecomputeTotal is invoked after any entry or catalog change. Entries whose
// product id no longer resolves in the catalog are kept; they contribute
// zero to the total and are filtered out of VisibleItems only.
//
// Every mutation persists the entry sequence to the kv store under
// kv.KeyCart. Persistence is fire and forget: a failed write is logged and
// the in-memory mutation stands.
type Ledger struct {
	mu      sync.Mutex
	store   kv.Store
	logger  *log.Logger
	entries []domain.CartEntry
	total   decimal.Decimal
}

// Open builds a Ledger, restoring the persisted entry sequence if one
// exists.
func Open(ctx context.Context, store kv.Store, logger *log.Logger) *Ledger {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	l := &Ledger{store: store, logger: logger, total: decimal.Zero}

	raw, err := store.Get(ctx, kv.KeyCart)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Printf("cart ledger: restore error=%v", err)
		}
		return l
	}
	if err := json.Unmarshal([]byte(raw), &l.entries); err != nil {
		logger.Printf("cart ledger: restore unmarshal error=%v", err)
		l.entries = nil
	}
	return l
}

// Add merges quantity into an existing entry for the product, or appends a
// new entry at the end. Non-positive quantities are ignored so the ledger
// never holds an entry below quantity 1.
func (l *Ledger) Add(ctx context.Context, productID int64, quantity int) {
	if quantity < 1 {
		l.logger.Printf("cart ledger: ignoring add product_id=%d quantity=%d", productID, quantity)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ProductID == productID {
			l.entries[i].Quantity += quantity
			l.persist(ctx)
			return
		}
	}
	l.entries = append(l.entries, domain.CartEntry{ProductID: productID, Quantity: quantity})
	l.persist(ctx)
}

// Remove deletes the entry for the product if present. Removing an absent
// product is a no-op.
func (l *Ledger) Remove(ctx context.Context, productID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.ProductID != productID {
			kept = append(kept, e)
		}
	}
	l.entries = kept
	l.persist(ctx)
}

// SetQuantity overwrites an existing entry's quantity. It is silently
// ignored when the entry is absent or the quantity is not positive; input
// validation is the presentation layer's job.
func (l *Ledger) SetQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity < 1 {
		l.logger.Printf("cart ledger: ignoring set quantity product_id=%d quantity=%d", productID, quantity)
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		if l.entries[i].ProductID == productID {
			l.entries[i].Quantity = quantity
			l.persist(ctx)
			return
		}
	}
}

// Clear empties the entry sequence, zeroes the total, and erases the
// persisted record.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clearLocked(ctx)
}

func (l *Ledger) clearLocked(ctx context.Context) {
	l.entries = nil
	l.total = decimal.Zero
	if err := l.store.Remove(ctx, kv.KeyCart); err != nil {
		l.logger.Printf("cart ledger: clear persisted record error=%v", err)
	}
}

// RecomputeTotal refreshes the derived total from the given catalog
// snapshot. Entries that do not resolve contribute zero. Callers must invoke
// it after any entry or catalog change; it is never triggered implicitly.
func (l *Ledger) RecomputeTotal(products []domain.Product) {
	prices := priceIndex(products)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.total = totalOf(l.entries, prices)
}

// Total returns the last recomputed total.
func (l *Ledger) Total() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Entries returns a copy of the entry sequence in insertion order.
func (l *Ledger) Entries() []domain.CartEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.CartEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Units returns the summed quantity across all entries.
func (l *Ledger) Units() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		n += e.Quantity
	}
	return n
}

// VisibleItems joins entries against the catalog snapshot, preserving entry
// order. Entries that fail to resolve are dropped from the view but remain
// in the ledger.
func (l *Ledger) VisibleItems(products []domain.Product) []domain.CartItem {
	index := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	items := make([]domain.CartItem, 0, len(l.entries))
	for _, e := range l.entries {
		p, ok := index[e.ProductID]
		if !ok {
			continue
		}
		qty := decimal.NewFromInt(int64(e.Quantity))
		items = append(items, domain.CartItem{
			Product:  p,
			Quantity: e.Quantity,
			Subtotal: p.Price.Mul(qty),
		})
	}
	return items
}

// Checkout produces an order summary from the current entries and catalog
// snapshot, then clears the ledger. Session gating happens at the caller.
func (l *Ledger) Checkout(ctx context.Context, products []domain.Product) (domain.Order, error) {
	items := l.VisibleItems(products)
	prices := priceIndex(products)

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	subtotal := totalOf(l.entries, prices)
	tax := subtotal.Mul(taxRate).Round(2)
	order := domain.Order{
		Reference: uuid.NewString(),
		Items:     items,
		Subtotal:  subtotal,
		Shipping:  decimal.Zero,
		Tax:       tax,
		Total:     subtotal.Add(tax),
		CreatedAt: time.Now().UTC(),
	}

	l.clearLocked(ctx)
	l.logger.Printf("cart ledger: checkout reference=%s total=%s", order.Reference, order.Total)
	return order, nil
}

// persist writes the entry sequence to the kv store. Caller holds the lock.
func (l *Ledger) persist(ctx context.Context) {
	raw, err := json.Marshal(l.entries)
	if err != nil {
		l.logger.Printf("cart ledger: marshal error=%v", err)
		return
	}
	if err := l.store.Set(ctx, kv.KeyCart, string(raw)); err != nil {
		l.logger.Printf("cart ledger: persist error=%v", err)
	}
}

func priceIndex(products []domain.Product) map[int64]decimal.Decimal {
	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices
}

func totalOf(entries []domain.CartEntry, prices map[int64]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		price, ok := prices[e.ProductID]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(e.Quantity))))
	}
	return total
}
