package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/kv"
)

func product(id int64, price string) domain.Product {
	return domain.Product{ID: id, Title: "Product", Price: decimal.RequireFromString(price)}
}

func openLedger(t *testing.T) (*Ledger, *kv.Memory) {
	t.Helper()
	store := kv.NewMemory()
	return Open(context.Background(), store, nil), store
}

func TestLedgerStartsEmpty(t *testing.T) {
	l, _ := openLedger(t)
	if len(l.Entries()) != 0 {
		t.Fatalf("expected no entries, got %+v", l.Entries())
	}
	if !l.Total().IsZero() {
		t.Fatalf("expected zero total, got %s", l.Total())
	}
}

func TestAddThenRecompute(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 5, 2)
	entries := l.Entries()
	if len(entries) != 1 || entries[0].ProductID != 5 || entries[0].Quantity != 2 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	l.RecomputeTotal([]domain.Product{product(5, "10.00")})
	if want := decimal.RequireFromString("20.00"); !l.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, l.Total())
	}
}

func TestAddMergesDuplicateProduct(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 5, 2)
	l.Add(ctx, 5, 3)

	entries := l.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %+v", entries)
	}
	if entries[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", entries[0].Quantity)
	}
}

func TestAddIgnoresNonPositiveQuantity(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 5, 0)
	l.Add(ctx, 5, -2)
	if len(l.Entries()) != 0 {
		t.Fatalf("expected no entries, got %+v", l.Entries())
	}
}

func TestEntriesStayUniqueWithPositiveQuantities(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	ops := []func(){
		func() { l.Add(ctx, 1, 2) },
		func() { l.Add(ctx, 2, 1) },
		func() { l.Add(ctx, 1, 3) },
		func() { l.SetQuantity(ctx, 2, 7) },
		func() { l.SetQuantity(ctx, 3, 4) }, // absent, ignored
		func() { l.SetQuantity(ctx, 1, 0) }, // non-positive, ignored
		func() { l.Remove(ctx, 9) },         // absent, no-op
		func() { l.Add(ctx, 3, 1) },
		func() { l.Remove(ctx, 2) },
	}
	for _, op := range ops {
		op()
		seen := map[int64]bool{}
		for _, e := range l.Entries() {
			if seen[e.ProductID] {
				t.Fatalf("duplicate product id %d in %+v", e.ProductID, l.Entries())
			}
			seen[e.ProductID] = true
			if e.Quantity < 1 {
				t.Fatalf("entry with quantity < 1: %+v", e)
			}
		}
	}

	entries := l.Entries()
	if len(entries) != 2 || entries[0].ProductID != 1 || entries[0].Quantity != 5 || entries[1].ProductID != 3 {
		t.Fatalf("unexpected final entries: %+v", entries)
	}
}

func TestSetQuantityOverwrites(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 5, 2)
	l.SetQuantity(ctx, 5, 9)
	if entries := l.Entries(); entries[0].Quantity != 9 {
		t.Fatalf("expected quantity 9, got %+v", entries)
	}
}

func TestRecomputeTotalIsIdempotent(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 1, 2)
	l.Add(ctx, 2, 1)
	catalog := []domain.Product{product(1, "3.50"), product(2, "1.25")}

	l.RecomputeTotal(catalog)
	first := l.Total()
	l.RecomputeTotal(catalog)
	if !l.Total().Equal(first) {
		t.Fatalf("recompute not idempotent: %s then %s", first, l.Total())
	}
	if want := decimal.RequireFromString("8.25"); !first.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, first)
	}
}

func TestUnresolvedEntriesContributeZeroAndStay(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 1, 2)
	l.Add(ctx, 99, 4) // not in catalog
	catalog := []domain.Product{product(1, "2.00")}

	l.RecomputeTotal(catalog)
	if want := decimal.RequireFromString("4.00"); !l.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, l.Total())
	}
	if len(l.Entries()) != 2 {
		t.Fatalf("unresolved entry was dropped from ledger: %+v", l.Entries())
	}
}

func TestVisibleItemsFiltersAndPreservesOrder(t *testing.T) {
	l, _ := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 3, 1)
	l.Add(ctx, 99, 2) // unresolvable
	l.Add(ctx, 1, 4)
	catalog := []domain.Product{product(1, "1.00"), product(3, "5.00")}

	items := l.VisibleItems(catalog)
	if len(items) != 2 {
		t.Fatalf("expected 2 visible items, got %+v", items)
	}
	if items[0].Product.ID != 3 || items[1].Product.ID != 1 {
		t.Fatalf("visible items out of entry order: %+v", items)
	}
	if want := decimal.RequireFromString("4.00"); !items[1].Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, items[1].Subtotal)
	}
}

func TestClearEmptiesLedgerAndPersistedRecord(t *testing.T) {
	l, store := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 1, 2)
	l.RecomputeTotal([]domain.Product{product(1, "2.00")})
	l.Clear(ctx)

	if len(l.Entries()) != 0 || !l.Total().IsZero() {
		t.Fatalf("ledger not cleared: %+v total=%s", l.Entries(), l.Total())
	}
	if _, err := store.Get(ctx, kv.KeyCart); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected persisted record erased, got err=%v", err)
	}
}

func TestLedgerRestoresFromStore(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	first := Open(ctx, store, nil)
	first.Add(ctx, 7, 3)
	first.Add(ctx, 2, 1)

	second := Open(ctx, store, nil)
	entries := second.Entries()
	if len(entries) != 2 || entries[0].ProductID != 7 || entries[0].Quantity != 3 {
		t.Fatalf("unexpected restored entries: %+v", entries)
	}
}

func TestLedgerIgnoresCorruptPersistedRecord(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()
	if err := store.Set(ctx, kv.KeyCart, "{not json"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	l := Open(ctx, store, nil)
	if len(l.Entries()) != 0 {
		t.Fatalf("expected empty ledger, got %+v", l.Entries())
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	l, _ := openLedger(t)
	_, err := l.Checkout(context.Background(), nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckoutSummarizesAndClears(t *testing.T) {
	l, store := openLedger(t)
	ctx := context.Background()

	l.Add(ctx, 1, 2)
	catalog := []domain.Product{product(1, "10.00")}

	order, err := l.Checkout(ctx, catalog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Reference == "" {
		t.Fatalf("expected order reference")
	}
	if want := decimal.RequireFromString("20.00"); !order.Subtotal.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, order.Subtotal)
	}
	if want := decimal.RequireFromString("2.00"); !order.Tax.Equal(want) {
		t.Fatalf("expected tax %s, got %s", want, order.Tax)
	}
	if want := decimal.RequireFromString("22.00"); !order.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, order.Total)
	}
	if !order.Shipping.IsZero() {
		t.Fatalf("expected free shipping, got %s", order.Shipping)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}

	if len(l.Entries()) != 0 {
		t.Fatalf("checkout did not clear the ledger: %+v", l.Entries())
	}
	if _, err := store.Get(ctx, kv.KeyCart); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected persisted record erased, got err=%v", err)
	}
}
