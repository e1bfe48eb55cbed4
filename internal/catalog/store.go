package catalog

import (
	"context"
	"io"
	"log"
	"sync"

	"storefront/internal/domain"
)

// Fetch generations, one counter per independently loaded resource. The
// product list and the per-category list share a counter because both
// replace the same products field.
const (
	resProducts   = "products"
	resSelected   = "selected"
	resCategories = "categories"
)

// Store holds the catalog as last fetched from the remote source: the
// product list, a selected product, and the known categories. Load
// operations replace contents wholesale. Every load is keyed by a
// per-resource generation; a response whose generation is no longer current
// when it completes is discarded instead of applied.
type Store struct {
	mu     sync.Mutex
	client Client
	logger *log.Logger

	products   []domain.Product
	selected   *domain.Product
	categories []string
	loading    bool
	err        string

	gens map[string]uint64
}

func NewStore(client Client, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		client: client,
		logger: logger,
		gens:   make(map[string]uint64),
	}
}

// LoadProducts replaces the product list with the full catalog.
func (s *Store) LoadProducts(ctx context.Context) error {
	gen := s.begin(resProducts, true)
	products, err := s.client.FetchAllProducts(ctx)
	return s.finishProducts(gen, products, err)
}

// LoadProductsByCategory replaces the product list with one category's
// products.
func (s *Store) LoadProductsByCategory(ctx context.Context, category string) error {
	gen := s.begin(resProducts, true)
	products, err := s.client.FetchProductsByCategory(ctx, category)
	return s.finishProducts(gen, products, err)
}

// LoadProduct fetches one product and makes it the selected product.
func (s *Store) LoadProduct(ctx context.Context, id int64) error {
	gen := s.begin(resSelected, true)
	product, err := s.client.FetchProductByID(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[resSelected] != gen {
		s.logger.Printf("catalog store: discarding stale product response gen=%d", gen)
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err.Error()
		s.logger.Printf("catalog store: load product id=%d error=%v", id, err)
		return err
	}
	s.selected = product
	s.err = ""
	return nil
}

// LoadCategories replaces the known category set.
func (s *Store) LoadCategories(ctx context.Context) error {
	gen := s.begin(resCategories, false)
	categories, err := s.client.FetchAllCategories(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[resCategories] != gen {
		s.logger.Printf("catalog store: discarding stale categories response gen=%d", gen)
		return nil
	}
	if err != nil {
		s.err = err.Error()
		s.logger.Printf("catalog store: load categories error=%v", err)
		return err
	}
	s.categories = categories
	return nil
}

func (s *Store) begin(resource string, markLoading bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[resource]++
	if markLoading {
		s.loading = true
	}
	return s.gens[resource]
}

func (s *Store) finishProducts(gen uint64, products []domain.Product, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[resProducts] != gen {
		s.logger.Printf("catalog store: discarding stale products response gen=%d", gen)
		return nil
	}
	s.loading = false
	if err != nil {
		s.err = err.Error()
		s.logger.Printf("catalog store: load products error=%v", err)
		return err
	}
	s.products = products
	s.err = ""
	s.logger.Printf("catalog store: loaded products count=%d", len(products))
	return nil
}

// Products returns a copy of the current product list in fetch order.
func (s *Store) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Selected returns the selected product, if any.
func (s *Store) Selected() (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return domain.Product{}, false
	}
	return *s.selected, true
}

// Categories returns a copy of the known category names.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded fetch failure, empty after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Empty reports whether no products have been loaded yet.
func (s *Store) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products) == 0
}
