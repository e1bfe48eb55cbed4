package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain"
)

// Client fetches the remote product catalog. Any call may fail with a
// generic network error; the store records the message and does not retry.
type Client interface {
	FetchAllProducts(ctx context.Context) ([]domain.Product, error)
	FetchProductByID(ctx context.Context, id int64) (*domain.Product, error)
	FetchAllCategories(ctx context.Context) ([]string, error)
	FetchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
}

// HTTPClient speaks the fakestore-style REST shape of the catalog source.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

func (c *HTTPClient) FetchProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	return &product, nil
}

func (c *HTTPClient) FetchAllCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return categories, nil
}

func (c *HTTPClient) FetchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.getJSON(ctx, path, &products); err != nil {
		return nil, fmt.Errorf("fetch products for category %q: %w", category, err)
	}
	return products, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
