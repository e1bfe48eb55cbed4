package fixture

import (
	"bytes"
	_ "embed"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/importer"
)

//go:embed products.csv
var productsCSV []byte

// Load parses the embedded demo catalog. It backs catalogd so the
// storefront can run against a local catalog source.
func Load() ([]domain.Product, error) {
	products, err := importer.NewCSVImporter(bytes.NewReader(productsCSV)).Run()
	if err != nil {
		return nil, fmt.Errorf("load embedded catalog: %w", err)
	}
	return products, nil
}

// Categories lists the distinct categories in first-seen order.
func Categories(products []domain.Product) []string {
	seen := make(map[string]bool, len(products))
	var categories []string
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
