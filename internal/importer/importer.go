package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// CSVImporter reads catalog exports with an id,title,price,description,
// category,image header row and produces products in file order.
type CSVImporter struct {
	reader *csv.Reader
}

func NewCSVImporter(r io.Reader) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr}
}

// Run parses all rows. Row order is preserved: it becomes the catalog's
// "default" sort order downstream.
func (i *CSVImporter) Run() ([]domain.Product, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		products []domain.Product
		seen     = make(map[int64]bool)
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return products, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return products, err
		}
		if seen[p.ID] {
			return products, fmt.Errorf("duplicate product id %d", p.ID)
		}
		seen[p.ID] = true
		products = append(products, p)
	}

	return products, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	rawID := field("id")
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid id %q: %w", rawID, err)
	}

	title := field("title")
	if title == "" {
		return domain.Product{}, fmt.Errorf("missing title for id %d", id)
	}

	rawPrice := field("price")
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return domain.Product{}, fmt.Errorf("invalid price %q for id %d: %w", rawPrice, id, err)
	}
	if price.IsNegative() {
		return domain.Product{}, fmt.Errorf("negative price %s for id %d", price, id)
	}

	return domain.Product{
		ID:          id,
		Title:       title,
		Price:       price,
		Description: field("description"),
		Category:    field("category"),
		Image:       field("image"),
	}, nil
}
