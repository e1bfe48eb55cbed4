package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

// SortKey selects the ordering applied to the filtered product set.
type SortKey string

const (
	SortDefault   SortKey = "default"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
)

// DefaultPageSize is the fixed size of one listing page.
const DefaultPageSize = 8

// Query carries the three independent listing inputs. It is transient and
// UI-owned; nothing here is persisted.
type Query struct {
	SearchTerm string
	Sort       SortKey
	Page       int
	PageSize   int
}

// Page is one derived page of the listing plus its pagination metadata.
type Page struct {
	Items         []domain.Product `json:"items"`
	TotalPages    int              `json:"totalPages"`
	TotalMatching int              `json:"totalMatching"`
}

// Paginate derives the visible page from the catalog snapshot: filter by
// case-insensitive substring over title or description, stable-sort by the
// sort key (ties keep catalog order), then slice out the requested page. A
// page past the end yields an empty page; it is not clamped. A page below 1
// and a zero page size fall back to 1 and DefaultPageSize.
//
// The whole pipeline recomputes on every call. Catalogs here are hundreds
// of items, so recomputation is cheaper than being clever.
func Paginate(products []domain.Product, q Query) Page {
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	matched := filter(products, q.SearchTerm)
	sortProducts(matched, q.Sort)

	totalMatching := len(matched)
	totalPages := (totalMatching + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= totalMatching {
		return Page{Items: []domain.Product{}, TotalPages: totalPages, TotalMatching: totalMatching}
	}
	end := start + pageSize
	if end > totalMatching {
		end = totalMatching
	}
	return Page{Items: matched[start:end], TotalPages: totalPages, TotalMatching: totalMatching}
}

func filter(products []domain.Product, term string) []domain.Product {
	needle := strings.ToLower(term)
	matched := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

func sortProducts(products []domain.Product, key SortKey) {
	switch key {
	case SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price.LessThan(products[j].Price)
		})
	case SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Price.LessThan(products[i].Price)
		})
	case SortNameAsc:
		col := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[i].Title, products[j].Title) < 0
		})
	case SortNameDesc:
		col := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return col.CompareString(products[j].Title, products[i].Title) < 0
		})
	default:
		// Catalog fetch order stands.
	}
}
