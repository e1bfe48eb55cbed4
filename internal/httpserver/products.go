package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	"storefront/internal/listing"
)

type listingResponse struct {
	Items         []domain.Product `json:"items"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"totalPages"`
	TotalMatching int              `json:"totalMatching"`
	Showing       int              `json:"showing"`
}

// listProductsHandler runs the listing pipeline over the catalog snapshot.
// The catalog is loaded on first use or when refresh=true; afterwards the
// snapshot is served as-is, the pipeline recomputing fully per request.
func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if deps.Catalog.Empty() || c.Query("refresh") == "true" {
			if err := deps.Catalog.LoadProducts(ctx); err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": deps.Catalog.Err()})
				return
			}
			_ = deps.Catalog.LoadCategories(ctx)
		}

		query := listingQueryFromRequest(c)
		page := listing.Paginate(deps.Catalog.Products(), query)
		c.JSON(http.StatusOK, listingResponse{
			Items:         page.Items,
			Page:          query.Page,
			TotalPages:    page.TotalPages,
			TotalMatching: page.TotalMatching,
			Showing:       len(page.Items),
		})
	}
}

func productHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
			return
		}

		if err := deps.Catalog.LoadProduct(c.Request.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": deps.Catalog.Err()})
			return
		}

		product, ok := deps.Catalog.Selected()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// productsByCategoryHandler replaces the catalog snapshot with one
// category's products, then pages it like the main listing.
func productsByCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.Param("category")
		if err := deps.Catalog.LoadProductsByCategory(c.Request.Context(), category); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": deps.Catalog.Err()})
			return
		}

		query := listingQueryFromRequest(c)
		page := listing.Paginate(deps.Catalog.Products(), query)
		c.JSON(http.StatusOK, listingResponse{
			Items:         page.Items,
			Page:          query.Page,
			TotalPages:    page.TotalPages,
			TotalMatching: page.TotalMatching,
			Showing:       len(page.Items),
		})
	}
}

func categoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(deps.Catalog.Categories()) == 0 {
			if err := deps.Catalog.LoadCategories(c.Request.Context()); err != nil {
				c.JSON(http.StatusBadGateway, gin.H{"error": deps.Catalog.Err()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"categories": deps.Catalog.Categories()})
	}
}

// listingQueryFromRequest maps query params onto the pipeline inputs. An
// unknown sort key degrades to the default ordering; a missing or invalid
// page defaults to 1, which also covers the reset-on-new-search behavior
// since each search change arrives as a fresh request.
func listingQueryFromRequest(c *gin.Context) listing.Query {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return listing.Query{
		SearchTerm: c.Query("q"),
		Sort:       listing.SortKey(c.DefaultQuery("sort", string(listing.SortDefault))),
		Page:       page,
		PageSize:   listing.DefaultPageSize,
	}
}
