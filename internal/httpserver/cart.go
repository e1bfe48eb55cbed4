package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

var cartTaxRate = decimal.New(1, -1)

type cartResponse struct {
	Items    []domain.CartItem `json:"items"`
	Units    int               `json:"units"`
	Subtotal decimal.Decimal   `json:"subtotal"`
	Shipping decimal.Decimal   `json:"shipping"`
	Tax      decimal.Decimal   `json:"tax"`
	Total    decimal.Decimal   `json:"total"`
}

type addItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderCart(c, deps)
	}
}

func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId and quantity are required"})
			return
		}
		if req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer"})
			return
		}
		deps.Cart.Add(c.Request.Context(), req.ProductID, req.Quantity)
		renderCart(c, deps)
	}
}

func setCartQuantityHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
			return
		}
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity is required"})
			return
		}
		if req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be a positive integer"})
			return
		}
		deps.Cart.SetQuantity(c.Request.Context(), productID, req.Quantity)
		renderCart(c, deps)
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
			return
		}
		deps.Cart.Remove(c.Request.Context(), productID)
		renderCart(c, deps)
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		deps.Cart.Clear(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}

// checkoutHandler gates checkout on an authenticated session, then turns
// the ledger into an order summary.
func checkoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !deps.Session.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}

		products, ok := catalogSnapshot(c, deps)
		if !ok {
			return
		}
		order, err := deps.Cart.Checkout(c.Request.Context(), products)
		if err != nil {
			if errors.Is(err, cart.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// renderCart recomputes the derived total against the current catalog and
// responds with the display view of the ledger. Unresolvable entries stay in
// the ledger but never appear here.
func renderCart(c *gin.Context, deps Deps) {
	products, ok := catalogSnapshot(c, deps)
	if !ok {
		return
	}

	deps.Cart.RecomputeTotal(products)
	items := deps.Cart.VisibleItems(products)
	subtotal := deps.Cart.Total()
	tax := subtotal.Mul(cartTaxRate).Round(2)

	c.JSON(http.StatusOK, cartResponse{
		Items:    items,
		Units:    deps.Cart.Units(),
		Subtotal: subtotal,
		Shipping: decimal.Zero,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	})
}

// catalogSnapshot returns the current product list, loading the catalog on
// first use. A load failure is reported to the client and ends the request.
func catalogSnapshot(c *gin.Context, deps Deps) ([]domain.Product, bool) {
	if deps.Catalog.Empty() {
		if err := deps.Catalog.LoadProducts(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": deps.Catalog.Err()})
			return nil, false
		}
	}
	return deps.Catalog.Products(), true
}
