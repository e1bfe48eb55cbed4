package httpserver

import (
	"context"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/kv"
	"storefront/internal/session"
)

// CatalogStore is the catalog surface the handlers consume.
type CatalogStore interface {
	LoadProducts(ctx context.Context) error
	LoadProduct(ctx context.Context, id int64) error
	LoadCategories(ctx context.Context) error
	LoadProductsByCategory(ctx context.Context, category string) error
	Products() []domain.Product
	Selected() (domain.Product, bool)
	Categories() []string
	Loading() bool
	Err() string
	Empty() bool
}

// CartLedger is the cart surface the handlers consume.
type CartLedger interface {
	Add(ctx context.Context, productID int64, quantity int)
	Remove(ctx context.Context, productID int64)
	SetQuantity(ctx context.Context, productID int64, quantity int)
	Clear(ctx context.Context)
	RecomputeTotal(products []domain.Product)
	Total() decimal.Decimal
	Entries() []domain.CartEntry
	Units() int
	VisibleItems(products []domain.Product) []domain.CartItem
	Checkout(ctx context.Context, products []domain.Product) (domain.Order, error)
}

// SessionStore is the auth surface the handlers consume.
type SessionStore interface {
	Signup(ctx context.Context, in session.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Logout(ctx context.Context)
	Current() (domain.User, bool)
	IsAuthenticated() bool
	Err() string
}

// Deps carries the stores the router wires handlers to.
type Deps struct {
	Catalog CatalogStore
	Cart    CartLedger
	Session SessionStore
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger *log.Logger, store kv.Store, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(store))

	api := router.Group("/api")

	api.GET("/products", listProductsHandler(deps))
	api.GET("/products/:id", productHandler(deps))
	api.GET("/products/category/:category", productsByCategoryHandler(deps))
	api.GET("/categories", categoriesHandler(deps))

	api.GET("/cart", getCartHandler(deps))
	api.POST("/cart/items", addCartItemHandler(deps))
	api.PATCH("/cart/items/:productId", setCartQuantityHandler(deps))
	api.DELETE("/cart/items/:productId", removeCartItemHandler(deps))
	api.DELETE("/cart", clearCartHandler(deps))
	api.POST("/cart/checkout", checkoutHandler(deps))

	api.POST("/auth/signup", signupHandler(deps))
	api.POST("/auth/login", loginHandler(deps))
	api.POST("/auth/logout", logoutHandler(deps))
	api.GET("/auth/me", meHandler(deps))

	return router, nil
}
