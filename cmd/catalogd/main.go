// catalogd serves a local catalog source with the same REST shape the
// storefront consumes remotely, backed by the embedded demo catalog or a
// CSV export. Useful for development and demos without network access.
package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"storefront/internal/domain"
	"storefront/internal/fixture"
	"storefront/internal/importer"
)

func main() {
	_ = godotenv.Load()
	logger := log.New(os.Stdout, "[catalogd] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	addr := os.Getenv("CATALOGD_ADDR")
	if addr == "" {
		addr = ":8081"
	}

	products, err := loadProducts(os.Getenv("CATALOG_CSV"))
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	logger.Printf("serving %d products on %s", len(products), addr)

	router := buildRouter(logger, products)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Fatalf("serve: %v", err)
	}
}

func loadProducts(csvPath string) ([]domain.Product, error) {
	if csvPath == "" {
		return fixture.Load()
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return importer.NewCSVImporter(f).Run()
}

func buildRouter(logger *log.Logger, products []domain.Product) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	router.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, products)
	})

	router.GET("/products/categories", func(c *gin.Context) {
		c.JSON(http.StatusOK, fixture.Categories(products))
	})

	router.GET("/products/category/:category", func(c *gin.Context) {
		category := c.Param("category")
		matched := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.Category == category {
				matched = append(matched, p)
			}
		}
		c.JSON(http.StatusOK, matched)
	})

	router.GET("/products/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product id must be an integer"})
			return
		}
		p, ok := byID[id]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	})

	return router
}
