package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/httpserver"
	"storefront/internal/kv"
	"storefront/internal/session"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open kv store: %v", err)
	}
	defer closeStore()

	catalogStore := catalog.NewStore(catalog.NewHTTPClient(cfg.CatalogBaseURL), logger)
	ledger := cart.Open(ctx, store, logger)
	sessions := session.Open(ctx, store, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, store, httpserver.Deps{
		Catalog: catalogStore,
		Cart:    ledger,
		Session: sessions,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s (kv backend %s, catalog %s)", cfg.HTTPAddr, cfg.KVBackend, cfg.CatalogBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func openStore(ctx context.Context, cfg config.Config, logger *log.Logger) (kv.Store, func(), error) {
	switch cfg.KVBackend {
	case "postgres":
		pool, err := kv.Connect(ctx, cfg.DBConnString)
		if err != nil {
			return nil, nil, fmt.Errorf("connect db: %w", err)
		}
		return kv.NewPostgres(pool, logger), pool.Close, nil
	case "redis":
		r := kv.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := r.Ping(ctx); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return r, func() { _ = r.Close() }, nil
	case "memory":
		return kv.NewMemory(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown kv backend %q", cfg.KVBackend)
	}
}
