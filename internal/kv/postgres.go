package kv

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

// Postgres backs the Store with a single kv_entries table, created by the
// migrations in internal/migrate.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *Postgres {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Postgres{pool: pool, logger: logger}
}

// Connect opens a pgx connection pool and verifies connectivity with a ping.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	const q = `
SELECT value
FROM kv_entries
WHERE key = $1
`
	var value string
	err := p.pool.QueryRow(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		p.logger.Printf("kv repo: get key=%s error=%v", key, err)
		return "", err
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv_entries (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = now()
`
	if _, err := p.pool.Exec(ctx, q, key, value); err != nil {
		p.logger.Printf("kv repo: set key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	const q = `
DELETE FROM kv_entries
WHERE key = $1
`
	if _, err := p.pool.Exec(ctx, q, key); err != nil {
		p.logger.Printf("kv repo: remove key=%s error=%v", key, err)
		return err
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
