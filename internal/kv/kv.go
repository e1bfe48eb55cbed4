package kv

import "context"

// Store is a key to string record store with no expiry, standing in for the
// browser's local storage. Values are serialized structured records owned by
// the callers. A missing key surfaces domain.ErrNotFound.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// The storefront uses exactly two slots: one for the cart entry sequence and
// one for the session identity record.
const (
	KeyCart = "cart"
	KeyUser = "user"
)
