package repository

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by KVStore.Get for absent or expired keys.
var ErrKeyNotFound = errors.New("key not found")

// KVStore is a string key-value store with per-key TTL. Each call is atomic
// for its key; no multi-key transactions are offered.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key; ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
