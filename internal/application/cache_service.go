package application

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

// Cache TTLs.
const (
	UserListTTL = time.Hour
	PlatformTTL = 30 * time.Minute
)

// Cache keys. Writers own invalidation of the keys their data feeds.
const (
	KeyPlatformStats           = "platform:stats"
	KeyPlatformAllUsers        = "platform:all_users"
	KeyPlatformAllTransactions = "platform:all_transactions"
)

func KeyUserTransactions(userID string) string { return "transactions:user:" + userID }
func KeyUserDebts(userID string) string        { return "debts:user:" + userID }

// Cache stores JSON snapshots in the KV store. Every failure degrades to a
// miss or a no-op; nothing here is ever returned to a caller as an error.
type Cache struct {
	KV     repository.KVStore
	Logger *logrus.Logger
}

func NewCache(kv repository.KVStore, logger *logrus.Logger) *Cache {
	return &Cache{KV: kv, Logger: logger}
}

// Get decodes the entry under key into dest and reports whether it was a hit.
// After a miss the contents of dest are undefined; a corrupt entry may have
// been partially decoded into it.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.KV.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrKeyNotFound) {
			c.Logger.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		c.Logger.WithError(err).WithField("key", key).Warn("cache entry corrupt")
		return false
	}
	return true
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	b, err := json.Marshal(value)
	if err != nil {
		c.Logger.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := c.KV.Set(ctx, key, string(b), ttl); err != nil {
		c.Logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (c *Cache) Del(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.KV.Del(ctx, keys...); err != nil {
		c.Logger.WithError(err).WithField("keys", keys).Warn("cache invalidation failed")
	}
}
