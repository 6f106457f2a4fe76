package helpers

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client and pings it once.
// A failed ping is returned so callers can decide whether to run degraded.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return rdb, rdb.Ping(c).Err()
}
