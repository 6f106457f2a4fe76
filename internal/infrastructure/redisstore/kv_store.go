// Package redisstore implements the key-value store on top of Redis.
package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type KVStore struct {
	rdb redis.UniversalClient
}

func NewKVStore(rdb redis.UniversalClient) *KVStore {
	return &KVStore{rdb: rdb}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", repository.ErrKeyNotFound
	}
	return v, err
}

func (s *KVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *KVStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.rdb.Del(ctx, keys...).Err()
}

var _ repository.KVStore = (*KVStore)(nil)
