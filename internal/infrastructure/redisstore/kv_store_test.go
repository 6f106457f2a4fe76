package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

func newStore(t *testing.T) (*KVStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewKVStore(rdb), mr
}

func TestSetGetDel(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "refreshToken:abc", "u-1", time.Hour))
	v, err := s.Get(ctx, "refreshToken:abc")
	require.NoError(t, err)
	assert.Equal(t, "u-1", v)

	require.NoError(t, s.Del(ctx, "refreshToken:abc", "missing"))
	_, err = s.Get(ctx, "refreshToken:abc")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
	assert.NoError(t, s.Del(ctx))
}

func TestTTLExpiry(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v", 7*24*time.Hour))
	assert.Equal(t, 7*24*time.Hour, mr.TTL("k"))

	mr.FastForward(7*24*time.Hour + time.Second)
	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, repository.ErrKeyNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	s, mr := newStore(t)
	mr.Close()

	_, err := s.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrKeyNotFound)
}
