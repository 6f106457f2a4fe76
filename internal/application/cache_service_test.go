package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.cache.Set(ctx, "k", map[string]int{"a": 1}, time.Minute)
	var got map[string]int
	require.True(t, f.cache.Get(ctx, "k", &got))
	assert.Equal(t, 1, got["a"])

	f.advance(time.Minute)
	assert.False(t, f.cache.Get(ctx, "k", &got))
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.kv.Set(ctx, "k", "{not json", 0))

	var got map[string]int
	assert.False(t, f.cache.Get(ctx, "k", &got))

	// a type mismatch is also a miss, even though part of the entry decoded
	require.NoError(t, f.kv.Set(ctx, "k", `{"a":1,"b":"two"}`, 0))
	var partial map[string]int
	assert.False(t, f.cache.Get(ctx, "k", &partial))
}

func TestCacheFailsOpen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.kv.Err = errors.New("kv down")

	var got []string
	assert.False(t, f.cache.Get(ctx, "k", &got))
	assert.NotPanics(t, func() {
		f.cache.Set(ctx, "k", []string{"x"}, time.Minute)
		f.cache.Del(ctx, "k")
	})
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "transactions:user:u1", KeyUserTransactions("u1"))
	assert.Equal(t, "debts:user:u1", KeyUserDebts("u1"))
}
