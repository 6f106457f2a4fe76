// Package memory holds in-process implementations of the storage interfaces.
// They back STORAGE_DRIVER=memory / KV_DRIVER=memory for local runs and are
// used as fixtures by service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-finance-tracker/internal/domain/repository"
)

type kvEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// KVStore is a TTL-aware map. Expired keys are dropped lazily on read.
type KVStore struct {
	mu   sync.Mutex
	data map[string]kvEntry
	now  func() time.Time

	// Err, when set, is returned by every operation to simulate an outage.
	Err error
}

func NewKVStore() *KVStore {
	return &KVStore{data: map[string]kvEntry{}, now: time.Now}
}

// SetClock replaces the time source; used to step over TTLs in tests.
func (s *KVStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	e, ok := s.data[key]
	if !ok {
		return "", repository.ErrKeyNotFound
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.data, key)
		return "", repository.ErrKeyNotFound
	}
	return e.value, nil
}

func (s *KVStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	e := kvEntry{value: value}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.data[key] = e
	return nil
}

func (s *KVStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// TTL returns the remaining lifetime of key, or 0 when absent or persistent.
func (s *KVStore) TTL(key string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key]
	if !ok || e.expiresAt.IsZero() {
		return 0
	}
	return e.expiresAt.Sub(s.now())
}

var _ repository.KVStore = (*KVStore)(nil)
