// Package cache provides the result cache in front of catalog queries:
// a key-value store with per-entry TTLs, stable key derivation, and a
// cache-aside helper.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Store is a minimal interface for a key/value result cache. It can be
// backed by the in-memory implementation below or by any external caching
// system offering per-key atomicity; no further consistency is assumed.
// Concurrent writers to the same key are last-writer-wins.
type Store interface {
	Get(key string) (value any, found bool)
	Set(key string, value any, ttl time.Duration)
	Delete(key string)
	// DeletePrefix removes every entry whose key starts with prefix.
	DeletePrefix(prefix string)
	Clear()
}

type entry struct {
	value     any
	expiresAt time.Time
}

// MemoryStore is a process-wide in-memory Store. Expired entries are
// dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
	}
}

// Get returns the value stored under key if it has not expired.
func (s *MemoryStore) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, ok := s.entries[key]; ok && time.Now().After(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given TTL.
func (s *MemoryStore) Set(key string, value any, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Delete removes the entry stored under key, if any.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// DeletePrefix removes every entry whose key starts with prefix.
func (s *MemoryStore) DeletePrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

// Clear removes all entries.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrCompute returns the cached value under key if present and unexpired;
// otherwise it invokes compute, stores the result with the given TTL, and
// returns it. A compute error is returned without caching anything.
//
// There is no single-flight coordination: concurrent callers missing on the
// same key each compute independently and the last write wins. Computations
// behind this helper are read-only and idempotent, so duplicate work costs
// latency, not correctness.
func GetOrCompute[T any](store Store, key string, ttl time.Duration, compute func() (T, error)) (T, bool, error) {
	if cached, ok := store.Get(key); ok {
		if value, ok := cached.(T); ok {
			return value, true, nil
		}
		// A foreign type under our key means the key derivation collided
		// with another use case; recompute rather than fail.
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, false, err
	}
	store.Set(key, value, ttl)
	return value, false, nil
}
