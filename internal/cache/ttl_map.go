package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLMap is a small concurrency-safe map with per-entry expiry. The
// dashboard keys it by query identity, so a result can only ever be
// returned for the exact query that produced it. A nil *TTLMap is a
// valid no-op cache.
type TTLMap[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]entry[V]
}

// NewTTLMap returns an empty cache.
func NewTTLMap[K comparable, V any]() *TTLMap[K, V] {
	return &TTLMap[K, V]{entries: map[K]entry[V]{}}
}

// GetFresh returns the value for key if it exists and has not expired at now.
func (m *TTLMap[K, V]) GetFresh(key K, now time.Time) (V, bool) {
	var zero V
	if m == nil {
		return zero, false
	}
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
		return zero, false
	}
	return e.value, true
}

// SetWithTTL stores value under key, expiring ttl after now.
// A non-positive ttl stores the value without expiry.
func (m *TTLMap[K, V]) SetWithTTL(key K, value V, now time.Time, ttl time.Duration) {
	if m == nil {
		return
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = now.Add(ttl)
	}
	m.mu.Lock()
	m.entries[key] = entry[V]{value: value, expiresAt: exp}
	m.mu.Unlock()
}

// Delete removes key if present.
func (m *TTLMap[K, V]) Delete(key K) {
	if m == nil {
		return
	}
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Len reports the number of stored entries, expired or not.
func (m *TTLMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
