// Package cache stores serialized simulation responses.
package cache

import (
	"context"
	"sync"
	"time"
)

// ResultCache stores opaque payloads by key.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process ResultCache used when no Redis address is configured.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]memoryEntry
	maxKeys int
	now     func() time.Time
}

// NewMemoryCache creates a memory cache holding at most maxKeys entries
// (zero means unbounded).
func NewMemoryCache(maxKeys int) *MemoryCache {
	return &MemoryCache{
		data:    make(map[string]memoryEntry),
		maxKeys: maxKeys,
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.data, key)
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[key]; !exists && m.maxKeys > 0 && len(m.data) >= m.maxKeys {
		m.evictOne()
	}
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = e
	return nil
}

// evictOne drops an expired entry if there is one, otherwise the entry
// closest to expiry. Callers hold the write lock.
func (m *MemoryCache) evictOne() {
	now := m.now()
	var victim string
	var soonest time.Time
	for k, e := range m.data {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(m.data, k)
			return
		}
		if victim == "" || (!e.expiresAt.IsZero() && (soonest.IsZero() || e.expiresAt.Before(soonest))) {
			victim, soonest = k, e.expiresAt
		}
	}
	delete(m.data, victim)
}

// Len reports the number of stored entries, expired or not.
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *MemoryCache) Close() error { return nil }
