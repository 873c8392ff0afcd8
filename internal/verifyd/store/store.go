// Package store caches successful verification payloads so repeat lookups
// of the same identifier skip the upstream registry.
package store

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when no fresh entry exists for a key.
var ErrNotFound = errors.New("store: entry not found")

type cachedEntry struct {
	data     map[string]string
	storedAt time.Time
}

// MemoryCache is a TTL-bounded in-memory response cache. Entries past the
// TTL are treated as absent and overwritten on the next successful lookup.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	entries map[string]cachedEntry
}

// MemoryCacheOption configures the MemoryCache.
type MemoryCacheOption func(*MemoryCache)

// WithClock replaces the time source (for testing expiry).
func WithClock(now func() time.Time) MemoryCacheOption {
	return func(c *MemoryCache) { c.now = now }
}

// NewMemoryCache creates a cache holding entries for ttl.
func NewMemoryCache(ttl time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save stores a verification payload under the identifier key.
func (c *MemoryCache) Save(_ context.Context, key string, data map[string]string) error {
	copied := make(map[string]string, len(data))
	for k, v := range data {
		copied[k] = v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedEntry{data: copied, storedAt: c.now()}
	return nil
}

// Find returns the payload for key when a fresh entry exists.
func (c *MemoryCache) Find(_ context.Context, key string) (map[string]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return nil, ErrNotFound
	}
	out := make(map[string]string, len(entry.data))
	for k, v := range entry.data {
		out[k] = v
	}
	return out, nil
}
