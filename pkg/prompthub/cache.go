package prompthub

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long list and tag responses are reused.
const DefaultCacheTTL = 5 * time.Minute

// entry is one cached value with the time it was fetched.
type entry[T any] struct {
	data      T
	fetchedAt time.Time
	ttl       time.Duration
}

func (e entry[T]) fresh(now time.Time) bool {
	return now.Sub(e.fetchedAt) < e.ttl
}

// Cache holds responses keyed by request for a fixed time to live.
// It is safe for concurrent use.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache. A non-positive ttl uses DefaultCacheTTL and a nil
// clock uses time.Now.
func NewCache[T any](ttl time.Duration, now func() time.Time) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the value for key if it has not expired.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.fresh(c.now()) {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Set stores the value for key, stamped with the current time.
func (c *Cache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[T]{data: data, fetchedAt: c.now(), ttl: c.ttl}
}

// FetchedAt reports when key was stored.
func (c *Cache[T]) FetchedAt(key string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.fetchedAt, ok
}

// Invalidate drops every entry.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
