// Package cache holds API results that are expensive to rebuild, such as the
// plan listing and pairwise comparisons, for a fixed time.
package cache

import (
	"sync"
	"time"
)

// TTLCache is a concurrency-safe map whose entries all expire together: the
// whole cache shares one timestamp, refreshed by every write.
type TTLCache[K comparable, V any] struct {
	mu        sync.RWMutex
	data      map[K]V
	timestamp time.Time
	ttl       time.Duration
	now       func() time.Time
}

// New creates an empty, expired cache. A ttl of zero or less disables caching.
func New[K comparable, V any](ttl time.Duration) *TTLCache[K, V] {
	return &TTLCache[K, V]{
		data: make(map[K]V),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns the value for key while the cache is fresh.
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expired() {
		var zero V
		return zero, false
	}
	value, ok := c.data[key]
	return value, ok
}

// Set stores value and restarts the TTL for the whole cache.
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.expired() {
		c.data = make(map[K]V)
	}
	c.data[key] = value
	c.timestamp = c.now()
}

// GetOrLoad returns the cached value for key, calling load on a miss and
// caching its result. Errors are not cached.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if c.ttl > 0 {
		c.Set(key, v)
	}
	return v, nil
}

// GetAll returns a shallow copy of the entries, or nil when expired.
func (c *TTLCache[K, V]) GetAll() map[K]V {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.expired() {
		return nil
	}
	result := make(map[K]V, len(c.data))
	for k, v := range c.data {
		result[k] = v
	}
	return result
}

// SetAll replaces every entry and restarts the TTL.
func (c *TTLCache[K, V]) SetAll(data map[K]V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[K]V, len(data))
	for k, v := range data {
		c.data[k] = v
	}
	c.timestamp = c.now()
}

// IsExpired reports whether the TTL has elapsed since the last write.
func (c *TTLCache[K, V]) IsExpired() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expired()
}

// expired must be called with c.mu held.
func (c *TTLCache[K, V]) expired() bool {
	return c.timestamp.IsZero() || c.now().Sub(c.timestamp) >= c.ttl
}

// Invalidate drops every entry. Call it after the underlying data changes.
func (c *TTLCache[K, V]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[K]V)
	c.timestamp = time.Time{}
}

// Len counts stored entries, expired or not.
func (c *TTLCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
