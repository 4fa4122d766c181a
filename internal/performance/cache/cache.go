// Package cache memoizes upstream responses with per-entry expiry.
package cache

import (
	"sync"
	"time"
)

// entry is a cached value plus its absolute expiry. Entries are never
// mutated after creation; an overwrite replaces the pointer wholesale.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrent key/value store with lazy expiry on read.
type Cache[K comparable, V any] struct {
	items sync.Map // K -> *entry[V]
	now   func() time.Time
}

// New creates an empty Cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (c *Cache[K, V]) WithClock(now func() time.Time) *Cache[K, V] {
	c.now = now
	return c
}

// Get returns the value for key if it has not expired. An expired entry is
// evicted by the same call; a fresh Put racing with the eviction survives.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	var zero V

	v, ok := c.items.Load(key)
	if !ok {
		return zero, false
	}
	e := v.(*entry[V])

	if c.now().After(e.expiresAt) {
		c.items.CompareAndDelete(key, e)
		return zero, false
	}
	return e.value, true
}

// Put stores value under key for ttl, replacing any previous entry.
func (c *Cache[K, V]) Put(key K, value V, ttl time.Duration) {
	c.items.Store(key, &entry[V]{value: value, expiresAt: c.now().Add(ttl)})
}

// Invalidate removes key.
func (c *Cache[K, V]) Invalidate(key K) {
	c.items.Delete(key)
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.items.Range(func(k, _ any) bool {
		c.items.Delete(k)
		return true
	})
}

// PurgeExpired sweeps expired entries and returns how many were removed.
func (c *Cache[K, V]) PurgeExpired() int {
	now := c.now()
	removed := 0
	c.items.Range(func(k, v any) bool {
		if now.After(v.(*entry[V]).expiresAt) && c.items.CompareAndDelete(k, v) {
			removed++
		}
		return true
	})
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[K, V]) Len() int {
	n := 0
	c.items.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
