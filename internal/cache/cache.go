// Package cache provides a bounded, expiring, concurrency-safe cache backed by
// hashicorp/golang-lru. It holds chain metadata that never changes for a given
// key (token decimals, resolved pool addresses) and short-lived readings such
// as the gas price. Per-evaluation pool prices are never stored here.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache is a typed LRU with a single TTL for every entry. A zero TTL keeps
// entries until evicted by size.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New creates a cache holding at most size entries.
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	if size <= 0 {
		size = 1024
	}
	return &Cache[K, V]{lru: expirable.NewLRU[K, V](size, nil, ttl)}
}

// Get returns the value for key if present and not expired.
func (c *Cache[K, V]) Get(_ context.Context, key K) (V, bool) {
	return c.lru.Get(key)
}

// Set stores value under key.
func (c *Cache[K, V]) Set(_ context.Context, key K, value V) {
	c.lru.Add(key, value)
}

// Delete removes key.
func (c *Cache[K, V]) Delete(_ context.Context, key K) {
	c.lru.Remove(key)
}

// Len returns the number of live entries.
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Failed loads are not cached. Concurrent misses may each call load.
func (c *Cache[K, V]) GetOrLoad(ctx context.Context, key K, load func(context.Context) (V, error)) (V, bool, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, true, nil
	}
	v, err := load(ctx)
	if err != nil {
		return v, false, err
	}
	c.lru.Add(key, v)
	return v, false, nil
}

// Close drops every entry.
func (c *Cache[K, V]) Close() {
	c.lru.Purge()
}
