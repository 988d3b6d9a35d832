// Package cache keeps server-fetched data for the lifetime of a session.
// Logout purges it so the next user never observes the previous user's data.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultSize = 256
	DefaultTTL  = 5 * time.Minute
)

// Cache is an expiring LRU keyed by query name.
type Cache struct {
	lru *expirable.LRU[string, any]

	// mu orders purges against stores so a purge is never followed by a
	// store of data fetched before it.
	mu    sync.Mutex
	epoch uint64
}

// New returns a cache holding at most size entries for ttl each.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

// Purge drops every entry. Fetches already in flight will not store their
// results.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.lru.Purge()
}

// Invalidate drops every entry whose key starts with prefix.
func (c *Cache) Invalidate(prefix string) {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Fetch returns the cached value for key or loads it with fn.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (T, error) {
	if v, ok := c.lru.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}

	c.mu.Lock()
	epoch := c.epoch
	c.mu.Unlock()

	v, err := fn(ctx)
	if err != nil {
		return v, err
	}
	c.store(epoch, key, v)
	return v, nil
}

// store adds v unless the cache was purged since epoch was read.
func (c *Cache) store(epoch uint64, key string, v any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.lru.Add(key, v)
	return true
}
