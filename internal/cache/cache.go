package cache

import (
	"strings"
	"sync"
	"time"
)

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-process TTL map for reference data that rarely changes.
type Cache struct {
	mu    sync.RWMutex
	items map[string]item
	ttl   time.Duration
	now   func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{items: make(map[string]item), ttl: ttl, now: time.Now}
}

func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = item{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[key]
	if !ok || c.now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

func (c *Cache) DeletePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if strings.HasPrefix(k, prefix) {
			delete(c.items, k)
		}
	}
}

// Prune drops expired entries.
func (c *Cache) Prune() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Load returns the cached value for key or calls fn and caches its result.
// A nil cache always calls fn.
func Load[T any](c *Cache, key string, fn func() (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.Get(key); ok {
			if t, ok := v.(T); ok {
				return t, nil
			}
		}
	}
	v, err := fn()
	if err != nil {
		return v, err
	}
	if c != nil {
		c.Set(key, v)
	}
	return v, nil
}
