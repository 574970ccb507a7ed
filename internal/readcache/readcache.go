// Package readcache wraps a go-cache instance for public read paths. Every
// invalidation bumps a generation so a load that started before a write can
// never repopulate the cache with what it read.
package readcache

import (
	"sync"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/dentalcare-api/pkg/metrics"
)

type Cache struct {
	resource string
	store    *cache.Cache
	metrics  *metrics.Metrics

	mu  sync.Mutex
	gen uint64
}

// New wraps store. A nil store disables caching; the returned Cache is still
// safe to use.
func New(resource string, store *cache.Cache, m *metrics.Metrics) *Cache {
	return &Cache{resource: resource, store: store, metrics: m}
}

// Get returns a cached value and records the lookup.
func (c *Cache) Get(key string) (interface{}, bool) {
	if c.store == nil {
		return nil, false
	}
	v, ok := c.store.Get(key)
	if ok {
		c.metrics.CacheHit(c.resource)
	} else {
		c.metrics.CacheMiss(c.resource)
	}
	return v, ok
}

// Generation must be read before loading the value later passed to Set.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set stores v unless the cache was invalidated after gen was read.
func (c *Cache) Set(key string, v interface{}, gen uint64) bool {
	if c.store == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.store.SetDefault(key, v)
	return true
}

// Invalidate drops every entry and fences off in-flight loads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	if c.store != nil {
		c.store.Flush()
	}
}
