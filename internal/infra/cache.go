// Package infra provides shared infrastructure for serving rendered pages:
// a bounded LRU cache with TTL and in-flight request coalescing.
package infra

import (
	"sort"
	"sync"
	"time"

	"github.com/olgasafonova/tool-directory-server/metrics"
)

// Cache size limits to prevent unbounded memory growth
const (
	DefaultMaxCacheEntries = 256
	DefaultCacheCleanup    = 5 * time.Minute
)

type cacheEntry[V any] struct {
	value      V
	expiresAt  time.Time
	accessedAt time.Time
}

// Cache is an LRU cache with per-entry TTL. Keys are arbitrary request
// input (category selections), so the entry count is bounded.
type Cache[V any] struct {
	mu         sync.Mutex
	entries    map[string]*cacheEntry[V]
	maxEntries int
	now        func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewCache creates a new LRU cache with the specified max entries
func NewCache[V any](maxEntries int) *Cache[V] {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxCacheEntries
	}
	c := &Cache[V]{
		entries:    make(map[string]*cacheEntry[V]),
		maxEntries: maxEntries,
		now:        time.Now,
		stopCh:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached value if it exists and hasn't expired
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		metrics.RecordCacheAccess(false)
		return zero, false
	}
	now := c.now()
	if !now.Before(e.expiresAt) {
		delete(c.entries, key)
		metrics.SetCacheSize(int64(len(c.entries)))
		metrics.RecordCacheAccess(false)
		return zero, false
	}
	e.accessedAt = now
	metrics.RecordCacheAccess(true)
	return e.value, true
}

// Set stores a value in the cache with the specified TTL, evicting the
// least recently used entries when over capacity
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = &cacheEntry[V]{
		value:      value,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}
	if over := len(c.entries) - c.maxEntries; over > 0 {
		c.evictLRU(over)
	}
	metrics.SetCacheSize(int64(len(c.entries)))
}

// Delete removes a key from the cache
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	metrics.SetCacheSize(int64(len(c.entries)))
}

// Purge removes every entry
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry[V])
	metrics.SetCacheSize(0)
}

// Size returns the current number of entries in the cache
func (c *Cache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background cleanup goroutine
func (c *Cache[V]) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cache[V]) cleanupLoop() {
	ticker := time.NewTicker(DefaultCacheCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries
func (c *Cache[V]) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	metrics.SetCacheSize(int64(len(c.entries)))
}

// evictLRU removes the count oldest-accessed entries. Caller holds mu.
func (c *Cache[V]) evictLRU(count int) {
	type entryInfo struct {
		key        string
		accessedAt time.Time
	}
	infos := make([]entryInfo, 0, len(c.entries))
	for k, e := range c.entries {
		infos = append(infos, entryInfo{key: k, accessedAt: e.accessedAt})
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].accessedAt.Before(infos[j].accessedAt)
	})

	for i := 0; i < count && i < len(infos); i++ {
		delete(c.entries, infos[i].key)
		metrics.CacheEvictions.Inc()
	}
}
