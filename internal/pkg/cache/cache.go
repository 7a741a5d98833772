package cache

import (
	"strings"
	"sync"
	"time"
)

// Cache is the read-through cache used by the scorecard service. It is
// injected as an interface so tests can substitute a recording fake and
// assert invalidation directly.
type Cache interface {
	// Get returns the cached value for key, or false when absent or expired.
	Get(key string) (interface{}, bool)

	// Set stores value under key until now+ttl. Concurrent writers for the
	// same key may race; last writer wins.
	Set(key string, value interface{}, ttl time.Duration)

	// InvalidatePrefix removes every entry whose key starts with prefix.
	InvalidatePrefix(prefix string) error
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache. Expired entries are dropped lazily
// on read and swept whenever a prefix invalidation walks the map.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// WithClock overrides the clock for tests.
func (c *MemoryCache) WithClock(now func() time.Time) *MemoryCache {
	c.now = now
	return c
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have renewed it.
		if cur, still := c.entries[key]; still && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *MemoryCache) InvalidatePrefix(prefix string) error {
	now := c.now()
	c.mu.Lock()
	for key, e := range c.entries {
		if strings.HasPrefix(key, prefix) || now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, including not-yet-swept expired
// ones. Used by tests.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
