// Package cache stores encoded feed results with a freshness window.
package cache

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a byte-oriented store with per-entry expiration. Implementations are safe for
// concurrent use and never return an entry past its TTL.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	// Clear removes every entry owned by this cache.
	Clear()
	Stats() Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Sets        int64 `json:"sets"`
	Evictions   int64 `json:"evictions"`
	CurrentSize int   `json:"current_size"`
}

type counters struct {
	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

func (c *counters) snapshot(size int) Stats {
	return Stats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

type entry struct {
	value      []byte
	expiration time.Time
}

func (e *entry) expiredAt(now time.Time) bool {
	return !now.Before(e.expiration)
}

// MemoryCache is an in-process Cache with a background janitor.
type MemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*entry
	stats    counters
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a memory cache. A positive cleanupInterval starts a janitor goroutine
// that must be released with Stop.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.janitor(cleanupInterval)
	}
	return c
}

func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || e.expiredAt(c.now()) {
		c.stats.misses.Add(1)
		return nil, false
	}
	c.stats.hits.Add(1)
	return e.value, true
}

func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = &entry{value: value, expiration: c.now().Add(ttl)}
	c.mu.Unlock()
	c.stats.sets.Add(1)
}

func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

func (c *MemoryCache) Stats() Stats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()
	return c.stats.snapshot(size)
}

// DeleteExpired drops expired entries and returns how many were removed.
func (c *MemoryCache) DeleteExpired() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for key, e := range c.entries {
		if e.expiredAt(now) {
			delete(c.entries, key)
			count++
		}
	}
	c.stats.evictions.Add(int64(count))
	return count
}

// Stop releases the janitor goroutine. Safe to call more than once.
func (c *MemoryCache) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Key builds a namespaced cache key from parts.
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}
