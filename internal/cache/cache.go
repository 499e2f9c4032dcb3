// Package cache provides the process-wide result cache and the concurrency
// gate that bounds remote browser sessions.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTTL is how long a cached result is served as fresh.
const DefaultTTL = 24 * time.Hour

// Entry is one cached value and the time it was stored.
type Entry struct {
	Value    any
	StoredAt time.Time
}

// Stats is operational introspection over the cache.
type Stats struct {
	Size             int   `json:"size"`
	OldestEntryAgeMs int64 `json:"oldest_entry_age_ms"`
	Hits             int64 `json:"hits"`
	Misses           int64 `json:"misses"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.nowFunc = now }
}

// Cache is a concurrent-safe key/value store with a fixed TTL. Stale entries
// are reported as absent and removed by Sweep.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	hits    atomic.Int64
	misses  atomic.Int64

	nowFunc func() time.Time
}

// New creates a Cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the entry for key if it is younger than the TTL.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.nowFunc().Sub(e.StoredAt) >= c.ttl {
		c.misses.Add(1)
		return Entry{}, false
	}
	c.hits.Add(1)
	return e, true
}

// Put stores value under key, overwriting any previous entry.
func (c *Cache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{Value: value, StoredAt: c.nowFunc()}
}

// Sweep deletes every entry whose age is at least the TTL and returns how
// many were removed.
func (c *Cache) Sweep() int {
	now := c.nowFunc()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.StoredAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Stats returns the entry count and the age of the oldest entry, stale
// entries included.
func (c *Cache) Stats() Stats {
	now := c.nowFunc()

	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{
		Size:   len(c.entries),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	var oldest time.Time
	for _, e := range c.entries {
		if oldest.IsZero() || e.StoredAt.Before(oldest) {
			oldest = e.StoredAt
		}
	}
	if !oldest.IsZero() {
		s.OldestEntryAgeMs = now.Sub(oldest).Milliseconds()
	}
	return s
}

// Lookup returns the cached value for key as a T. A missing, stale, or
// wrongly typed entry reports false so the caller falls through to a live
// fetch.
func Lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	e, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := e.Value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
