// Package geocache caches normalized shelter results per rounded map
// viewport, so repeated or slightly-panned queries skip the Overpass call.
package geocache

import (
	"sync"
	"time"

	"streetaid/internal/models"
)

type entry struct {
	data      []models.ShelterRecord
	timestamp time.Time
}

// Cache is a TTL cache keyed by a viewport rounded to 3 decimal places.
// Expiration is lazy: stale entries are evicted on lookup, never swept.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries expire ttl after they were stored.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached shelters for the viewport, if present and fresh.
// A stale entry is evicted as a side effect of the lookup. Two viewports
// that agree to 3 decimal places share an entry.
func (c *Cache) Get(bounds models.BoundingBox) ([]models.ShelterRecord, bool) {
	key := bounds.CacheKey()

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.timestamp) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.data, true
}

// Set stores (or overwrites) the shelters for the viewport with the current
// timestamp. The key space is naturally bounded by rounding, so there is no
// capacity cap.
func (c *Cache) Set(bounds models.BoundingBox, data []models.ShelterRecord) {
	c.mu.Lock()
	c.entries[bounds.CacheKey()] = entry{data: data, timestamp: c.now()}
	c.mu.Unlock()
}

// Clear drops all entries. Used by the manual refresh endpoint.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}

// Stats returns the current entry count and keys, read-only.
func (c *Cache) Stats() models.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return models.CacheStats{Size: len(c.entries), Entries: keys}
}
