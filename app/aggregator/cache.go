package aggregator

import (
	"sync"
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

// GlobalScope keys the cache entry covering all categories.
const GlobalScope = "global"

// CacheEntry is one cached aggregation result for a scope.
type CacheEntry struct {
	Items       []content.Item
	LastUpdated time.Time
}

// ttlCategoryFactors stretch the base TTL for slower-moving categories,
// conserving fetch volume against API quotas.
var ttlCategoryFactors = map[string]float64{
	string(content.CategoryScience): 2.0,
	string(content.CategoryDesign):  1.5,
}

// Cache stores aggregation results per scope (global or category)
// behind an adaptive TTL. Entries are only replaced, never mutated, so
// readers can hold returned slices safely.
type Cache struct {
	entries map[string]*CacheEntry
	baseTTL time.Duration
	mu      sync.RWMutex
	now     func() time.Time
}

func NewCache(baseTTL time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
		baseTTL: baseTTL,
		now:     time.Now,
	}
}

// Get returns the entry for a scope and whether it is still fresh. A
// stale entry is still returned so callers can fall back to it when a
// refresh fails entirely.
func (c *Cache) Get(scope string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[scope]
	if !ok {
		return nil, false
	}

	fresh := c.now().Sub(entry.LastUpdated) <= c.TTL(scope)
	return entry, fresh
}

func (c *Cache) Set(scope string, items []content.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[scope] = &CacheEntry{
		Items:       items,
		LastUpdated: c.now(),
	}
}

// TTL computes the adaptive TTL for a scope: base TTL scaled by the
// category factor, doubled during low-traffic hours.
func (c *Cache) TTL(scope string) time.Duration {
	ttl := c.baseTTL

	if factor, ok := ttlCategoryFactors[scope]; ok {
		ttl = time.Duration(float64(ttl) * factor)
	}

	if hour := c.now().In(time.Local).Hour(); hour < 7 {
		ttl *= 2
	}

	return ttl
}
