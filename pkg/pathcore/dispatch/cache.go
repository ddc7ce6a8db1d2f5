package dispatch

import (
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/randalmurphal/pathcore/pkg/pathcore/operation"
)

// DefaultCacheCapacity is used when no capacity is configured.
const DefaultCacheCapacity = 4096

// CacheStats is a point-in-time view of cache counters.
type CacheStats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      int
	Capacity  int
}

// HitRate returns hits / (hits + misses), or 0 before the first lookup.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithEvictionHook is called for every entry pushed out by capacity. It
// runs while inserts are serialized and must not call back into the cache.
func WithEvictionHook(fn func(Key)) CacheOption {
	return func(c *Cache) {
		c.onEvict = fn
	}
}

// Cache is a bounded, least-recently-used map from call shapes to
// resolutions. It is safe for concurrent use. The cache itself knows
// nothing about registry versions; see Dispatcher.
type Cache struct {
	entries  *lru.Cache[Key, operation.Resolution]
	capacity int
	onEvict  func(Key)

	// insertMu serializes inserts so capacity evictions happen here, where
	// they are counted, and never inside the lru.
	insertMu sync.Mutex

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// NewCache creates a cache holding at most capacity entries.
func NewCache(capacity int, opts ...CacheOption) (*Cache, error) {
	c := &Cache{capacity: capacity}
	for _, opt := range opts {
		opt(c)
	}
	entries, err := lru.New[Key, operation.Resolution](capacity)
	if err != nil {
		return nil, err
	}
	c.entries = entries
	return c, nil
}

// Get returns the cached resolution for key without resolving.
func (c *Cache) Get(key Key) (operation.Resolution, bool) {
	res, ok := c.entries.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return res, ok
}

// Insert stores res under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache) Insert(key Key, res operation.Resolution) {
	c.insertMu.Lock()
	defer c.insertMu.Unlock()

	if !c.entries.Contains(key) && c.entries.Len() >= c.capacity {
		if old, _, ok := c.entries.RemoveOldest(); ok {
			c.evictions.Add(1)
			if c.onEvict != nil {
				c.onEvict(old)
			}
		}
	}
	c.entries.Add(key, res)
}

// Remove drops key. It does not count as an eviction.
func (c *Cache) Remove(key Key) {
	c.entries.Remove(key)
}

// Clear drops every entry. Counters are kept.
func (c *Cache) Clear() {
	c.entries.Purge()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Stats returns the current counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Size:      c.entries.Len(),
		Capacity:  c.capacity,
	}
}
