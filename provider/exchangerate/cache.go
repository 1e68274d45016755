package exchangerate

import (
	"sync"
	"time"

	"github.com/sig-0/currconv/storage/types"
)

// DefaultCacheTTL is the freshness window of a cached live rate
const DefaultCacheTTL = 600 * time.Second

type cacheEntry struct {
	fetchedAt time.Time
	rate      float64
}

// Cache keeps live rates per currency pair for a fixed freshness window.
// Stale entries are never purged, they are skipped on read and overwritten on the next Put
type Cache struct {
	entries map[types.Pair]cacheEntry
	now     func() time.Time
	ttl     time.Duration

	mu sync.RWMutex
}

// NewCache creates a new rate cache. A non-positive ttl falls back to DefaultCacheTTL
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Cache{
		entries: make(map[types.Pair]cacheEntry),
		now:     time.Now,
		ttl:     ttl,
	}
}

// Get returns the cached rate for the pair, if it is still fresh
func (c *Cache) Get(from, to types.Currency) (float64, bool) {
	c.mu.RLock()
	entry, ok := c.entries[types.Pair{Base: from, Target: to}]
	c.mu.RUnlock()

	if !ok {
		return 0, false
	}

	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		return 0, false
	}

	return entry.rate, true
}

// Put stores the rate for the pair, stamped with the current time
func (c *Cache) Put(from, to types.Currency, rate float64) {
	entry := cacheEntry{
		fetchedAt: c.now(),
		rate:      rate,
	}

	c.mu.Lock()
	c.entries[types.Pair{Base: from, Target: to}] = entry
	c.mu.Unlock()
}
