package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Defaults for the in-memory tile cache
const (
	DefaultTileTTL    = 6 * time.Hour
	DefaultMaxEntries = 5000
)

// tileEntry owns one cached payload. Entries are never mutated after
// insertion; replacement is delete-then-insert.
type tileEntry struct {
	key       string
	payload   []byte
	createdAt time.Time
	expiresAt time.Time
}

// InMemoryTileCache is a bounded map with FIFO eviction. When the
// cache is full, the oldest-inserted entry still present is evicted,
// regardless of how recently it was read. This is insertion-order
// (FIFO) eviction, not LRU: a hot tile that has lived past its
// insertion turn is evicted before a cold one inserted after it.
//
// The mutex covers the whole read-check-evict-insert sequence; Get and
// Set are safe under preemptive scheduling.
type InMemoryTileCache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element // key -> element holding *tileEntry
	order      *list.List               // front = oldest insertion
	ttl        time.Duration
	maxEntries int
	nowFunc    func() time.Time
	logger     *zap.Logger

	hits   int64
	misses int64
}

// InMemoryTileCacheOption is a functional option for configuring the cache
type InMemoryTileCacheOption func(*InMemoryTileCache)

// WithTTL sets the per-entry time-to-live
func WithTTL(ttl time.Duration) InMemoryTileCacheOption {
	return func(c *InMemoryTileCache) {
		c.ttl = ttl
	}
}

// WithMaxEntries sets the cache capacity
func WithMaxEntries(n int) InMemoryTileCacheOption {
	return func(c *InMemoryTileCache) {
		c.maxEntries = n
	}
}

// WithLogger sets the logger for the cache
func WithLogger(logger *zap.Logger) InMemoryTileCacheOption {
	return func(c *InMemoryTileCache) {
		c.logger = logger
	}
}

// NewInMemoryTileCache creates a bounded in-memory tile cache.
func NewInMemoryTileCache(opts ...InMemoryTileCacheOption) *InMemoryTileCache {
	c := &InMemoryTileCache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        DefaultTileTTL,
		maxEntries: DefaultMaxEntries,
		nowFunc:    time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached tile payload, removing it on expiry.
func (c *InMemoryTileCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	entry := elem.Value.(*tileEntry)
	if c.nowFunc().After(entry.expiresAt) {
		c.removeLocked(elem)
		atomic.AddInt64(&c.misses, 1)
		c.logger.Debug("Tile cache entry expired", zap.String("key", key))
		return nil, false
	}

	atomic.AddInt64(&c.hits, 1)
	return entry.payload, true
}

// Set stores a tile payload, evicting exactly one entry when full.
func (c *InMemoryTileCache) Set(ctx context.Context, key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Replacement is delete-then-insert so the key re-enters the
	// FIFO queue at the back.
	if elem, ok := c.entries[key]; ok {
		c.removeLocked(elem)
	}

	if c.maxEntries > 0 && c.order.Len() >= c.maxEntries {
		if oldest := c.order.Front(); oldest != nil {
			evicted := oldest.Value.(*tileEntry)
			c.removeLocked(oldest)
			c.logger.Debug("Evicted oldest-inserted tile",
				zap.String("evicted_key", evicted.key),
				zap.String("new_key", key))
		}
	}

	now := c.nowFunc()
	entry := &tileEntry{
		key:       key,
		payload:   payload,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}
	c.entries[key] = c.order.PushBack(entry)
}

// ClearExpired removes every expired entry and returns the count.
func (c *InMemoryTileCache) ClearExpired(ctx context.Context) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.nowFunc()
	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*tileEntry).expiresAt) {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}

	if removed > 0 {
		c.logger.Debug("Cleared expired tile cache entries", zap.Int("removed", removed))
	}
	return removed
}

// Clear removes every entry.
func (c *InMemoryTileCache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// CacheStats reports occupancy and hit counters.
func (c *InMemoryTileCache) CacheStats() Stats {
	c.mu.Lock()
	size := c.order.Len()
	c.mu.Unlock()

	return Stats{
		Size:    size,
		MaxSize: c.maxEntries,
		Hits:    atomic.LoadInt64(&c.hits),
		Misses:  atomic.LoadInt64(&c.misses),
	}
}

// Close implements TileCache; the in-memory cache holds no resources.
func (c *InMemoryTileCache) Close() error {
	return nil
}

// removeLocked unlinks an element from both structures. Caller holds
// the mutex.
func (c *InMemoryTileCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*tileEntry)
	delete(c.entries, entry.key)
	c.order.Remove(elem)
}

// Ensure InMemoryTileCache implements TileCache
var _ TileCache = (*InMemoryTileCache)(nil)
