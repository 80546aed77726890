// Package cache provides the bounded tile cache sitting in front of
// the spatial store: an in-process FIFO implementation, a Redis-backed
// implementation and a factory selecting between them.
package cache

import "context"

// Stats reports cache occupancy. MaxSize is zero for backends with no
// entry bound, such as the TTL-only Redis store.
type Stats struct {
	Size    int   `json:"size"`
	MaxSize int   `json:"max_size"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// TileCache is a bounded, time-expiring key/bytes store. Callers
// always have a fallback (re-render from the spatial store), so no
// operation surfaces an error: a failing backend degrades to a miss.
type TileCache interface {
	// Get returns the cached payload and true on a hit. An expired
	// entry is removed and reported as a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores the payload under key. Replacing an existing key is
	// delete-then-insert; the entry re-enters the eviction queue as
	// the newest insertion.
	Set(ctx context.Context, key string, payload []byte)

	// ClearExpired removes expired entries and returns how many were
	// dropped. Backends with native expiry return 0.
	ClearExpired(ctx context.Context) int

	// Clear removes every entry.
	Clear(ctx context.Context)

	// CacheStats reports current occupancy and hit counters.
	CacheStats() Stats

	// Close releases backend resources.
	Close() error
}
