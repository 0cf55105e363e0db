package engine

import (
	"github.com/dgraph-io/ristretto/v2"
)

// CheckCache is a bounded board.CheckCache backed by ristretto. Writes are
// buffered, so a Get right after Set may miss; a miss only costs a recomputation.
type CheckCache struct {
	cache *ristretto.Cache[uint64, bool]
}

// NewCheckCache creates a cache holding up to maxEntries results.
func NewCheckCache(maxEntries int64) (*CheckCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, bool]{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true, // cost counts entries, not bytes
	})
	if err != nil {
		return nil, err
	}
	return &CheckCache{cache: cache}, nil
}

// Get implements board.CheckCache.
func (c *CheckCache) Get(key uint64) (bool, bool) {
	return c.cache.Get(key)
}

// Set implements board.CheckCache. Every entry costs 1.
func (c *CheckCache) Set(key uint64, inCheck bool) {
	c.cache.Set(key, inCheck, 1)
}

// Wait blocks until buffered writes are applied.
func (c *CheckCache) Wait() {
	c.cache.Wait()
}

// Clear drops all entries.
func (c *CheckCache) Clear() {
	c.cache.Clear()
}

// Close stops the cache's background goroutines.
func (c *CheckCache) Close() {
	c.cache.Close()
}
