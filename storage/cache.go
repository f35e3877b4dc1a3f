package storage

import (
	"sync/atomic"

	"github.com/coocood/freecache"

	"github.com/janelia-flyem/lattice/lattice"
)

// CountCache memoizes counts by procedure and region key.  A nil *CountCache is valid
// and caches nothing.
type CountCache struct {
	cache    *freecache.Cache
	attempts uint64
	hits     uint64
}

// NewCountCache returns a cache using about numBytes of memory, or nil if numBytes
// is not positive.
func NewCountCache(numBytes int) *CountCache {
	if numBytes <= 0 {
		return nil
	}
	c := &CountCache{cache: freecache.NewCache(numBytes)}
	lattice.Infof("Created freecache of ~ %d MB for counts.\n", numBytes>>20)
	return c
}

// Get returns a cached count.
func (c *CountCache) Get(id, regionKey string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	atomic.AddUint64(&c.attempts, 1)
	value, err := c.cache.Get(CountKey(id, regionKey))
	if err != nil {
		if err != freecache.ErrNotFound {
			lattice.Errorf("count cache get for %s/%s: %v\n", id, regionKey, err)
		}
		return 0, false
	}
	count, err := DecodeCount(value)
	if err != nil {
		lattice.Errorf("bad cached count for %s/%s: %v\n", id, regionKey, err)
		return 0, false
	}
	atomic.AddUint64(&c.hits, 1)
	return count, true
}

// Set caches a count without expiration.
func (c *CountCache) Set(id, regionKey string, count int64) {
	if c == nil {
		return
	}
	if err := c.cache.Set(CountKey(id, regionKey), EncodeCount(count), 0); err != nil {
		lattice.Errorf("unable to cache count for %s/%s: %v\n", id, regionKey, err)
	}
}

// Delete removes any cached counts for the procedure's region keys.
func (c *CountCache) Delete(id string, regionKeys []string) {
	if c == nil {
		return
	}
	for _, regionKey := range regionKeys {
		c.cache.Del(CountKey(id, regionKey))
	}
}

// Stats returns the number of lookups and how many of them were hits.
func (c *CountCache) Stats() (attempts, hits uint64) {
	if c == nil {
		return 0, 0
	}
	return atomic.LoadUint64(&c.attempts), atomic.LoadUint64(&c.hits)
}
