package matrix

import "github.com/gogpu/qrtexture/internal/cache"

// DefaultCacheSize is the capacity used by NewCached for non-positive sizes.
const DefaultCacheSize = 32

type cacheKey struct {
	text  string
	level Level
}

// Cached memoises successful encodings of a wrapped Provider.
//
// Grids are immutable, so the same *Grid may be returned to several callers.
// Failures are not cached. Cached is safe for concurrent use.
type Cached struct {
	provider Provider
	grids    *cache.Cache[cacheKey, *Grid]
}

// NewCached wraps p with an LRU cache holding up to size grids.
func NewCached(p Provider, size int) *Cached {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cached{
		provider: p,
		grids:    cache.New[cacheKey, *Grid](size),
	}
}

// Encode implements Provider.
func (c *Cached) Encode(text string, level Level) (*Grid, error) {
	key := cacheKey{text: text, level: level}
	if g, ok := c.grids.Get(key); ok {
		return g, nil
	}
	g, err := c.provider.Encode(text, level)
	if err != nil {
		return nil, err
	}
	c.grids.Set(key, g)
	return g, nil
}

// Stats returns the number of cache hits and misses so far.
func (c *Cached) Stats() (hits, misses uint64) {
	s := c.grids.Stats()
	return s.Hits, s.Misses
}

// Len returns the number of cached grids.
func (c *Cached) Len() int {
	return c.grids.Len()
}
