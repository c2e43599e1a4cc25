package backend

import (
	"context"
	"maps"
	"strconv"
	"sync"

	"fintrack/internal/cache"
	"fintrack/internal/sheets"
)

// CachedIndex keeps each year's mirrored-id set in memory so a burst of
// events reads the sheet once. Remember records ids appended since the load.
type CachedIndex struct {
	inner sheets.MirrorIndex
	cache cache.Cache[map[int64]bool]
	mu    sync.Mutex
}

func NewCachedIndex(inner sheets.MirrorIndex, c cache.Cache[map[int64]bool]) *CachedIndex {
	return &CachedIndex{inner: inner, cache: c}
}

// MirroredIDs returns a copy; callers may not mutate the cached set.
func (c *CachedIndex) MirroredIDs(ctx context.Context, year int) (map[int64]bool, error) {
	key := strconv.Itoa(year)
	c.mu.Lock()
	if ids, ok := c.cache.Get(key); ok {
		out := maps.Clone(ids)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	ids, err := c.inner.MirroredIDs(ctx, year)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = make(map[int64]bool)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Set(key, ids)
	return maps.Clone(ids), nil
}

// Remember marks id as mirrored in year when that year is cached.
func (c *CachedIndex) Remember(year int, id int64) {
	key := strconv.Itoa(year)
	c.mu.Lock()
	defer c.mu.Unlock()
	if ids, ok := c.cache.Get(key); ok {
		ids[id] = true
	}
}
