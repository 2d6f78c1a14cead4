package report

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/arthurrossibr/general-vision-simplified/internal/metrics"
	"github.com/arthurrossibr/general-vision-simplified/internal/store"
)

// Cache memoises reports by (snapshot ID, filter key). It only ever holds
// reports of one snapshot: a request for a different snapshot drops every
// earlier entry. Concurrent requests for the same key share one build.
type Cache struct {
	b *Builder

	mu       sync.Mutex
	snapshot string
	entries  map[string]*Report

	group singleflight.Group
}

// NewCache returns an empty cache over b.
func NewCache(b *Builder) *Cache {
	return &Cache{b: b, entries: make(map[string]*Report)}
}

// Get returns the report for (snap, filterKey), building it on a miss.
// Failed builds are not cached.
func (c *Cache) Get(ctx context.Context, snap *store.Snapshot, filterKey string) (*Report, error) {
	if snap == nil {
		return c.b.Build(ctx, snap, filterKey)
	}
	if r, ok := c.lookup(snap.ID, filterKey); ok {
		metrics.RecordCache(c.b.job, true)
		return r, nil
	}
	metrics.RecordCache(c.b.job, false)

	key := snap.ID + "\x00" + filterKey
	v, err, _ := c.group.Do(key, func() (any, error) {
		// Callers sharing this build may outlive the first one.
		r, err := c.b.Build(context.WithoutCancel(ctx), snap, filterKey)
		if err != nil {
			return nil, err
		}
		c.store(snap.ID, filterKey, r)
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

func (c *Cache) lookup(snapshot, filterKey string) (*Report, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snapshot != c.snapshot {
		c.snapshot = snapshot
		clear(c.entries)
		return nil, false
	}
	r, ok := c.entries[filterKey]
	return r, ok
}

func (c *Cache) store(snapshot, filterKey string, r *Report) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if snapshot != c.snapshot {
		// A newer snapshot arrived while building; keep the cache on it.
		return
	}
	c.entries[filterKey] = r
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Reset drops every entry.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = ""
	clear(c.entries)
}
