package service

import (
	"sync"

	"github.com/fieldday/combine/internal/domain/model"
)

// statsCache memoizes cohort statistics keyed by cohort and roster version.
// A cached entry is valid only while the store stays at the version it was
// computed from; stale entries are overwritten on the next put. The cache
// exists so a rapid sequence of weight-slider recomputations never re-scans
// the roster.
type statsCache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]statsEntry
}

type statsEntry struct {
	version uint64
	stats   model.CohortStats
}

func newStatsCache(maxEntries int) *statsCache {
	return &statsCache{
		maxEntries: maxEntries,
		entries:    make(map[string]statsEntry, maxEntries),
	}
}

func (c *statsCache) get(key string, version uint64) (model.CohortStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.version != version {
		return nil, false
	}
	return entry.stats, true
}

func (c *statsCache) put(key string, version uint64, stats model.CohortStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Version churn invalidates every entry together, so wholesale reset
	// is as good as LRU here and far simpler.
	if len(c.entries) >= c.maxEntries {
		if _, ok := c.entries[key]; !ok {
			c.entries = make(map[string]statsEntry, c.maxEntries)
		}
	}
	c.entries[key] = statsEntry{version: version, stats: stats}
}

func (c *statsCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
