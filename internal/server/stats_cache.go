package server

import (
	"sync"
	"time"

	"github.com/clockedin/clockedin/internal/meetings"
)

// DefaultStatsTTL is the freshness window after which a cached summary
// must not be served.
const DefaultStatsTTL = 5 * time.Minute

// statsEntry pairs a cached summary with the time it was stored.
type statsEntry struct {
	summary  meetings.StatsSummary
	storedAt time.Time
}

// StatsCache holds the last aggregated summary per principal. An entry is
// served only while younger than the TTL; an expired entry behaves as a
// miss and is left in place for the next Put to overwrite. Entries are
// independent per principal, so no cross-principal coordination exists.
type StatsCache struct {
	mu      sync.RWMutex
	entries map[string]statsEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewStatsCache creates a cache with the given freshness window.
func NewStatsCache(ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = DefaultStatsTTL
	}
	return &StatsCache{
		entries: make(map[string]statsEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached summary for the principal if one exists and is
// still fresh.
func (c *StatsCache) Get(principalID string) (meetings.StatsSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[principalID]
	if !ok || c.now().Sub(entry.storedAt) >= c.ttl {
		return meetings.StatsSummary{}, false
	}
	return entry.summary, true
}

// Put stores the summary for the principal, unconditionally overwriting
// any previous entry with a fresh timestamp. Concurrent writers for the
// same principal are last-writer-wins, which is safe because every write
// carries a complete summary.
func (c *StatsCache) Put(principalID string, summary meetings.StatsSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[principalID] = statsEntry{
		summary:  summary,
		storedAt: c.now(),
	}
}

// Invalidate removes the principal's entry. Called when the owning
// credential is removed from the token store.
func (c *StatsCache) Invalidate(principalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, principalID)
}

// Len returns the number of entries currently held, fresh or not.
func (c *StatsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
