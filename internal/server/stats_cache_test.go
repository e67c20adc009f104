package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/clockedin/clockedin/internal/meetings"
)

func TestStatsCacheRoundTrip(t *testing.T) {
	cache := NewStatsCache(5 * time.Minute)

	summary := meetings.StatsSummary{
		TotalMeetings: 3,
		TotalHours:    2,
		TotalMinutes:  15,
		Meetings:      []meetings.MeetingEntry{},
	}
	cache.Put("principal-1", summary)

	got, ok := cache.Get("principal-1")
	assert.True(t, ok)
	assert.Equal(t, summary, got)
}

func TestStatsCacheMissForUnknownPrincipal(t *testing.T) {
	cache := NewStatsCache(5 * time.Minute)

	_, ok := cache.Get("nobody")
	assert.False(t, ok)
}

func TestStatsCacheExpiry(t *testing.T) {
	cache := NewStatsCache(5 * time.Minute)

	current := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	cache.Put("principal-1", meetings.StatsSummary{TotalMeetings: 1})

	// Just inside the freshness window.
	current = current.Add(5*time.Minute - time.Second)
	_, ok := cache.Get("principal-1")
	assert.True(t, ok)

	// Exactly at the TTL the entry is stale.
	current = current.Add(time.Second)
	_, ok = cache.Get("principal-1")
	assert.False(t, ok)

	// Stale entries stay in place until overwritten.
	assert.Equal(t, 1, cache.Len())
}

func TestStatsCachePutOverwrites(t *testing.T) {
	cache := NewStatsCache(5 * time.Minute)

	cache.Put("principal-1", meetings.StatsSummary{TotalMeetings: 1})
	cache.Put("principal-1", meetings.StatsSummary{TotalMeetings: 7})

	got, ok := cache.Get("principal-1")
	assert.True(t, ok)
	assert.Equal(t, 7, got.TotalMeetings)
	assert.Equal(t, 1, cache.Len())
}

func TestStatsCacheEntriesAreIndependent(t *testing.T) {
	cache := NewStatsCache(5 * time.Minute)

	cache.Put("principal-1", meetings.StatsSummary{TotalMeetings: 1})
	cache.Put("principal-2", meetings.StatsSummary{TotalMeetings: 2})

	cache.Invalidate("principal-1")

	_, ok := cache.Get("principal-1")
	assert.False(t, ok)

	got, ok := cache.Get("principal-2")
	assert.True(t, ok)
	assert.Equal(t, 2, got.TotalMeetings)
}

func TestStatsCacheInvalidateMissingPrincipal(t *testing.T) {
	cache := NewStatsCache(5 * time.Minute)

	// Invalidating an absent principal is a no-op.
	cache.Invalidate("nobody")
	assert.Equal(t, 0, cache.Len())
}

func TestStatsCacheZeroTTLUsesDefault(t *testing.T) {
	cache := NewStatsCache(0)
	assert.Equal(t, DefaultStatsTTL, cache.ttl)
}
