package repository

import (
	"sync"
	"time"

	"github.com/odsmeteo/meteo-toulouse/internal/container"
)

// CacheInfo is a diagnostic snapshot of one station's TTL state.
type CacheInfo struct {
	Cached        bool      `json:"cached"`
	LastLoad      time.Time `json:"lastLoad,omitzero"`
	TimeRemaining string    `json:"timeRemaining,omitempty"`
	Expired       bool      `json:"expired"`
}

// TTLCache tracks, per station, when its observations were last refreshed,
// and answers whether a caller should re-fetch before querying. It does no
// fetching itself and evicts nothing on a schedule; expiry is purely a
// check at read time.
//
// There is deliberately no lock spanning NeedsRefresh, the caller's fetch
// and MarkRefreshed: two callers may both decide to refresh and both fetch.
// That costs duplicate work, not corruption, because record insertion is
// append-only and station upserts are idempotent.
type TTLCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	lastLoad *container.Map[string, time.Time]
	now      func() time.Time
}

// NewTTLCache returns a cache with the given time-to-live.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:      ttl,
		lastLoad: container.NewMap[string, time.Time](),
		now:      time.Now,
	}
}

// TTL returns the configured time-to-live.
func (c *TTLCache) TTL() time.Duration {
	return c.ttl
}

// NeedsRefresh reports whether stationID has never been marked refreshed,
// or was marked longer ago than the TTL.
func (c *TTLCache) NeedsRefresh(stationID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.lastLoad.Get(stationID)
	if !ok {
		return true
	}
	return c.now().Sub(last) > c.ttl
}

// MarkRefreshed records "now" as the last refresh time for stationID,
// restarting its TTL window.
func (c *TTLCache) MarkRefreshed(stationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastLoad.Put(stationID, c.now())
}

// Invalidate drops the bookkeeping entry for one station, so its next
// NeedsRefresh is true.
func (c *TTLCache) Invalidate(stationID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastLoad.Remove(stationID)
}

// InvalidateAll drops the bookkeeping for every station.
func (c *TTLCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastLoad = container.NewMap[string, time.Time]()
}

// Info returns the cache state for one station. TimeRemaining is a
// formatted duration while the entry is fresh, the literal "expired" once
// it is not.
func (c *TTLCache) Info(stationID string) CacheInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	last, ok := c.lastLoad.Get(stationID)
	if !ok {
		return CacheInfo{Cached: false, Expired: true}
	}

	remaining := c.ttl - c.now().Sub(last)
	info := CacheInfo{
		Cached:   true,
		LastLoad: last,
		Expired:  remaining <= 0,
	}
	if info.Expired {
		info.TimeRemaining = "expired"
	} else {
		info.TimeRemaining = remaining.Round(time.Millisecond).String()
	}
	return info
}
