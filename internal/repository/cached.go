package repository

import "time"

// CachedRepository pairs a plain Repository with a TTLCache. The cache is a
// separate component composed in, not a subtype: the store and the refresh
// bookkeeping stay independent, and either can be used alone.
type CachedRepository struct {
	*Repository
	cache *TTLCache
}

// NewCached returns a repository whose per-station refresh state expires
// after ttl.
func NewCached(ttl time.Duration) *CachedRepository {
	return &CachedRepository{
		Repository: New(),
		cache:      NewTTLCache(ttl),
	}
}

// NeedsRefresh reports whether the station's observations should be
// re-fetched before querying.
func (r *CachedRepository) NeedsRefresh(stationID string) bool {
	return r.cache.NeedsRefresh(stationID)
}

// MarkRefreshed resets the station's TTL window.
func (r *CachedRepository) MarkRefreshed(stationID string) {
	r.cache.MarkRefreshed(stationID)
}

// ClearCache invalidates the refresh state for the given stations, or for
// every station when called with no arguments.
func (r *CachedRepository) ClearCache(stationIDs ...string) {
	if len(stationIDs) == 0 {
		r.cache.InvalidateAll()
		return
	}
	for _, id := range stationIDs {
		r.cache.Invalidate(id)
	}
}

// CacheInfo returns the diagnostic cache snapshot for one station.
func (r *CachedRepository) CacheInfo(stationID string) CacheInfo {
	return r.cache.Info(stationID)
}
