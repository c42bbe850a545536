// Package repository is the in-memory store for stations and observations,
// built on the container package's hash map and linked list rather than the
// built-in map.
package repository

import (
	"slices"
	"sync"

	"github.com/odsmeteo/meteo-toulouse/internal/container"
	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
)

// Repository stores station metadata and per-station observation sequences.
// Observations are append-only with no eviction; callers wanting bounded
// memory must layer their own retention.
//
// The containers themselves are not synchronized; the repository serializes
// access with one RWMutex so it can be shared between the refresh scheduler
// and the HTTP handlers.
type Repository struct {
	mu       sync.RWMutex
	stations *container.Map[string, meteo.Station]
	records  *container.Map[string, *container.List[meteo.Record]]
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{
		stations: container.NewMap[string, meteo.Station](),
		records:  container.NewMap[string, *container.List[meteo.Record]](),
	}
}

// UpsertStation inserts or replaces the station keyed by its ID and makes
// sure an observation sequence exists for it. Idempotent.
func (r *Repository) UpsertStation(st meteo.Station) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stations.Put(st.ID, st)
	if !r.records.Contains(st.ID) {
		r.records.Put(st.ID, container.NewList[meteo.Record]())
	}
}

// Station returns the station for id, with a presence flag.
func (r *Repository) Station(id string) (meteo.Station, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.stations.Get(id)
}

// Stations returns every known station. The order is the backing map's
// bucket-traversal order; callers must not assume anything beyond "each
// station exactly once".
func (r *Repository) Stations() []meteo.Station {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.stations.Values()
}

// AddRecord appends an observation for a station id. The sequence is
// created on the fly for ids never upserted; there is no referential check
// against the station map.
func (r *Repository) AddRecord(stationID string, rec meteo.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.records.Get(stationID)
	if !ok {
		list = container.NewList[meteo.Record]()
		r.records.Put(stationID, list)
	}
	list.Append(rec)
}

// RecordCount returns the number of stored observations for a station.
func (r *Repository) RecordCount(stationID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.records.Get(stationID)
	if !ok {
		return 0
	}
	return list.Len()
}

// LatestRecords returns up to n observations for a station, newest first.
// Records without a timestamp sort after every timestamped record. The sort
// is stable: equal timestamps keep their insertion order.
func (r *Repository) LatestRecords(stationID string, n int) []meteo.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list, ok := r.records.Get(stationID)
	if !ok {
		return nil
	}

	all := list.ToSlice()
	slices.SortStableFunc(all, func(a, b meteo.Record) int {
		switch {
		case newer(a, b):
			return -1
		case newer(b, a):
			return 1
		default:
			return 0
		}
	})
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// newer reports whether a is strictly more recent than b. A missing
// timestamp is never newer than anything.
func newer(a, b meteo.Record) bool {
	if a.Timestamp.IsZero() {
		return false
	}
	if b.Timestamp.IsZero() {
		return true
	}
	return a.Timestamp.After(b.Timestamp)
}
