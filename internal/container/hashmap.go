package container

import (
	"errors"
	"fmt"
	"hash/maphash"
	"iter"
)

const (
	// DefaultCapacity is the initial bucket count when none is given.
	DefaultCapacity = 16

	// loadFactorThreshold is the size/capacity ratio above which the table
	// grows. The check uses the size as it stands before an insert is
	// applied, so growth triggers one insertion after the ratio is first
	// exceeded. This trigger point is relied on by callers sizing small
	// tables; do not move it after the insert.
	loadFactorThreshold = 0.75
)

// ErrKeyNotFound is returned by At for keys absent from the map.
var ErrKeyNotFound = errors.New("key not found")

// Entry is a key-value pair as returned by Items.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a hash table with separate chaining: each bucket is a linked list
// of entries whose keys hashed to the same index. The table doubles its
// bucket count when the load factor passes loadFactorThreshold and never
// shrinks. Keys are hashed with hash/maphash under a per-map seed, so a
// key's bucket index is stable within one map instance between resizes but
// nothing more.
//
// Expected O(1) per operation with a bounded load factor; O(n) when every
// key collides into one bucket. Not safe for concurrent mutation: callers
// needing shared access must serialize externally.
type Map[K comparable, V any] struct {
	buckets  []List[Entry[K, V]]
	capacity int
	size     int
	seed     maphash.Seed
}

// NewMap returns an empty map with DefaultCapacity buckets.
func NewMap[K comparable, V any]() *Map[K, V] {
	return NewMapCap[K, V](DefaultCapacity)
}

// NewMapCap returns an empty map with the given initial bucket count.
// Capacities below 1 are clamped to 1; capacity 1 forces every key into a
// single chain, which is handy for exercising collision handling.
func NewMapCap[K comparable, V any](capacity int) *Map[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Map[K, V]{
		buckets:  make([]List[Entry[K, V]], capacity),
		capacity: capacity,
		seed:     maphash.MakeSeed(),
	}
}

func (m *Map[K, V]) bucketIndex(key K) int {
	return int(maphash.Comparable(m.seed, key) % uint64(m.capacity))
}

// resize doubles the bucket count and rehashes every entry into the new
// table. Bindings are preserved; size is rebuilt from scratch so re-inserts
// cannot double-count.
func (m *Map[K, V]) resize() {
	old := m.buckets
	m.capacity *= 2
	m.buckets = make([]List[Entry[K, V]], m.capacity)
	m.size = 0

	for i := range old {
		for e := range old[i].All() {
			m.Put(e.Key, e.Value)
		}
	}
}

// Put inserts or overwrites the value for key. Overwriting leaves the size
// unchanged; a fresh key appends a new entry to its chain.
func (m *Map[K, V]) Put(key K, value V) {
	if float64(m.size)/float64(m.capacity) > loadFactorThreshold {
		m.resize()
	}

	bucket := &m.buckets[m.bucketIndex(key)]
	if bucket.UpdateFunc(func(e Entry[K, V]) bool { return e.Key == key }, Entry[K, V]{Key: key, Value: value}) {
		return
	}
	bucket.Append(Entry[K, V]{Key: key, Value: value})
	m.size++
}

// Get returns the value for key with a presence flag. Never resizes.
func (m *Map[K, V]) Get(key K) (V, bool) {
	bucket := &m.buckets[m.bucketIndex(key)]
	e, ok := bucket.Find(func(e Entry[K, V]) bool { return e.Key == key })
	if !ok {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// GetOr returns the value for key, or def if the key is absent.
func (m *Map[K, V]) GetOr(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	return def
}

// At returns the value for key or ErrKeyNotFound. This is the strict
// indexing contract; use Get for the tolerant comma-ok lookup.
func (m *Map[K, V]) At(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// Remove unlinks the entry for key and reports whether a removal happened.
// Removing an absent key is a no-op, not an error.
func (m *Map[K, V]) Remove(key K) bool {
	bucket := &m.buckets[m.bucketIndex(key)]
	if bucket.RemoveFunc(func(e Entry[K, V]) bool { return e.Key == key }) {
		m.size--
		return true
	}
	return false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// GetOrInsert returns the value for key if present; otherwise it inserts
// def and returns it.
func (m *Map[K, V]) GetOrInsert(key K, def V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	m.Put(key, def)
	return def
}

// Keys returns every key, in bucket order then chain insertion order. The
// slice is an independent copy.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, m.size)
	for i := range m.buckets {
		for e := range m.buckets[i].All() {
			out = append(out, e.Key)
		}
	}
	return out
}

// Values returns every value, in the same traversal order as Keys.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, m.size)
	for i := range m.buckets {
		for e := range m.buckets[i].All() {
			out = append(out, e.Value)
		}
	}
	return out
}

// Items returns every entry, in the same traversal order as Keys.
func (m *Map[K, V]) Items() []Entry[K, V] {
	out := make([]Entry[K, V], 0, m.size)
	for i := range m.buckets {
		for e := range m.buckets[i].All() {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	return m.size
}

// Cap returns the current bucket count.
func (m *Map[K, V]) Cap() int {
	return m.capacity
}

// All iterates entries in the same traversal order as Keys. The map must
// not be mutated during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for i := range m.buckets {
			for e := range m.buckets[i].All() {
				if !yield(e.Key, e.Value) {
					return
				}
			}
		}
	}
}
