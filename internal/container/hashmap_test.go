package container

import (
	"errors"
	"fmt"
	"testing"
)

func TestPutGet(t *testing.T) {
	m := NewMap[string, int]()

	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("a", 3)

	if m.Len() != 2 {
		t.Errorf("expected len 2, got %d", m.Len())
	}
	if v, ok := m.Get("a"); !ok || v != 3 {
		t.Errorf("expected a=3, got %d (present=%v)", v, ok)
	}
	if v, ok := m.Get("b"); !ok || v != 2 {
		t.Errorf("expected b=2, got %d (present=%v)", v, ok)
	}
}

func TestGetMissing(t *testing.T) {
	m := NewMap[string, int]()

	if _, ok := m.Get("nope"); ok {
		t.Error("expected missing key to report absent")
	}
	if m.Contains("nope") {
		t.Error("expected Contains to be false for missing key")
	}
	if v := m.GetOr("nope", 42); v != 42 {
		t.Errorf("expected default 42, got %d", v)
	}
}

func TestAt(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)

	v, err := m.At("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %d", v)
	}

	_, err = m.At("missing")
	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestOverwriteKeepsLen(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("k", 1)

	for i := 0; i < 10; i++ {
		m.Put("k", i)
	}

	if m.Len() != 1 {
		t.Errorf("expected len 1 after overwrites, got %d", m.Len())
	}
	if v, _ := m.Get("k"); v != 9 {
		t.Errorf("expected last-written value 9, got %d", v)
	}
}

func TestRemove(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	if !m.Remove("a") {
		t.Error("expected Remove of present key to report true")
	}
	if m.Contains("a") {
		t.Error("expected a to be gone after Remove")
	}
	if m.Len() != 1 {
		t.Errorf("expected len 1 after Remove, got %d", m.Len())
	}

	if m.Remove("a") {
		t.Error("expected Remove of absent key to report false")
	}
	if m.Len() != 1 {
		t.Errorf("expected len unchanged by no-op Remove, got %d", m.Len())
	}
}

func TestResizePreservesBindings(t *testing.T) {
	// N=50 from capacity 4 crosses the threshold several times.
	m := NewMapCap[string, int](4)

	for i := 0; i < 50; i++ {
		m.Put(fmt.Sprintf("key_%d", i), i)
	}

	if m.Len() != 50 {
		t.Fatalf("expected len 50, got %d", m.Len())
	}
	for i := 0; i < 50; i++ {
		v, ok := m.Get(fmt.Sprintf("key_%d", i))
		if !ok {
			t.Fatalf("key_%d lost after resize", i)
		}
		if v != i {
			t.Errorf("key_%d: expected %d, got %d", i, i, v)
		}
	}
	if m.Cap() <= 4 {
		t.Errorf("expected capacity to have grown past 4, got %d", m.Cap())
	}
}

func TestResizeDoubling(t *testing.T) {
	m := NewMapCap[string, int](4)

	for i := 0; i < 20; i++ {
		m.Put(fmt.Sprintf("key_%d", i), i)
	}

	if m.Len() != 20 {
		t.Errorf("expected len 20, got %d", m.Len())
	}
	for i := 0; i < 20; i++ {
		if v, _ := m.Get(fmt.Sprintf("key_%d", i)); v != i {
			t.Errorf("key_%d: expected %d, got %d", i, i, v)
		}
	}
	// Capacity only grows by doubling: 4 -> 8 -> 16 -> 32.
	if m.Cap() != 32 {
		t.Errorf("expected capacity 32 after 20 inserts from 4, got %d", m.Cap())
	}
}

func TestSingleBucketCollisions(t *testing.T) {
	// Starting from capacity 1 keeps the table saturated, so keys share
	// buckets and every lookup walks a chain.
	m := NewMapCap[string, int](1)

	keys := []string{"x", "y", "z", "w", "v", "u"}
	for i, k := range keys {
		m.Put(k, (i+1)*10)
	}

	for i, k := range keys {
		if v, ok := m.Get(k); !ok || v != (i+1)*10 {
			t.Errorf("expected %s=%d, got %d (present=%v)", k, (i+1)*10, v, ok)
		}
	}

	if !m.Remove("x") {
		t.Error("expected Remove x to succeed")
	}
	for i, k := range keys[1:] {
		if v, _ := m.Get(k); v != (i+2)*10 {
			t.Errorf("expected %s to survive removal of chain neighbour, got %d", k, v)
		}
	}
}

func TestKeysValuesItemsConsistent(t *testing.T) {
	m := NewMap[string, int]()
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		m.Put(k, v)
	}

	keys := m.Keys()
	values := m.Values()
	items := m.Items()

	if len(keys) != m.Len() || len(values) != m.Len() || len(items) != m.Len() {
		t.Fatalf("snapshot lengths %d/%d/%d do not match len %d",
			len(keys), len(values), len(items), m.Len())
	}

	// Keys, Values and Items share one traversal order.
	for i, it := range items {
		if keys[i] != it.Key || values[i] != it.Value {
			t.Errorf("index %d: keys/values disagree with items", i)
		}
		if want[it.Key] != it.Value {
			t.Errorf("unexpected pair %s=%d", it.Key, it.Value)
		}
	}

	// Snapshots are independent copies.
	keys[0] = "mutated"
	for _, k := range m.Keys() {
		if k == "mutated" {
			t.Error("mutating the returned slice must not affect the map")
		}
	}
}

func TestGetOrInsert(t *testing.T) {
	m := NewMap[string, int]()

	if v := m.GetOrInsert("a", 7); v != 7 {
		t.Errorf("expected inserted default 7, got %d", v)
	}
	if v := m.GetOrInsert("a", 99); v != 7 {
		t.Errorf("expected existing value 7, got %d", v)
	}
	if m.Len() != 1 {
		t.Errorf("expected len 1, got %d", m.Len())
	}
}

func TestIterationMatchesKeys(t *testing.T) {
	m := NewMapCap[string, int](2)
	for i := 0; i < 8; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}

	keys := m.Keys()
	i := 0
	for k, v := range m.All() {
		if keys[i] != k {
			t.Errorf("iteration order diverges from Keys at %d: %s vs %s", i, k, keys[i])
		}
		if got, _ := m.Get(k); got != v {
			t.Errorf("iteration yielded stale value for %s", k)
		}
		i++
	}
	if i != m.Len() {
		t.Errorf("iteration yielded %d entries, want %d", i, m.Len())
	}
}

func TestIntKeys(t *testing.T) {
	m := NewMapCap[int, string](4)
	for i := 0; i < 100; i++ {
		m.Put(i, fmt.Sprintf("v%d", i))
	}
	if m.Len() != 100 {
		t.Fatalf("expected len 100, got %d", m.Len())
	}
	for i := 0; i < 100; i++ {
		if v, _ := m.Get(i); v != fmt.Sprintf("v%d", i) {
			t.Errorf("key %d: got %q", i, v)
		}
	}
}
