// Package container holds the hand-rolled data structures backing the
// in-memory weather repository: a singly linked list, a FIFO queue built on
// the same nodes, and a chained hash map.
package container

import "iter"

// node is a single cell of a List or Queue.
type node[T any] struct {
	value T
	next  *node[T]
}

// List is a singly linked sequence. The zero value is an empty list ready
// to use. It is not safe for concurrent mutation.
type List[T any] struct {
	head *node[T]
	size int
}

// NewList returns an empty list.
func NewList[T any]() *List[T] {
	return &List[T]{}
}

// Append adds v at the end of the list. O(n): walks to the tail.
func (l *List[T]) Append(v T) {
	n := &node[T]{value: v}
	if l.head == nil {
		l.head = n
	} else {
		cur := l.head
		for cur.next != nil {
			cur = cur.next
		}
		cur.next = n
	}
	l.size++
}

// Prepend adds v at the front of the list. O(1).
func (l *List[T]) Prepend(v T) {
	l.head = &node[T]{value: v, next: l.head}
	l.size++
}

// Get returns the element at index (0-based), or false if out of range.
func (l *List[T]) Get(index int) (T, bool) {
	var zero T
	if index < 0 || index >= l.size {
		return zero, false
	}
	cur := l.head
	for i := 0; i < index; i++ {
		cur = cur.next
	}
	return cur.value, true
}

// Find returns the first element satisfying match, or false if none does.
func (l *List[T]) Find(match func(T) bool) (T, bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if match(cur.value) {
			return cur.value, true
		}
	}
	var zero T
	return zero, false
}

// RemoveFunc unlinks the first element satisfying match and reports whether
// a removal happened.
func (l *List[T]) RemoveFunc(match func(T) bool) bool {
	if l.head == nil {
		return false
	}
	if match(l.head.value) {
		l.head = l.head.next
		l.size--
		return true
	}
	for cur := l.head; cur.next != nil; cur = cur.next {
		if match(cur.next.value) {
			cur.next = cur.next.next
			l.size--
			return true
		}
	}
	return false
}

// UpdateFunc replaces the first element satisfying match with v and reports
// whether an element was replaced.
func (l *List[T]) UpdateFunc(match func(T) bool, v T) bool {
	for cur := l.head; cur != nil; cur = cur.next {
		if match(cur.value) {
			cur.value = v
			return true
		}
	}
	return false
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	return l.size
}

// IsEmpty reports whether the list has no elements.
func (l *List[T]) IsEmpty() bool {
	return l.head == nil
}

// All iterates the list front to back.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for cur := l.head; cur != nil; cur = cur.next {
			if !yield(cur.value) {
				return
			}
		}
	}
}

// ToSlice copies the list into a fresh slice.
func (l *List[T]) ToSlice() []T {
	out := make([]T, 0, l.size)
	for cur := l.head; cur != nil; cur = cur.next {
		out = append(out, cur.value)
	}
	return out
}

// Remove unlinks the first element equal to v and reports whether a removal
// happened. Element types must support equality, hence the free function.
func Remove[T comparable](l *List[T], v T) bool {
	return l.RemoveFunc(func(x T) bool { return x == v })
}

// Contains reports whether v is present in the list.
func Contains[T comparable](l *List[T], v T) bool {
	_, ok := l.Find(func(x T) bool { return x == v })
	return ok
}
