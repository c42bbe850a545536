package container

import "iter"

// Queue is a FIFO queue over linked nodes with a tail pointer, so Enqueue,
// Dequeue and Peek are all O(1). The zero value is an empty queue. Not safe
// for concurrent mutation.
type Queue[T any] struct {
	head *node[T]
	tail *node[T]
	size int
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Enqueue adds v at the back of the queue.
func (q *Queue[T]) Enqueue(v T) {
	n := &node[T]{value: v}
	if q.tail == nil {
		q.head = n
		q.tail = n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.size++
}

// Dequeue removes and returns the front element, or false if the queue is
// empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	var zero T
	if q.head == nil {
		return zero, false
	}
	v := q.head.value
	q.head = q.head.next
	if q.head == nil {
		q.tail = nil
	}
	q.size--
	return v, true
}

// Peek returns the front element without removing it, or false if the queue
// is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if q.head == nil {
		var zero T
		return zero, false
	}
	return q.head.value, true
}

// Rotate moves the front element to the back. A no-op for queues with fewer
// than two elements. Used for round-robin traversal of stations.
func (q *Queue[T]) Rotate() {
	if q.size <= 1 {
		return
	}
	v, _ := q.Dequeue()
	q.Enqueue(v)
}

// Len returns the number of elements.
func (q *Queue[T]) Len() int {
	return q.size
}

// IsEmpty reports whether the queue has no elements.
func (q *Queue[T]) IsEmpty() bool {
	return q.head == nil
}

// All iterates the queue front to back without consuming it.
func (q *Queue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for cur := q.head; cur != nil; cur = cur.next {
			if !yield(cur.value) {
				return
			}
		}
	}
}

// ToSlice copies the queue front to back into a fresh slice.
func (q *Queue[T]) ToSlice() []T {
	out := make([]T, 0, q.size)
	for cur := q.head; cur != nil; cur = cur.next {
		out = append(out, cur.value)
	}
	return out
}
