package recommendation

import "sync"

// RingBuffer is a fixed-capacity buffer that overwrites the oldest entry
// once full.
type RingBuffer[T any] struct {
	mu       sync.RWMutex
	entries  []T
	head     int
	count    int
	capacity int
}

func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{
		entries:  make([]T, capacity),
		capacity: capacity,
	}
}

func (rb *RingBuffer[T]) Push(entry T) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.entries[rb.head] = entry
	rb.head = (rb.head + 1) % rb.capacity
	if rb.count < rb.capacity {
		rb.count++
	}
}

// All returns the entries oldest first.
func (rb *RingBuffer[T]) All() []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	out := make([]T, rb.count)
	start := (rb.head - rb.count + rb.capacity) % rb.capacity
	for i := 0; i < rb.count; i++ {
		out[i] = rb.entries[(start+i)%rb.capacity]
	}
	return out
}

// Last returns up to n of the newest entries, newest first.
func (rb *RingBuffer[T]) Last(n int) []T {
	rb.mu.RLock()
	defer rb.mu.RUnlock()

	if n > rb.count {
		n = rb.count
	}
	out := make([]T, n)
	for i := 0; i < n; i++ {
		out[i] = rb.entries[(rb.head-1-i+rb.capacity)%rb.capacity]
	}
	return out
}

func (rb *RingBuffer[T]) Len() int {
	rb.mu.RLock()
	defer rb.mu.RUnlock()
	return rb.count
}

func (rb *RingBuffer[T]) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	var zero T
	for i := range rb.entries {
		rb.entries[i] = zero
	}
	rb.head = 0
	rb.count = 0
}
