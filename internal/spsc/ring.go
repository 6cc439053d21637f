// Package spsc provides a bounded single-producer single-consumer queue
// for handing values between a control goroutine and an audio goroutine
// without locks or allocation.
package spsc

import "sync/atomic"

// Ring is a fixed-capacity FIFO. TryPush may be called from one goroutine
// and TryPop from one other goroutine concurrently; Len and Cap are safe
// from either.
type Ring[T any] struct {
	buf  []T
	mask uint64

	// head is the next slot to pop, owned by the consumer.
	head atomic.Uint64
	// tail is the next slot to push, owned by the producer.
	tail atomic.Uint64
}

// New returns a ring holding at least capacity values. Capacity is rounded
// up to a power of two; values below 1 become 1.
func New[T any](capacity int) *Ring[T] {
	size := 1
	for size < capacity {
		size <<= 1
	}

	return &Ring[T]{
		buf:  make([]T, size),
		mask: uint64(size - 1),
	}
}

// Cap returns the ring capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }

// Len returns the number of queued values. The result is a snapshot when
// the other side is active.
func (r *Ring[T]) Len() int {
	tail := r.tail.Load()
	head := r.head.Load()

	return int(tail - head)
}

// TryPush appends v and reports whether there was room.
func (r *Ring[T]) TryPush(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}

	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)

	return true
}

// TryPop removes the oldest value and reports whether one was queued.
func (r *Ring[T]) TryPop() (T, bool) {
	var zero T

	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}

	slot := head & r.mask
	v := r.buf[slot]
	r.buf[slot] = zero
	r.head.Store(head + 1)

	return v, true
}
