// Package ringchan provides a bounded channel with overwrite-oldest
// semantics. It backs the DUT serial log reader: a slow consumer must never
// stall serial reads, so when the buffer fills the oldest line is dropped.
package ringchan

import "sync/atomic"

// RingChannel wraps a buffered channel and guarantees that producers never
// block: if the buffer is full, the oldest element is discarded to make room.
type RingChannel[T any] struct {
	ch      chan T
	dropped atomic.Int64
}

// New creates a RingChannel with the given capacity. Capacity must be > 0.
func New[T any](capacity int) *RingChannel[T] {
	if capacity <= 0 {
		panic("ringchan: capacity must be > 0")
	}
	return &RingChannel[T]{ch: make(chan T, capacity)}
}

// C returns the underlying receive-only channel. Consumers can range over it
// until the channel is closed.
func (rc *RingChannel[T]) C() <-chan T {
	return rc.ch
}

// Send inserts an item, discarding the oldest buffered element if necessary.
// It never blocks indefinitely.
func (rc *RingChannel[T]) Send(v T) {
	select {
	case rc.ch <- v:
	default:
		select {
		case <-rc.ch:
			rc.dropped.Add(1)
		default:
		}
		rc.ch <- v
	}
}

// Receive blocks until a value is available or the channel is closed.
// The ok result is false if the channel is closed and drained.
func (rc *RingChannel[T]) Receive() (v T, ok bool) {
	v, ok = <-rc.ch
	return
}

// Len returns the number of buffered elements.
func (rc *RingChannel[T]) Len() int {
	return len(rc.ch)
}

// Cap returns the buffer capacity.
func (rc *RingChannel[T]) Cap() int {
	return cap(rc.ch)
}

// Dropped reports how many elements were overwritten since creation.
func (rc *RingChannel[T]) Dropped() int64 {
	return rc.dropped.Load()
}

// Close closes the underlying channel. Send panics after Close.
func (rc *RingChannel[T]) Close() {
	close(rc.ch)
}
