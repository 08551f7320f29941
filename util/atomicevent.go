package util

import (
	"sync"
)

// AtomicEvent is a coalescing wake signal that carries the latest value of
// type T. Send replaces the stored value and raises the notification; a raise
// while one is already pending is absorbed, so a consumer that was busy
// receives exactly one wake, not one per Send. The stored value is replaced
// as a whole under the lock, so a reader never observes a partially updated
// snapshot.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	notify chan struct{} // capacity 1: at most one pending wake
}

func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{
		notify: make(chan struct{}, 1),
	}
}

// Send publishes event as the new snapshot and raises the wake signal.
// It never blocks.
func (ae *AtomicEvent[T]) Send(event T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value = event

	select {
	case ae.notify <- struct{}{}:
	default:
		// A wake is already pending, this one coalesces into it.
	}
}

// Channel returns the notification channel for use in select statements.
// Receiving from it consumes the pending wake.
func (ae *AtomicEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

// Value returns the latest published snapshot.
func (ae *AtomicEvent[T]) Value() T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value
}

// HasPending reports whether a wake is waiting to be consumed without
// consuming it.
func (ae *AtomicEvent[T]) HasPending() bool {
	return len(ae.notify) > 0
}
