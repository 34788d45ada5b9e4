package lattice

import (
	"sync"
	"sync/atomic"
)

// control is the heap block behind a family of Shared and Weak handles.
// The strong count tracks owning references; the value is considered
// destroyed once the count reaches zero, even though Go's GC keeps the
// memory itself alive while any Weak still points here.
type control[T any] struct {
	mu     sync.RWMutex
	strong atomic.Int64
	value  T
}

// Shared is an owning, reference-counted handle to a lock-protected value.
// Every piece of state a listener may touch is held in a Shared cell: the
// lock arbitrates concurrent access and the count decides liveness.
//
// A Shared must not be used after Release.
type Shared[T any] struct {
	ctl      *control[T]
	released atomic.Bool
}

// NewShared creates a cell owning v with a strong count of one.
func NewShared[T any](v T) *Shared[T] {
	c := &control[T]{value: v}
	c.strong.Store(1)
	return &Shared[T]{ctl: c}
}

// Clone returns a new owning handle to the same cell, incrementing the
// strong count.
func (s *Shared[T]) Clone() *Shared[T] {
	s.ctl.strong.Add(1)
	return &Shared[T]{ctl: s.ctl}
}

// Release gives up this handle's ownership. When the last owning handle is
// released the value is destroyed: every Weak pointing at the cell stops
// upgrading. Releasing the same handle twice is a no-op.
func (s *Shared[T]) Release() {
	if s.released.Swap(true) {
		return
	}
	s.ctl.strong.Add(-1)
}

// Downgrade returns a non-owning handle to the same cell.
func (s *Shared[T]) Downgrade() Weak[T] {
	return Weak[T]{ctl: s.ctl}
}

// Lock acquires the cell's lock for writing and returns the value.
// Pair with Unlock.
func (s *Shared[T]) Lock() *T {
	s.ctl.mu.Lock()
	return &s.ctl.value
}

// Unlock releases the write lock.
func (s *Shared[T]) Unlock() {
	s.ctl.mu.Unlock()
}

// RLock acquires the cell's lock for reading and returns the value.
// Pair with RUnlock.
func (s *Shared[T]) RLock() *T {
	s.ctl.mu.RLock()
	return &s.ctl.value
}

// RUnlock releases a read lock.
func (s *Shared[T]) RUnlock() {
	s.ctl.mu.RUnlock()
}

// TryLock attempts to acquire the write lock without blocking.
func (s *Shared[T]) TryLock() (*T, bool) {
	if !s.ctl.mu.TryLock() {
		return nil, false
	}
	return &s.ctl.value, true
}

// TryRLock attempts to acquire a read lock without blocking.
func (s *Shared[T]) TryRLock() (*T, bool) {
	if !s.ctl.mu.TryRLock() {
		return nil, false
	}
	return &s.ctl.value, true
}

// Weak is a non-owning handle to a cell. It never keeps the value alive;
// any access first goes through Upgrade, which fails once the last owning
// handle has been released. The zero Weak never upgrades.
type Weak[T any] struct {
	ctl *control[T]
}

// Upgrade attempts to take a new owning handle to the cell. It succeeds
// only while at least one owning handle still exists; on success the caller
// owns the returned Shared and must Release it.
func (w Weak[T]) Upgrade() (*Shared[T], bool) {
	if w.ctl == nil {
		return nil, false
	}
	for {
		n := w.ctl.strong.Load()
		if n <= 0 {
			return nil, false
		}
		if w.ctl.strong.CompareAndSwap(n, n+1) {
			return &Shared[T]{ctl: w.ctl}, true
		}
	}
}

// Alive reports whether the cell still has at least one owning handle.
// Advisory only: the answer can change immediately after the call.
func (w Weak[T]) Alive() bool {
	return w.ctl != nil && w.ctl.strong.Load() > 0
}
