package lattice

import (
	"errors"
	"testing"
)

// --- acquireAll protocol ---

func TestAcquireAllSuccessOrder(t *testing.T) {
	a := NewShared("a")
	b := NewShared(2)
	defer a.Release()
	defer b.Release()

	vals, release, err := acquireAll(Read(a.Downgrade()), Write(b.Downgrade()))
	if err != nil {
		t.Fatalf("acquireAll failed: %v", err)
	}
	if got := *vals[0].(*string); got != "a" {
		t.Errorf("vals[0] = %q, want \"a\"", got)
	}
	*vals[1].(*int) = 3
	release()

	if got := *b.RLock(); got != 3 {
		t.Errorf("write through capability lost: %d", got)
	}
	b.RUnlock()
}

func TestAcquireAllFirstDeleted(t *testing.T) {
	a := NewShared(1)
	b := NewShared(2)
	defer b.Release()
	wa := a.Downgrade()
	a.Release()

	// Even with the second capability contended, the first failed upgrade
	// decides the outcome.
	pb := b.Lock()
	defer b.Unlock()
	_ = pb

	_, _, err := acquireAll(Write(wa), Write(b.Downgrade()))
	if !errors.Is(err, ErrRequirementDeleted) {
		t.Errorf("err = %v, want ErrRequirementDeleted", err)
	}
}

func TestAcquireAllFirstContendedShortCircuits(t *testing.T) {
	a := NewShared(1)
	b := NewShared(2)
	defer a.Release()
	wb := b.Downgrade()
	b.Release()

	// The first capability upgrades but cannot lock; the second (deleted)
	// is never attempted, so the outcome stays recoverable.
	pa := a.Lock()
	defer a.Unlock()
	_ = pa

	_, _, err := acquireAll(Write(a.Downgrade()), Write(wb))
	if !errors.Is(err, ErrLockUnavailable) {
		t.Errorf("err = %v, want ErrLockUnavailable", err)
	}
}

func TestAcquireAllReleasesHeldLocksOnFailure(t *testing.T) {
	a := NewShared(1)
	defer a.Release()
	b := NewShared(2)
	wb := b.Downgrade()
	b.Release()

	_, _, err := acquireAll(Write(a.Downgrade()), Write(wb))
	if !errors.Is(err, ErrRequirementDeleted) {
		t.Fatalf("err = %v, want ErrRequirementDeleted", err)
	}

	// The first capability's lock must have been released on the way out.
	if _, ok := a.TryLock(); !ok {
		t.Error("first capability's lock left held after a failed acquisition")
	} else {
		a.Unlock()
	}
}

// --- Listen bindings ---

func TestListenAllOrNothing(t *testing.T) {
	h := NewHandler[TickEvent](WithRetryPolicy(fastRetry))
	a := NewShared(0)
	defer a.Release()
	b := NewShared(0)
	wb := b.Downgrade()
	b.Release()

	ran := false
	Listen2(h, Write(a.Downgrade()), Write(wb), func(e *TickEvent, x, y *int) {
		ran = true
	})

	h.Handle(TickEvent{})
	if ran {
		t.Error("callback ran despite a deleted capability")
	}
	if h.Len() != 0 {
		t.Error("listener with a deleted capability was not evicted")
	}
	if _, ok := a.TryLock(); !ok {
		t.Error("surviving capability's lock left held")
	} else {
		a.Unlock()
	}
}

func TestListenDeclarationOrderDelivery(t *testing.T) {
	h := NewHandler[TickEvent](WithRetryPolicy(fastRetry))
	a := NewShared("first")
	b := NewShared(2)
	c := NewShared(3.0)
	defer a.Release()
	defer b.Release()
	defer c.Release()

	var gotA string
	var gotB int
	var gotC float64
	Listen3(h, Read(a.Downgrade()), Read(b.Downgrade()), Write(c.Downgrade()),
		func(e *TickEvent, x *string, y *int, z *float64) {
			gotA, gotB, gotC = *x, *y, *z
			*z = 4.0
		})

	h.Handle(TickEvent{})
	if gotA != "first" || gotB != 2 || gotC != 3.0 {
		t.Errorf("callback got (%q, %d, %v), want (\"first\", 2, 3)", gotA, gotB, gotC)
	}
	if got := *c.RLock(); got != 4.0 {
		t.Errorf("write capability value = %v, want 4", got)
	}
	c.RUnlock()
}

func TestListenReadAllowsConcurrentReaders(t *testing.T) {
	h := NewHandler[TickEvent](WithRetryPolicy(fastRetry))
	cell := NewShared(9)
	defer cell.Release()

	runs := NewShared(0)
	defer runs.Release()

	// An external read hold does not contend with a read capability.
	p := cell.RLock()
	defer cell.RUnlock()
	_ = p

	Listen2(h, Read(cell.Downgrade()), Write(runs.Downgrade()),
		func(e *TickEvent, v *int, n *int) {
			if *v == 9 {
				*n++
			}
		})

	h.Handle(TickEvent{})
	if got := *runs.RLock(); got != 1 {
		t.Errorf("read-capability listener ran %d times under a shared hold, want 1", got)
	}
	runs.RUnlock()
}

func TestListenSelfCapabilityEvictsWithOwner(t *testing.T) {
	h := NewHandler[TickEvent](WithRetryPolicy(fastRetry))

	type state struct{ ticks int }
	cell := NewShared(state{})
	Listen(h, Write(cell.Downgrade()), func(e *TickEvent, s *state) { s.ticks++ })

	h.Handle(TickEvent{})
	if h.Len() != 1 {
		t.Fatal("listener evicted while its state is owned")
	}

	cell.Release()
	h.Handle(TickEvent{})
	if h.Len() != 0 {
		t.Error("listener survived its state's destruction")
	}
}
