package lattice

// Mode says how a capability locks its cell.
type Mode uint8

const (
	// ModeRead acquires the cell's lock shared. The callback receives the
	// value pointer for reading and must not mutate through it.
	ModeRead Mode = iota
	// ModeWrite acquires the cell's lock exclusive.
	ModeWrite
)

// Cap declares one piece of shared state a listener needs before its
// callback may run: a weak handle to the cell plus the lock mode. Build
// with Read or Write and pass to Listen/Listen2/Listen3/Listen4.
//
// By declaring its own state cell as one of its capabilities, a component
// ties its listener's lifetime to its own: once the component's owner drops
// it, the listener evicts on the next dispatch.
type Cap[T any] struct {
	ref  Weak[T]
	mode Mode
}

// Read declares a read capability on the cell behind w.
func Read[T any](w Weak[T]) Cap[T] {
	return Cap[T]{ref: w, mode: ModeRead}
}

// Write declares a write capability on the cell behind w.
func Write[T any](w Weak[T]) Cap[T] {
	return Cap[T]{ref: w, mode: ModeWrite}
}

// capStep erases the element type so one acquisition routine can run over an
// ordered capability list. try returns the borrowed value pointer and a
// release func on success.
type capStep interface {
	try() (any, func(), error)
}

func (c Cap[T]) try() (any, func(), error) {
	s, ok := c.ref.Upgrade()
	if !ok {
		return nil, nil, ErrRequirementDeleted
	}
	var p *T
	if c.mode == ModeWrite {
		p, ok = s.TryLock()
	} else {
		p, ok = s.TryRLock()
	}
	if !ok {
		s.Release()
		return nil, nil, ErrLockUnavailable
	}
	release := func() {
		if c.mode == ModeWrite {
			s.Unlock()
		} else {
			s.RUnlock()
		}
		s.Release()
	}
	return p, release, nil
}

// acquireAll runs the all-or-nothing acquisition protocol over the declared
// capabilities in order: upgrade the weak handle, then try-lock in the
// declared mode. The first capability that fails to upgrade aborts with
// ErrRequirementDeleted without touching later ones; a capability that
// upgrades but cannot lock aborts with ErrLockUnavailable. On any failure
// everything already held is released in reverse order, so no attempt
// retains partial locks between retries.
func acquireAll(steps ...capStep) ([]any, func(), error) {
	vals := make([]any, 0, len(steps))
	rels := make([]func(), 0, len(steps))
	for _, st := range steps {
		v, rel, err := st.try()
		if err != nil {
			for i := len(rels) - 1; i >= 0; i-- {
				rels[i]()
			}
			return nil, nil, err
		}
		vals = append(vals, v)
		rels = append(rels, rel)
	}
	release := func() {
		for i := len(rels) - 1; i >= 0; i-- {
			rels[i]()
		}
	}
	return vals, release, nil
}

// Listen registers a listener on h whose callback needs one locked cell.
// The callback receives the event and the borrowed value; it runs only when
// the capability was acquired, and the lock is released when it returns.
// Registration is fire-and-forget; the returned ID is useful for explicit
// removal.
//
//	counter := lattice.NewShared(0)
//	lattice.Listen(handler, lattice.Write(counter.Downgrade()),
//		func(e *lattice.TickEvent, n *int) { *n++ })
func Listen[E, A any](h *Handler[E], a Cap[A], fn func(*E, *A)) ListenerID {
	id := h.NewID()
	h.Insert(&Listener[E]{ID: id, React: func(e *E) error {
		vals, release, err := acquireAll(a)
		if err != nil {
			return err
		}
		defer release()
		fn(e, vals[0].(*A))
		return nil
	}})
	return id
}

// Listen2 is Listen for two capabilities, acquired in declaration order.
func Listen2[E, A, B any](h *Handler[E], a Cap[A], b Cap[B], fn func(*E, *A, *B)) ListenerID {
	id := h.NewID()
	h.Insert(&Listener[E]{ID: id, React: func(e *E) error {
		vals, release, err := acquireAll(a, b)
		if err != nil {
			return err
		}
		defer release()
		fn(e, vals[0].(*A), vals[1].(*B))
		return nil
	}})
	return id
}

// Listen3 is Listen for three capabilities, acquired in declaration order.
func Listen3[E, A, B, C any](h *Handler[E], a Cap[A], b Cap[B], c Cap[C], fn func(*E, *A, *B, *C)) ListenerID {
	id := h.NewID()
	h.Insert(&Listener[E]{ID: id, React: func(e *E) error {
		vals, release, err := acquireAll(a, b, c)
		if err != nil {
			return err
		}
		defer release()
		fn(e, vals[0].(*A), vals[1].(*B), vals[2].(*C))
		return nil
	}})
	return id
}

// Listen4 is Listen for four capabilities, acquired in declaration order.
func Listen4[E, A, B, C, D any](h *Handler[E], a Cap[A], b Cap[B], c Cap[C], d Cap[D], fn func(*E, *A, *B, *C, *D)) ListenerID {
	id := h.NewID()
	h.Insert(&Listener[E]{ID: id, React: func(e *E) error {
		vals, release, err := acquireAll(a, b, c, d)
		if err != nil {
			return err
		}
		defer release()
		fn(e, vals[0].(*A), vals[1].(*B), vals[2].(*C), vals[3].(*D))
		return nil
	}})
	return id
}
