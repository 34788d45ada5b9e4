package lattice

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
)

// The two outcomes a listener reaction can report besides success. They are
// internal to the dispatch protocol: the caller of Handle never sees either.
var (
	// ErrLockUnavailable means a required cell exists but is locked in a
	// conflicting mode right now. The listener is retried within the same
	// dispatch.
	ErrLockUnavailable = errors.New("lattice: required lock unavailable")

	// ErrRequirementDeleted means a required cell has been destroyed. The
	// listener can never run again and is removed from its handler.
	ErrRequirementDeleted = errors.New("lattice: required value deleted")
)

// ListenerID identifies a listener within its owning handler.
type ListenerID int64

// Listener is one registered reaction to an event type. Don't assemble these
// by hand for capability-backed reactions; use Listen and friends, which
// generate the acquisition logic. Direct construction is for reactions with
// no lock requirements (they return nil unconditionally).
type Listener[E any] struct {
	// ID is assigned by the owning handler and never reused while the
	// listener lives.
	ID ListenerID

	// React attempts one execution against the event. It returns nil on
	// success, ErrLockUnavailable to be retried within the same dispatch,
	// or ErrRequirementDeleted to be evicted.
	React func(*E) error
}

type handlerConfig struct {
	parallelism int
	retryPolicy func() backoff.BackOff
	debug       bool
}

// HandlerOption configures a Handler at construction time.
type HandlerOption func(*handlerConfig)

// WithParallelism bounds the number of listener attempts running at once
// during a dispatch. Defaults to runtime.GOMAXPROCS(0).
func WithParallelism(n int) HandlerOption {
	return func(c *handlerConfig) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithRetryPolicy sets the pacing policy for contended listeners. The factory
// is invoked once per Handle call; when the policy returns backoff.Stop,
// still-contended listeners are abandoned for this dispatch (left registered,
// not run, not evicted).
func WithRetryPolicy(factory func() backoff.BackOff) HandlerOption {
	return func(c *handlerConfig) {
		if factory != nil {
			c.retryPolicy = factory
		}
	}
}

// WithDispatchDebug enables per-dispatch stats on stderr.
func WithDispatchDebug() HandlerOption {
	return func(c *handlerConfig) { c.debug = true }
}

// defaultRetryPolicy paces retry rounds under contention. The ceiling keeps a
// pathologically contended dispatch within roughly one 60fps frame instead of
// spinning forever.
func defaultRetryPolicy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Microsecond
	b.MaxInterval = 5 * time.Millisecond
	b.MaxElapsedTime = 15 * time.Millisecond
	// Reset again so the first interval and the elapsed-time clock pick up
	// the fields above; the constructor's own Reset ran against the
	// defaults.
	b.Reset()
	return b
}

// Handler owns the listeners for one event type and dispatches events to
// them. One handler exists per event type per subscription domain (a Scene
// keeps one per built-in event, see Events).
//
// Insert and Handle are safe for concurrent use, though the engine calls
// Handle once per frame from the driver, not concurrently with itself.
type Handler[E any] struct {
	mu     sync.Mutex
	nextID ListenerID
	set    map[ListenerID]*Listener[E]
	cfg    handlerConfig
}

// NewHandler creates an empty handler for event type E.
func NewHandler[E any](opts ...HandlerOption) *Handler[E] {
	cfg := handlerConfig{
		parallelism: runtime.GOMAXPROCS(0),
		retryPolicy: defaultRetryPolicy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Handler[E]{
		set: make(map[ListenerID]*Listener[E]),
		cfg: cfg,
	}
}

// NewID allocates a fresh listener identifier. IDs increase monotonically
// and never repeat for the life of the handler.
func (h *Handler[E]) NewID() ListenerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	return id
}

// Insert registers a listener under its ID.
func (h *Handler[E]) Insert(l *Listener[E]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.set[l.ID] = l
}

// Remove unregisters the listener with the given ID, if present.
func (h *Handler[E]) Remove(id ListenerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.set, id)
}

// Len returns the number of registered listeners.
func (h *Handler[E]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.set)
}

// Handle delivers one event to every listener registered at the start of the
// call. Listener attempts fan out in parallel; ordering between listeners is
// unspecified. Each attempt resolves to one of three outcomes: success,
// retry (lock contention, re-attempted against the same event after a
// backoff pause), or eviction (a required cell no longer exists).
//
// Evictions accumulated across all retry rounds are applied once, after the
// last round. Handle returns only when every listener has resolved or the
// retry policy has given up on the still-contended remainder; the caller
// never observes a failure.
func (h *Handler[E]) Handle(e E) {
	h.mu.Lock()
	attempt := make([]*Listener[E], 0, len(h.set))
	for _, l := range h.set {
		attempt = append(attempt, l)
	}
	h.mu.Unlock()

	pol := h.cfg.retryPolicy()
	var evict []ListenerID
	var stats dispatchStats

	for len(attempt) > 0 {
		stats.rounds++
		stats.attempts += len(attempt)

		// One parallel round. Outcomes land in a per-listener slot; the
		// group itself never carries an error.
		outcomes := make([]error, len(attempt))
		g := new(errgroup.Group)
		g.SetLimit(h.cfg.parallelism)
		for i, l := range attempt {
			g.Go(func() error {
				outcomes[i] = l.React(&e)
				return nil
			})
		}
		_ = g.Wait()

		retry := attempt[:0]
		for i, err := range outcomes {
			switch {
			case err == nil:
			case errors.Is(err, ErrRequirementDeleted):
				evict = append(evict, attempt[i].ID)
			default:
				// Contention only means "try again", never "give up".
				retry = append(retry, attempt[i])
			}
		}
		if len(retry) == 0 {
			break
		}

		d := pol.NextBackOff()
		if d == backoff.Stop {
			stats.abandoned = len(retry)
			break
		}
		time.Sleep(d)
		attempt = retry
	}

	if len(evict) > 0 {
		h.mu.Lock()
		for _, id := range evict {
			delete(h.set, id)
		}
		h.mu.Unlock()
	}
	stats.evicted = len(evict)

	if h.cfg.debug {
		h.debugLog(stats)
	}
}
