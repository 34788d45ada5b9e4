package lattice

import "github.com/hajimehoshi/ebiten/v2"

// The built-in event payloads the render-loop driver raises once per frame
// or once per input occurrence. Any value type works as a handler's event
// type; this is the fixed set the surrounding engine relies on.

// TickEvent fires once per frame.
type TickEvent struct {
	// Delta is the time that passed between this frame and the last, in
	// seconds.
	Delta float64
}

// KeyEvent fires when a key changes state.
type KeyEvent struct {
	// Scan identifies the physical key. It does not change with the host
	// keyboard map; use it when physical location matters more than the
	// key's meaning, such as movement controls.
	Scan int

	// Key identifies the logical key, valid only when KeyResolved is true.
	// Use it when the key's meaning matters more than its location, such
	// as "page up" behavior.
	Key ebiten.Key

	// KeyResolved reports whether Scan mapped to a logical key. Events
	// raised by the Run driver always resolve, because ebiten only
	// reports keys it can name; raisers that synthesize events from raw
	// scan codes may leave it false.
	KeyResolved bool

	// Pressed is true for a press, false for a release.
	Pressed bool
}

// MouseDeltaEvent fires when the pointer moves.
type MouseDeltaEvent struct {
	// Delta is the pointer movement since last frame, in pixels.
	Delta Vec2
}

// ResizeEvent fires when the window changes size, and once at startup.
type ResizeEvent struct {
	// Width and Height are the new extent in pixels.
	Width, Height int
}

// Events aggregates the handlers for the built-in event types. A Scene owns
// one; the driver raises into it every frame.
type Events struct {
	Tick   *Handler[TickEvent]
	Key    *Handler[KeyEvent]
	Mouse  *Handler[MouseDeltaEvent]
	Resize *Handler[ResizeEvent]
}

// NewEvents creates handlers for all built-in event types.
func NewEvents(opts ...HandlerOption) *Events {
	return &Events{
		Tick:   NewHandler[TickEvent](opts...),
		Key:    NewHandler[KeyEvent](opts...),
		Mouse:  NewHandler[MouseDeltaEvent](opts...),
		Resize: NewHandler[ResizeEvent](opts...),
	}
}
