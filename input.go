package lattice

import "github.com/hajimehoshi/ebiten/v2"

// Pure translation helpers between polled input state and the built-in
// event payloads. The driver in run.go feeds them live ebiten state; tests
// feed them fixtures.

// keyEvent builds a KeyEvent for one key transition. Ebiten only reports
// keys it can name, so events built from polled input always resolve; the
// range check matters for callers that construct transitions from raw
// codes.
func keyEvent(key ebiten.Key, pressed bool) KeyEvent {
	resolved := key >= 0 && key <= ebiten.KeyMax
	return KeyEvent{
		Scan:        int(key),
		Key:         key,
		KeyResolved: resolved,
		Pressed:     pressed,
	}
}

// keyTransitions expands the per-frame just-pressed and just-released key
// sets into the events to raise, presses first.
func keyTransitions(pressed, released []ebiten.Key) []KeyEvent {
	if len(pressed)+len(released) == 0 {
		return nil
	}
	out := make([]KeyEvent, 0, len(pressed)+len(released))
	for _, k := range pressed {
		out = append(out, keyEvent(k, true))
	}
	for _, k := range released {
		out = append(out, keyEvent(k, false))
	}
	return out
}

// pointerDelta computes the pointer movement between two frames. The second
// return is false when the pointer did not move, so the driver can skip
// raising an event.
func pointerDelta(prevX, prevY, curX, curY float64) (Vec2, bool) {
	d := Vec2{X: curX - prevX, Y: curY - prevY}
	if d.X == 0 && d.Y == 0 {
		return Vec2{}, false
	}
	return d, true
}
