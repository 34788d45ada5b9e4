package lattice

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// tweenState drives up to two float64 fields on a node from tick events.
// Owned by the node it animates, so node disposal evicts the listener.
type tweenState struct {
	tweens [2]*gween.Tween
	done   bool
}

// TweenPosition registers a tick listener that eases the node's X and Y to
// the given target over duration seconds. The listener declares write
// capabilities on both the tween state and the node, acquired in that
// order; disposing the node evicts it through the normal protocol. A
// finished tween goes inert but stays registered until the node dies, or
// until the caller removes it by the returned ID.
func TweenPosition(node *Shared[Node], ticks *Handler[TickEvent], toX, toY float64, duration float32, fn ease.TweenFunc) ListenerID {
	p := node.RLock()
	fromX, fromY := p.X, p.Y
	node.RUnlock()

	st := NewShared(tweenState{})
	sp := st.Lock()
	sp.tweens[0] = gween.New(float32(fromX), float32(toX), duration, fn)
	sp.tweens[1] = gween.New(float32(fromY), float32(toY), duration, fn)
	st.Unlock()

	id := Listen2(ticks, Write(st.Downgrade()), Write(node.Downgrade()),
		func(e *TickEvent, ts *tweenState, n *Node) {
			if ts.done {
				return
			}
			dt := float32(e.Delta)
			x, fx := ts.tweens[0].Update(dt)
			y, fy := ts.tweens[1].Update(dt)
			n.X, n.Y = float64(x), float64(y)
			ts.done = fx && fy
		})

	np := node.Lock()
	np.Attach(st)
	node.Unlock()
	return id
}

// TweenScale registers a tick listener that eases the node's ScaleX and
// ScaleY to the given target. Same lifecycle as TweenPosition.
func TweenScale(node *Shared[Node], ticks *Handler[TickEvent], toSX, toSY float64, duration float32, fn ease.TweenFunc) ListenerID {
	p := node.RLock()
	fromX, fromY := p.ScaleX, p.ScaleY
	node.RUnlock()

	st := NewShared(tweenState{})
	sp := st.Lock()
	sp.tweens[0] = gween.New(float32(fromX), float32(toSX), duration, fn)
	sp.tweens[1] = gween.New(float32(fromY), float32(toSY), duration, fn)
	st.Unlock()

	id := Listen2(ticks, Write(st.Downgrade()), Write(node.Downgrade()),
		func(e *TickEvent, ts *tweenState, n *Node) {
			if ts.done {
				return
			}
			dt := float32(e.Delta)
			sx, fx := ts.tweens[0].Update(dt)
			sy, fy := ts.tweens[1].Update(dt)
			n.ScaleX, n.ScaleY = float64(sx), float64(sy)
			ts.done = fx && fy
		})

	np := node.Lock()
	np.Attach(st)
	node.Unlock()
	return id
}
