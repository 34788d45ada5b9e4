package lattice

// FrameCounter is a minimal component: it counts ticks for as long as its
// node lives. It doubles as the reference pattern for writing components on
// top of the event core — state in a shared cell owned by the node, a weak
// back-reference to the node, and a listener declaring the state cell as a
// write capability so node disposal evicts it.
type FrameCounter struct {
	node   Weak[Node]
	Frames int
}

// AttachFrameCounter creates a FrameCounter on node and subscribes it to
// tick events. The returned weak handle can be upgraded to inspect the
// count; it stops upgrading once the node is disposed.
func AttachFrameCounter(node *Shared[Node], ticks *Handler[TickEvent]) Weak[FrameCounter] {
	c := NewShared(FrameCounter{node: node.Downgrade()})
	w := c.Downgrade()

	Listen(ticks, Write(w), func(_ *TickEvent, fc *FrameCounter) {
		fc.Frames++
	})

	p := node.Lock()
	p.Attach(c)
	node.Unlock()
	return w
}
