package lattice

// Scene owns the node set and the event handlers for the built-in event
// types. The driver raises events into Scene.Events once per frame; the
// scene itself is just the owning side of the reference graph: scene owns
// nodes, nodes own component cells, and every back-reference is weak.
type Scene struct {
	self  Weak[Scene]
	nodes []*Shared[Node]

	// Events holds one handler per built-in event type.
	Events *Events
}

// NewScene creates a scene cell and wires its self-reference.
func NewScene(opts ...HandlerOption) *Shared[Scene] {
	sc := NewShared(Scene{Events: NewEvents(opts...)})
	p := sc.Lock()
	p.self = sc.Downgrade()
	sc.Unlock()
	return sc
}

// Self returns a weak handle to this scene's own cell.
func (s *Scene) Self() Weak[Scene] {
	return s.self
}

// NewNode creates a node, retains it in the scene, and returns a second
// owning handle to the caller. The node's cell stays alive until both the
// scene releases its handle (RemoveNode) and the caller releases theirs.
// Call with the scene's lock held.
func (s *Scene) NewNode(name string) *Shared[Node] {
	n := NewShared(Node{
		Name:   name,
		ScaleX: 1,
		ScaleY: 1,
		scene:  s.self,
	})
	p := n.Lock()
	p.self = n.Downgrade()
	n.Unlock()
	s.nodes = append(s.nodes, n.Clone())
	return n
}

// RemoveNode disposes the node's components and drops the scene's owning
// handle. Call with the scene's lock held. Listeners whose capabilities
// point at the node or its components evict on their next dispatch, once
// every other owning handle is gone.
func (s *Scene) RemoveNode(n *Shared[Node]) {
	for i, held := range s.nodes {
		if held.ctl != n.ctl {
			continue
		}
		p := held.Lock()
		p.Dispose()
		held.Unlock()
		held.Release()
		s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
		return
	}
}

// NodeCount returns the number of nodes the scene retains.
func (s *Scene) NodeCount() int {
	return len(s.nodes)
}

// Nodes returns the scene's owned node handles. The slice is a copy; the
// handles are not.
func (s *Scene) Nodes() []*Shared[Node] {
	out := make([]*Shared[Node], len(s.nodes))
	copy(out, s.nodes)
	return out
}
