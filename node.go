package lattice

// releaser lets a node retain type-erased owning handles to its components'
// cells. *Shared[T] implements it for every T.
type releaser interface {
	Release()
}

// Node is the root of anything that lives in a scene. A node owns the cells
// of its attached components; everything pointing back at the node (its
// components, listeners on its state) does so through weak handles.
//
// Mutate a node only while holding its cell's lock, either directly or
// through a write capability in a listener.
type Node struct {
	self  Weak[Node]
	scene Weak[Scene]

	// Identity.
	Name string

	// Local transform. The transform hierarchy itself lives outside this
	// core; nodes just hold the values.
	X, Y           float64
	Rotation       float64
	ScaleX, ScaleY float64

	components []releaser
	disposed   bool
}

// Self returns a weak handle to this node's own cell.
func (n *Node) Self() Weak[Node] {
	return n.self
}

// Scene returns a weak handle to the owning scene.
func (n *Node) Scene() Weak[Scene] {
	return n.scene
}

// Attach transfers ownership of a component's cell to the node. The handle
// is released when the node is disposed, which evicts any listeners holding
// capabilities on the component on their next dispatch.
func (n *Node) Attach(c releaser) {
	n.components = append(n.components, c)
}

// ComponentCount returns the number of attached component cells.
func (n *Node) ComponentCount() int {
	return len(n.components)
}

// Dispose releases every attached component cell. Idempotent. Call with the
// node's lock held; the scene does this from RemoveNode.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.disposed = true
	for _, c := range n.components {
		c.Release()
	}
	n.components = nil
}

// IsDisposed reports whether Dispose has run.
func (n *Node) IsDisposed() bool {
	return n.disposed
}
