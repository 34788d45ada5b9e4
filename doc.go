// Package lattice is the concurrent scene/event core of a small real-time
// engine for [Ebitengine].
//
// Lattice lets an application build a set of scene nodes, attach reactive
// components to them, and have per-frame events (tick, keyboard, pointer
// motion, resize) dispatched to those components safely across goroutines —
// without the dispatcher knowing in advance whether a target's state is
// still alive.
//
// # Shared cells and weak handles
//
// Every piece of state a listener may touch lives in a [Shared] cell: a
// reference-counted value behind a read/write lock. Owning references keep
// the value alive; back-references are [Weak] handles whose Upgrade can
// fail once the last owner has released:
//
//	counter := lattice.NewShared(0)
//	weak := counter.Downgrade()
//	counter.Release()
//	_, ok := weak.Upgrade() // ok == false
//
// # Event dispatch
//
// A [Handler] owns the listeners for one event type and fans each event out
// to all of them in parallel. Listeners never block on a lock: acquisition
// is try-only, contention means the listener is retried within the same
// dispatch, and a destroyed requirement means the listener is evicted.
// The caller of [Handler.Handle] observes neither outcome.
//
// # Capabilities
//
// A listener declares the cells it needs up front, each tagged [Read] or
// [Write], and receives them as plain borrowed pointers inside its
// callback. [Listen] and its higher-arity siblings generate the
// all-or-nothing upgrade/try-lock glue:
//
//	lattice.Listen2(scene.Events.Tick,
//		lattice.Write(state.Downgrade()),
//		lattice.Write(node.Downgrade()),
//		func(e *lattice.TickEvent, st *State, n *lattice.Node) {
//			n.X += st.Speed * e.Delta
//		})
//
// # Scenes and nodes
//
// [Scene] owns nodes, nodes own their components' cells, and every pointer
// back up the graph is weak. Disposing a node releases its component cells,
// which evicts the components' listeners on their next dispatch.
//
// # Driving the loop
//
// [Run] opens a window and raises the built-in events once per frame:
//
//	scene := lattice.NewScene()
//	p := scene.Lock()
//	node := p.NewNode("hero")
//	scene.Unlock()
//	lattice.AttachFrameCounter(node, /* ... */)
//	if err := lattice.Run(scene, lattice.RunConfig{Title: "demo"}); err != nil {
//		log.Fatal(err)
//	}
//
// For full control, implement [ebiten.Game] yourself and raise events into
// Scene.Events directly.
//
// [Ebitengine]: https://ebitengine.org
package lattice
