package ecs

import (
	"github.com/ashgrove/lattice"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// Donburi event types the bridge publishes into. Subscribe with
// events.Subscribe / EventType.Subscribe and drain with ProcessEvents.
var (
	TickEventType   = events.NewEventType[lattice.TickEvent]()
	KeyEventType    = events.NewEventType[lattice.KeyEvent]()
	MouseEventType  = events.NewEventType[lattice.MouseDeltaEvent]()
	ResizeEventType = events.NewEventType[lattice.ResizeEvent]()
)

// Bridge holds the world handle the forwarding listeners publish into.
type Bridge struct {
	world donburi.World
}

// Bind registers one listener per built-in handler that republishes events
// into the Donburi world. Each listener declares a read capability on the
// bridge cell, so releasing the returned handle detaches all four through
// normal eviction on their next dispatch.
func Bind(ev *lattice.Events, world donburi.World) *lattice.Shared[Bridge] {
	b := lattice.NewShared(Bridge{world: world})
	w := b.Downgrade()

	lattice.Listen(ev.Tick, lattice.Read(w), func(e *lattice.TickEvent, br *Bridge) {
		TickEventType.Publish(br.world, *e)
	})
	lattice.Listen(ev.Key, lattice.Read(w), func(e *lattice.KeyEvent, br *Bridge) {
		KeyEventType.Publish(br.world, *e)
	})
	lattice.Listen(ev.Mouse, lattice.Read(w), func(e *lattice.MouseDeltaEvent, br *Bridge) {
		MouseEventType.Publish(br.world, *e)
	})
	lattice.Listen(ev.Resize, lattice.Read(w), func(e *lattice.ResizeEvent, br *Bridge) {
		ResizeEventType.Publish(br.world, *e)
	})

	return b
}
