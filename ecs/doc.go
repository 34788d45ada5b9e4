// Package ecs provides ECS adapters for lattice's built-in events.
//
// The primary adapter is [Bind], which bridges the engine's per-frame events
// (tick, keyboard, pointer motion, resize) into a [Donburi] world as typed
// events. Subscribe to [TickEventType] and friends in your ECS systems to
// receive them.
//
// Usage:
//
//	bridge := ecs.Bind(sceneEvents, world)
//	// ... later, to detach all four forwarders:
//	bridge.Release()
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
