// Package ecs connects a slidefx Player to a [Donburi] world.
//
// [NewDonburiStore] is an EventStore that publishes every engine event
// (triggers, effect lifecycle, slide and step changes, element drags) to
// [EngineEventType]:
//
//	p.SetEventStore(ecs.NewDonburiStore(world))
//	ecs.EngineEventType.Subscribe(world, onEngineEvent)
//
// [MirrorEffects] keeps one entity with an [ActiveEffectComponent] per
// running effect, for systems that query state rather than react to events.
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
