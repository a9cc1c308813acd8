package ecs

import (
	"github.com/phanxgames/slidefx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EngineEventType is the Donburi event type for slidefx engine events.
// Subscribe to this in your ECS systems to receive triggers, effect
// lifecycle, navigation and drag events.
var EngineEventType = events.NewEventType[slidefx.EngineEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Engine events are published to EngineEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) slidefx.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event slidefx.EngineEvent) {
	EngineEventType.Publish(s.world, event)
}
