package ecs

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/algoviz/render"
)

// InteractionEventType is the Donburi event type for render interaction
// events.
var InteractionEventType = events.NewEventType[render.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Interaction events are published to InteractionEventType and can be
// consumed with events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) render.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event render.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
}
