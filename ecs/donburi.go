package ecs

import (
	"github.com/phanxgames/overlay"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType carries every control interaction event.
var InteractionEventType = events.NewEventType[overlay.InteractionEvent]()

// ClickEventType carries only click events.
var ClickEventType = events.NewEventType[overlay.InteractionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore that publishes into world. Events
// are queued until ProcessEvents runs for their type.
func NewDonburiStore(world donburi.World) overlay.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event overlay.InteractionEvent) {
	InteractionEventType.Publish(s.world, event)
	if event.Click {
		ClickEventType.Publish(s.world, event)
	}
}
