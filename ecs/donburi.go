// Package ecs provides ECS adapters for timeline.
package ecs

import (
	"github.com/phanxgames/timeline"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ActionEventType is the Donburi event type for keyframe actions.
// Subscribe to this in your ECS systems to run the actions.
var ActionEventType = events.NewEventType[timeline.ActionEvent]()

type donburiActions struct {
	world donburi.World
}

// NewDonburiActions creates an ActionInvoker backed by a Donburi world.
// Actions are published to ActionEventType and can be consumed with
// events.Subscribe and ProcessEvents. Publishing never fails, so playback
// never reports these actions as unresolved.
func NewDonburiActions(world donburi.World) timeline.ActionInvoker {
	return &donburiActions{world: world}
}

func (a *donburiActions) InvokeAction(event timeline.ActionEvent) error {
	ActionEventType.Publish(a.world, event)
	return nil
}
