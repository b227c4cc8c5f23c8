// Package ecs provides ECS adapters for timeline keyframe actions.
//
// The primary adapter is [NewDonburiActions], which publishes actions
// reached during playback into a [Donburi] world as typed events instead of
// calling them directly. Subscribe to [ActionEventType] in your ECS systems
// to receive them.
//
// Usage:
//
//	actions := ecs.NewDonburiActions(world)
//	anim, err := timeline.NewAnimator(tl, props, timeline.AnimatorConfig{Actions: actions})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
