// Package ecs bridges overlay control input into a [Donburi] world.
//
// Controls with a non-zero EntityID forward their mouse events to the UI's
// entity store. [NewDonburiStore] publishes them as typed Donburi events:
// every event goes to [InteractionEventType] and clicks additionally go to
// [ClickEventType].
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	screen.UI().SetEntityStore(store)
//	button.EntityID = 7
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
