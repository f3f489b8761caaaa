// Package ecs bridges algoviz scenes and players into a [Donburi] world.
//
// [NewDonburiStore] forwards render interaction events (pointer, click,
// drag) as typed events; subscribe to [InteractionEventType] to receive
// them. [PlaybackPublisher] forwards Player cursor and state changes as
// [PlaybackEventType] events.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
//	pub := ecs.NewPlaybackPublisher(world)
//	pub.Attach(player)
//	// once per frame, from the game loop:
//	pub.Flush()
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
