package ecs

import (
	"sync"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"

	"github.com/phanxgames/algoviz"
)

// PlaybackKind says which Player change produced a PlaybackEvent.
type PlaybackKind uint8

const (
	PlaybackStep   PlaybackKind = iota // the cursor moved
	PlaybackState                      // the playback state changed
	PlaybackReload                     // Play regenerated the trace
)

// PlaybackEvent is a Player change as seen by ECS systems.
type PlaybackEvent struct {
	Kind   PlaybackKind
	Cursor int
	Step   algoviz.Step // zero when the trace is empty
	State  algoviz.PlaybackState
	Len    int
}

// PlaybackEventType is the Donburi event type for Player changes.
var PlaybackEventType = events.NewEventType[PlaybackEvent]()

// PlaybackPublisher queues Player callbacks, which fire on the Player's
// timer goroutine, and publishes them into the world on Flush. Call Flush
// from the goroutine that owns the world.
type PlaybackPublisher struct {
	world donburi.World

	mu      sync.Mutex
	pending []PlaybackEvent
}

// NewPlaybackPublisher creates a publisher for world.
func NewPlaybackPublisher(world donburi.World) *PlaybackPublisher {
	return &PlaybackPublisher{world: world}
}

// Attach registers the publisher as p's step, state and reload callbacks,
// replacing any callbacks set before.
func (pub *PlaybackPublisher) Attach(p *algoviz.Player) {
	p.OnStep(func(cursor int, step algoviz.Step) {
		pub.enqueue(PlaybackEvent{Kind: PlaybackStep, Cursor: cursor, Step: step, State: p.State(), Len: p.Len()})
	})
	p.OnState(func(state algoviz.PlaybackState) {
		step, _ := p.Current()
		pub.enqueue(PlaybackEvent{Kind: PlaybackState, Cursor: p.Cursor(), Step: step, State: state, Len: p.Len()})
	})
	p.OnReload(func(trace algoviz.Trace) {
		pub.enqueue(PlaybackEvent{Kind: PlaybackReload, State: p.State(), Len: trace.Len()})
	})
}

func (pub *PlaybackPublisher) enqueue(ev PlaybackEvent) {
	pub.mu.Lock()
	pub.pending = append(pub.pending, ev)
	pub.mu.Unlock()
}

// Pending returns the number of queued events.
func (pub *PlaybackPublisher) Pending() int {
	pub.mu.Lock()
	defer pub.mu.Unlock()
	return len(pub.pending)
}

// Flush publishes every queued event in arrival order and returns how many
// were published.
func (pub *PlaybackPublisher) Flush() int {
	pub.mu.Lock()
	batch := pub.pending
	pub.pending = nil
	pub.mu.Unlock()

	for _, ev := range batch {
		PlaybackEventType.Publish(pub.world, ev)
	}
	return len(batch)
}
