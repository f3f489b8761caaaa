package algoviz

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// PlaybackState is the state of a Player.
type PlaybackState uint8

const (
	StateIdle     PlaybackState = iota // cursor at 0, not playing
	StatePlaying                       // the timer is advancing the cursor
	StatePaused                        // stopped mid-trace
	StateFinished                      // the timer reached the last step
)

var playbackStateNames = [...]string{
	StateIdle:     "idle",
	StatePlaying:  "playing",
	StatePaused:   "paused",
	StateFinished: "finished",
}

// String returns the state name.
func (s PlaybackState) String() string {
	if int(s) < len(playbackStateNames) {
		return playbackStateNames[s]
	}
	return fmt.Sprintf("PlaybackState(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s PlaybackState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ErrInvalidSpeed is returned by SetSpeed for non-positive multipliers.
var ErrInvalidSpeed = errors.New("speed must be positive")

// DefaultBaseInterval is the tick interval at speed 1.
const DefaultBaseInterval = 500 * time.Millisecond

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules the Player's ticks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules ticks with time.AfterFunc.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// PlayerConfig configures a Player. Zero fields take defaults.
type PlayerConfig struct {
	BaseInterval time.Duration // tick interval at speed 1; default DefaultBaseInterval
	Speed        float64       // initial multiplier; default 1
	Clock        Clock         // default SystemClock
}

// Player replays a Trace by moving a cursor on a timer. It owns exactly one
// timer: start and stop are the only places that touch it, and a start
// always stops the previous timer first. Methods are safe for concurrent
// use. Callbacks run outside the Player's lock and may call back into it.
type Player struct {
	mu       sync.Mutex
	trace    Trace
	source   func() Trace
	cursor   int
	state    PlaybackState
	speed    float64
	base     time.Duration
	clock    Clock
	timer    Timer
	gen      uint64
	onStep   func(cursor int, step Step)
	onState  func(state PlaybackState)
	onReload func(trace Trace)
}

// NewPlayer returns an idle Player with an empty trace.
func NewPlayer(cfg PlayerConfig) *Player {
	if cfg.BaseInterval <= 0 {
		cfg.BaseInterval = DefaultBaseInterval
	}
	if cfg.Speed <= 0 {
		cfg.Speed = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	return &Player{
		speed: cfg.Speed,
		base:  cfg.BaseInterval,
		clock: cfg.Clock,
	}
}

// OnStep registers a callback fired whenever the cursor moves.
func (p *Player) OnStep(fn func(cursor int, step Step)) {
	p.mu.Lock()
	p.onStep = fn
	p.mu.Unlock()
}

// OnState registers a callback fired on every state change.
func (p *Player) OnState(fn func(state PlaybackState)) {
	p.mu.Lock()
	p.onState = fn
	p.mu.Unlock()
}

// OnReload registers a callback fired when Play regenerates the trace.
func (p *Player) OnReload(fn func(trace Trace)) {
	p.mu.Lock()
	p.onReload = fn
	p.mu.Unlock()
}

// notice is a deferred callback invocation collected under the lock.
type notice struct {
	step     bool
	cursor   int
	cur      Step
	state    bool
	newState PlaybackState
	reload   bool
	trace    Trace
}

// fire runs the callbacks for n. Must be called without p.mu held.
func (p *Player) fire(n notice) {
	p.mu.Lock()
	onStep, onState, onReload := p.onStep, p.onState, p.onReload
	p.mu.Unlock()

	if n.reload && onReload != nil {
		onReload(n.trace)
	}
	if n.step && onStep != nil {
		onStep(n.cursor, n.cur)
	}
	if n.state && onState != nil {
		onState(n.newState)
	}
}

// setState changes state and records the notice. Caller holds p.mu.
func (p *Player) setState(s PlaybackState, n *notice) {
	if p.state == s {
		return
	}
	p.state = s
	n.state = true
	n.newState = s
}

// moved records a cursor notice. Caller holds p.mu.
func (p *Player) moved(n *notice) {
	n.step = true
	n.cursor = p.cursor
	if !p.trace.Empty() {
		n.cur = p.trace.steps[p.cursor]
	}
}

// Load replaces the trace, stops playback, and rewinds to Idle.
func (p *Player) Load(t Trace) {
	var n notice
	p.mu.Lock()
	p.stop()
	p.trace = t
	p.cursor = 0
	p.setState(StateIdle, &n)
	p.moved(&n)
	p.mu.Unlock()
	p.fire(n)
}

// SetSource sets the generator Play uses to (re)build the trace, and
// discards the current trace so the next Play regenerates it.
func (p *Player) SetSource(src func() Trace) {
	var n notice
	p.mu.Lock()
	p.stop()
	p.source = src
	p.trace = Trace{}
	p.cursor = 0
	p.setState(StateIdle, &n)
	p.mu.Unlock()
	p.fire(n)
}

// Play starts advancing the cursor. If the trace is empty or the cursor is
// on the last step, the trace is regenerated from the source and rewound
// first. A one-step trace finishes immediately.
func (p *Player) Play() {
	var n notice
	p.mu.Lock()
	if p.state == StatePlaying {
		p.mu.Unlock()
		return
	}
	if p.trace.Empty() || p.cursor >= p.trace.Len()-1 {
		if p.source != nil {
			p.trace = p.source()
			n.reload = true
			n.trace = p.trace
		}
		p.cursor = 0
		p.moved(&n)
	}
	switch {
	case p.trace.Empty():
		p.setState(StateIdle, &n)
	case p.trace.Len() == 1:
		p.setState(StateFinished, &n)
	default:
		p.setState(StatePlaying, &n)
		p.start()
	}
	p.mu.Unlock()
	p.fire(n)
}

// Pause stops the timer and keeps the cursor.
func (p *Player) Pause() {
	var n notice
	p.mu.Lock()
	if p.state == StatePlaying {
		p.stop()
		p.setState(StatePaused, &n)
	}
	p.mu.Unlock()
	p.fire(n)
}

// Toggle pauses a playing Player and plays any other.
func (p *Player) Toggle() {
	if p.IsPlaying() {
		p.Pause()
		return
	}
	p.Play()
}

// StepForward moves the cursor one step forward. It does nothing while
// playing or on the last step.
func (p *Player) StepForward() bool {
	return p.step(1)
}

// StepBackward moves the cursor one step back. It does nothing while
// playing or on the first step.
func (p *Player) StepBackward() bool {
	return p.step(-1)
}

func (p *Player) step(delta int) bool {
	var n notice
	p.mu.Lock()
	if p.state == StatePlaying || p.trace.Empty() {
		p.mu.Unlock()
		return false
	}
	next := clampCursor(p.cursor+delta, p.trace.Len())
	if next == p.cursor {
		p.mu.Unlock()
		return false
	}
	p.cursor = next
	p.moved(&n)
	p.setState(StatePaused, &n)
	p.mu.Unlock()
	p.fire(n)
	return true
}

// Reset stops playback and rewinds to Idle at cursor 0.
func (p *Player) Reset() {
	var n notice
	p.mu.Lock()
	p.stop()
	moved := p.cursor != 0
	p.cursor = 0
	if moved {
		p.moved(&n)
	}
	p.setState(StateIdle, &n)
	p.mu.Unlock()
	p.fire(n)
}

// SetSpeed changes the speed multiplier. While playing, the pending tick is
// rescheduled at the new interval.
func (p *Player) SetSpeed(speed float64) error {
	if speed <= 0 {
		return fmt.Errorf("set speed %v: %w", speed, ErrInvalidSpeed)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = speed
	if p.state == StatePlaying {
		p.start()
	}
	return nil
}

// start (re)arms the single timer. Caller holds p.mu.
func (p *Player) start() {
	p.stop()
	gen := p.gen
	p.timer = p.clock.AfterFunc(p.interval(), func() { p.tick(gen) })
}

// stop cancels the timer and invalidates any tick already in flight.
// Caller holds p.mu.
func (p *Player) stop() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}

func (p *Player) tick(gen uint64) {
	var n notice
	p.mu.Lock()
	if gen != p.gen || p.state != StatePlaying {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	if p.cursor < p.trace.Len()-1 {
		p.cursor++
		p.moved(&n)
	}
	finished := p.cursor >= p.trace.Len()-1
	if finished {
		p.gen++
		p.setState(StateFinished, &n)
	}
	p.mu.Unlock()
	p.fire(n)
	if finished {
		return
	}

	// Re-arm only after the callbacks ran so ticks are observed in order.
	// Anything that stopped or restarted the timer meanwhile bumped gen.
	p.mu.Lock()
	if gen == p.gen && p.state == StatePlaying {
		p.start()
	}
	p.mu.Unlock()
}

// SpeedLadder is the sequence of speeds the +/- controls step through.
var SpeedLadder = []float64{0.25, 0.5, 1, 2, 4, 8}

// NextSpeed returns the SpeedLadder entry dir steps away from the highest
// entry not above cur, clamped to the ladder ends.
func NextSpeed(cur float64, dir int) float64 {
	idx := 0
	for i, s := range SpeedLadder {
		if s <= cur {
			idx = i
		}
	}
	idx = min(max(idx+dir, 0), len(SpeedLadder)-1)
	return SpeedLadder[idx]
}

// interval is base / speed. Caller holds p.mu.
func (p *Player) interval() time.Duration {
	d := time.Duration(float64(p.base) / p.speed)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// Cursor returns the current cursor.
func (p *Player) Cursor() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Current returns the step under the cursor, or false for an empty trace.
func (p *Player) Current() (Step, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.trace.Empty() {
		return Step{}, false
	}
	return p.trace.steps[p.cursor], true
}

// State returns the playback state.
func (p *Player) State() PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// IsPlaying reports whether the timer is running.
func (p *Player) IsPlaying() bool {
	return p.State() == StatePlaying
}

// Speed returns the speed multiplier.
func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// Interval returns the current tick interval.
func (p *Player) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval()
}

// Len returns the trace length.
func (p *Player) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trace.Len()
}

// Trace returns the trace being played.
func (p *Player) Trace() Trace {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.trace
}

// Snapshot is a consistent view of the Player.
type Snapshot struct {
	Cursor int           `json:"cursor"`
	Len    int           `json:"len"`
	State  PlaybackState `json:"state"`
	Speed  float64       `json:"speed"`
	Step   *Step         `json:"step,omitempty"`
}

// Snapshot returns cursor, length, state, speed, and current step taken
// under one lock.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := Snapshot{Cursor: p.cursor, Len: p.trace.Len(), State: p.state, Speed: p.speed}
	if !p.trace.Empty() {
		st := p.trace.steps[p.cursor]
		s.Step = &st
	}
	return s
}
