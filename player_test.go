package algoviz

import (
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// fakeClock queues AfterFunc callbacks until the test fires them.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	live := !t.stopped && !t.fired
	t.stopped = true
	return live
}

// pending returns the live timers.
func (c *fakeClock) pending() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// last returns the most recently scheduled timer, live or not.
func (c *fakeClock) last() *fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

// fire runs the oldest live timer and reports whether there was one.
func (c *fakeClock) fire() bool {
	p := c.pending()
	if len(p) == 0 {
		return false
	}
	c.mu.Lock()
	p[0].fired = true
	c.mu.Unlock()
	p[0].f()
	return true
}

func (c *fakeClock) drain(t *testing.T) int {
	t.Helper()
	n := 0
	for c.fire() {
		n++
		if n > 10000 {
			t.Fatal("timer never stops rescheduling")
		}
	}
	return n
}

func stepsTrace(n int) Trace {
	var r Recorder
	for i := 0; i < n; i++ {
		r.compare("step", i)
	}
	return r.Trace()
}

func newTestPlayer() (*Player, *fakeClock) {
	clk := &fakeClock{}
	return NewPlayer(PlayerConfig{BaseInterval: 100 * time.Millisecond, Clock: clk}), clk
}

func TestPlayerPlaysToFinished(t *testing.T) {
	p, clk := newTestPlayer()
	var cursors []int
	p.OnStep(func(cursor int, _ Step) { cursors = append(cursors, cursor) })
	p.Load(stepsTrace(5))
	p.Play()
	if p.State() != StatePlaying {
		t.Fatalf("state = %s, want playing", p.State())
	}

	if n := clk.drain(t); n != 4 {
		t.Errorf("ticks = %d, want 4", n)
	}
	if p.Cursor() != 4 || p.IsPlaying() || p.State() != StateFinished {
		t.Errorf("after ticks: cursor %d state %s", p.Cursor(), p.State())
	}
	want := []int{0, 1, 2, 3, 4}
	if len(cursors) != len(want) {
		t.Fatalf("step callbacks = %v, want %v", cursors, want)
	}
	for i := range want {
		if cursors[i] != want[i] {
			t.Fatalf("step callbacks = %v, want %v", cursors, want)
		}
	}
}

func TestPlayerStepAtEdgesIsNoop(t *testing.T) {
	p, clk := newTestPlayer()
	p.Load(stepsTrace(3))
	if p.StepBackward() {
		t.Error("StepBackward at 0 should do nothing")
	}
	p.Play()
	clk.drain(t)
	if p.StepForward() {
		t.Error("StepForward on the last step should do nothing")
	}
	if p.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", p.Cursor())
	}
	if !p.StepBackward() || p.Cursor() != 1 || p.State() != StatePaused {
		t.Errorf("after StepBackward: cursor %d state %s", p.Cursor(), p.State())
	}
}

func TestPlayerStepIgnoredWhilePlaying(t *testing.T) {
	p, _ := newTestPlayer()
	p.Load(stepsTrace(4))
	p.Play()
	if p.StepForward() || p.Cursor() != 0 {
		t.Error("StepForward while playing should be ignored")
	}
}

func TestPlayerManualSteppingPauses(t *testing.T) {
	p, clk := newTestPlayer()
	p.Load(stepsTrace(3))
	for p.StepForward() {
	}
	if p.Cursor() != 2 || p.State() != StatePaused {
		t.Errorf("cursor %d state %s, want 2 paused", p.Cursor(), p.State())
	}
	if len(clk.pending()) != 0 {
		t.Error("manual stepping scheduled a timer")
	}
}

func TestPlayerResetFromAnyState(t *testing.T) {
	setups := map[string]func(t *testing.T, p *Player, clk *fakeClock){
		"idle":    func(*testing.T, *Player, *fakeClock) {},
		"playing": func(_ *testing.T, p *Player, clk *fakeClock) { p.Play(); clk.fire() },
		"paused":  func(_ *testing.T, p *Player, clk *fakeClock) { p.Play(); clk.fire(); p.Pause() },
		"finished": func(t *testing.T, p *Player, clk *fakeClock) {
			p.Play()
			clk.drain(t)
		},
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			p, clk := newTestPlayer()
			p.Load(stepsTrace(4))
			setup(t, p, clk)
			p.Reset()
			if p.Cursor() != 0 || p.State() != StateIdle {
				t.Errorf("after Reset: cursor %d state %s", p.Cursor(), p.State())
			}
			if len(clk.pending()) != 0 {
				t.Error("Reset left a live timer")
			}
		})
	}
}

func TestPlayerPauseKeepsCursor(t *testing.T) {
	p, clk := newTestPlayer()
	p.Load(stepsTrace(6))
	p.Play()
	clk.fire()
	clk.fire()
	p.Pause()
	if p.Cursor() != 2 || p.State() != StatePaused {
		t.Fatalf("cursor %d state %s", p.Cursor(), p.State())
	}
	if clk.fire() {
		t.Error("a timer fired after Pause")
	}
	p.Play()
	clk.fire()
	if p.Cursor() != 3 {
		t.Errorf("resume cursor = %d, want 3", p.Cursor())
	}
}

func TestPlayerDropsStaleTick(t *testing.T) {
	p, clk := newTestPlayer()
	p.Load(stepsTrace(5))
	p.Play()
	stale := clk.last()
	p.Pause()
	p.Play()
	// The cancelled callback was already in flight when Pause ran.
	stale.f()
	if p.Cursor() != 0 {
		t.Errorf("stale tick advanced the cursor to %d", p.Cursor())
	}
	if n := len(clk.pending()); n != 1 {
		t.Errorf("live timers = %d, want 1", n)
	}
}

func TestPlayerSetSpeedReschedules(t *testing.T) {
	p, clk := newTestPlayer()
	p.Load(stepsTrace(5))
	p.Play()
	if d := clk.last().d; d != 100*time.Millisecond {
		t.Fatalf("interval = %v, want 100ms", d)
	}
	if err := p.SetSpeed(4); err != nil {
		t.Fatal(err)
	}
	live := clk.pending()
	if len(live) != 1 || live[0].d != 25*time.Millisecond {
		t.Errorf("after SetSpeed(4): %d live timers", len(live))
	}
	if p.Interval() != 25*time.Millisecond {
		t.Errorf("Interval = %v", p.Interval())
	}
	if err := p.SetSpeed(0); !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("SetSpeed(0) err = %v, want ErrInvalidSpeed", err)
	}
	if p.Speed() != 4 {
		t.Errorf("Speed = %v after rejected change", p.Speed())
	}
}

func TestPlayerRegeneratesFromSource(t *testing.T) {
	p, clk := newTestPlayer()
	calls := 0
	reloads := 0
	p.OnReload(func(Trace) { reloads++ })
	p.SetSource(func() Trace {
		calls++
		return stepsTrace(3)
	})
	if p.Len() != 0 {
		t.Fatal("SetSource should not run the algorithm")
	}
	p.Play()
	if calls != 1 || p.Len() != 3 {
		t.Fatalf("calls = %d len = %d after first Play", calls, p.Len())
	}
	clk.drain(t)
	p.Play()
	if calls != 2 || p.Cursor() != 0 || p.State() != StatePlaying {
		t.Errorf("replay: calls %d cursor %d state %s", calls, p.Cursor(), p.State())
	}
	if reloads != 2 {
		t.Errorf("reload callbacks = %d, want 2", reloads)
	}
}

func TestPlayerShortTraces(t *testing.T) {
	p, clk := newTestPlayer()
	p.Play()
	if p.State() != StateIdle {
		t.Errorf("empty trace: state %s, want idle", p.State())
	}
	p.Load(stepsTrace(1))
	p.Play()
	if p.State() != StateFinished || len(clk.pending()) != 0 {
		t.Errorf("one-step trace: state %s, %d timers", p.State(), len(clk.pending()))
	}
}

func TestPlayerCallbacksMayReenter(t *testing.T) {
	p, clk := newTestPlayer()
	var snaps []Snapshot
	p.OnStep(func(int, Step) { snaps = append(snaps, p.Snapshot()) })
	p.OnState(func(s PlaybackState) {
		if s == StateFinished {
			p.Reset()
		}
	})
	p.Load(stepsTrace(3))
	p.Play()
	clk.drain(t)
	if p.State() != StateIdle {
		t.Errorf("state = %s, want idle after reset from callback", p.State())
	}
	if len(snaps) == 0 || snaps[len(snaps)-1].Cursor != 0 {
		t.Errorf("snapshots = %+v", snaps)
	}
}

func TestPlayerSystemClockDoesNotLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPlayer(PlayerConfig{BaseInterval: time.Millisecond})
	done := make(chan struct{})
	p.OnState(func(s PlaybackState) {
		if s == StateFinished {
			close(done)
		}
	})
	p.Load(stepsTrace(5))
	p.Play()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("player never finished")
	}
	if p.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4", p.Cursor())
	}
}

func TestNextSpeed(t *testing.T) {
	tests := []struct {
		cur  float64
		dir  int
		want float64
	}{
		{1, 1, 2},
		{1, -1, 0.5},
		{8, 1, 8},
		{0.25, -1, 0.25},
		{3, 1, 4}, // off-ladder speeds snap to the entry below
		{0.1, 1, 0.5},
	}
	for _, tt := range tests {
		if got := NextSpeed(tt.cur, tt.dir); got != tt.want {
			t.Errorf("NextSpeed(%v, %d) = %v, want %v", tt.cur, tt.dir, got, tt.want)
		}
	}
}
