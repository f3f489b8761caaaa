package render

import (
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/algoviz"
)

func pressed(keys ...ebiten.Key) func(ebiten.Key) bool {
	return func(k ebiten.Key) bool {
		for _, want := range keys {
			if k == want {
				return true
			}
		}
		return false
	}
}

func TestHandleKeys(t *testing.T) {
	p := algoviz.NewPlayer(algoviz.PlayerConfig{BaseInterval: time.Hour})
	p.Load(algoviz.BubbleSort([]int{3, 2, 1}).Trace)

	handleKeys(p, pressed(ebiten.KeyArrowRight))
	handleKeys(p, pressed(ebiten.KeyArrowRight))
	handleKeys(p, pressed(ebiten.KeyArrowLeft))
	if p.Cursor() != 1 {
		t.Errorf("Cursor = %d, want 1", p.Cursor())
	}

	handleKeys(p, pressed(ebiten.KeyEqual))
	if p.Speed() != 2 {
		t.Errorf("Speed = %v, want 2", p.Speed())
	}
	handleKeys(p, pressed(ebiten.KeyNumpadSubtract))
	handleKeys(p, pressed(ebiten.KeyMinus))
	if p.Speed() != 0.5 {
		t.Errorf("Speed = %v, want 0.5", p.Speed())
	}

	handleKeys(p, pressed(ebiten.KeySpace))
	if !p.IsPlaying() {
		t.Error("space should start playback")
	}
	handleKeys(p, pressed(ebiten.KeySpace))
	if p.State() != algoviz.StatePaused {
		t.Errorf("State = %s, want paused", p.State())
	}

	handleKeys(p, pressed(ebiten.KeyR))
	if p.Cursor() != 0 || p.State() != algoviz.StateIdle {
		t.Errorf("after reset cursor = %d, state = %s", p.Cursor(), p.State())
	}

	if !handleKeys(p, pressed(ebiten.KeyEscape)) {
		t.Error("escape should quit")
	}
	if handleKeys(nil, pressed(ebiten.KeySpace)) {
		t.Error("no player, no quit")
	}
}
