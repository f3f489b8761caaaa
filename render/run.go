package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/algoviz"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
}

// handleKeys applies the playback key bindings to p and reports whether
// the window should close.
func handleKeys(p *algoviz.Player, justPressed func(ebiten.Key) bool) (quit bool) {
	if justPressed(ebiten.KeyEscape) {
		return true
	}
	if p == nil {
		return false
	}
	switch {
	case justPressed(ebiten.KeySpace):
		p.Toggle()
	case justPressed(ebiten.KeyArrowRight):
		p.StepForward()
	case justPressed(ebiten.KeyArrowLeft):
		p.StepBackward()
	case justPressed(ebiten.KeyR):
		p.Reset()
	case justPressed(ebiten.KeyEqual), justPressed(ebiten.KeyNumpadAdd):
		_ = p.SetSpeed(algoviz.NextSpeed(p.Speed(), 1))
	case justPressed(ebiten.KeyMinus), justPressed(ebiten.KeyNumpadSubtract):
		_ = p.SetSpeed(algoviz.NextSpeed(p.Speed(), -1))
	}
	return false
}

type game struct {
	scene  *Scene
	width  int
	height int
}

func (g *game) Update() error {
	if handleKeys(g.scene.player, inpututil.IsKeyJustPressed) {
		return ebiten.Termination
	}
	return g.scene.Update()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens a window and drives scene until it is closed, Escape is
// pressed, or the scene's update hook returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 960
	}
	if cfg.Height <= 0 {
		cfg.Height = 640
	}
	if cfg.Title == "" {
		cfg.Title = "algoviz"
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(&game{scene: scene, width: cfg.Width, height: cfg.Height})
}
