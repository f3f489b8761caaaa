package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/algoviz"
)

// StatusWidget is a HUD node showing the playback state of a Player: the
// algorithm title, cursor, state, speed, and the current step's message.
// The text is redrawn only when it changes.
type StatusWidget struct {
	node   *Node
	img    *ebiten.Image
	title  string
	player *algoviz.Player
	last   string
}

// NewStatusWidget creates a width x height HUD for p.
func NewStatusWidget(title string, p *algoviz.Player, width, height int) *StatusWidget {
	w := &StatusWidget{
		img:    ebiten.NewImage(width, height),
		title:  title,
		player: p,
	}
	w.node = NewImageNode("status", w.img)
	w.node.OnUpdate = func(float64) { w.refresh() }
	return w
}

// Node returns the widget's node.
func (w *StatusWidget) Node() *Node { return w.node }

// SetTitle changes the heading line.
func (w *StatusWidget) SetTitle(title string) {
	w.title = title
	w.refresh()
}

func (w *StatusWidget) refresh() {
	text := StatusText(w.title, w.player.Snapshot())
	if text == w.last {
		return
	}
	w.last = text
	w.img.Clear()
	w.img.Fill(color.RGBA{0, 0, 0, 160})
	ebitenutil.DebugPrint(w.img, text)
}

// StatusText formats the HUD lines for a player snapshot.
func StatusText(title string, snap algoviz.Snapshot) string {
	var b strings.Builder
	b.WriteString(title)
	if snap.Len == 0 {
		b.WriteString("\nno trace")
	} else {
		fmt.Fprintf(&b, "\nstep %d/%d  %s  x%g", snap.Cursor+1, snap.Len, snap.State, snap.Speed)
		if snap.Step != nil {
			fmt.Fprintf(&b, "\n%s: %s", snap.Step.Type, snap.Step.Message)
		}
	}
	b.WriteString("\nspace play/pause  <- -> step  r reset  +/- speed")
	return b.String()
}
