package render

import (
	"strconv"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/algoviz"
)

// defaultTweenDuration is how long bars and cells take to reach a new frame.
const defaultTweenDuration = 0.12

// BarView draws a search or sort trace as one bar per array element. Bar
// height follows the element value and bar colour follows the current
// step: compared, swapped, selected, sorted, out of the search window.
type BarView struct {
	node *Node
	bars []*Node

	input  []int
	lo, hi int
	frame  algoviz.ArrayFrame

	width, height float64
	gap           float64

	// TweenDuration is the animation time between frames in seconds; 0
	// jumps straight to each frame.
	TweenDuration float32
	tweens        tweenSet

	player     *algoviz.Player
	lastCursor int
	lastLen    int
}

// NewBarView creates a bar view of the given size. Add Node() to a scene.
func NewBarView(name string, width, height float64) *BarView {
	v := &BarView{
		node:          NewContainer(name),
		width:         width,
		height:        height,
		gap:           2,
		TweenDuration: defaultTweenDuration,
		lastCursor:    -1,
		lastLen:       -1,
	}
	v.node.OnUpdate = v.update
	return v
}

// Node returns the view's container node.
func (v *BarView) Node() *Node { return v.node }

// Frame returns the frame currently shown.
func (v *BarView) Frame() algoviz.ArrayFrame { return v.frame }

// Bars returns the bar nodes in element order.
func (v *BarView) Bars() []*Node { return v.bars }

// Bind makes the view follow p: every Update the view re-projects when the
// Player's cursor or trace length has changed.
func (v *BarView) Bind(p *algoviz.Player) {
	v.player = p
	v.lastCursor, v.lastLen = -1, -1
}

// SetInput rebuilds one bar per value and shows the unmodified input.
func (v *BarView) SetInput(values []int) {
	v.tweens.finish()
	for _, b := range v.bars {
		b.Dispose()
	}
	v.input = append([]int(nil), values...)
	v.bars = v.bars[:0]
	v.frame = algoviz.ArrayFrameAt(v.input, algoviz.Trace{}, 0)

	n := len(values)
	if n == 0 {
		return
	}
	v.lo, v.hi = values[0], values[0]
	for _, x := range values {
		v.lo = min(v.lo, x)
		v.hi = max(v.hi, x)
	}
	barW := (v.width - v.gap*float64(n-1)) / float64(n)
	if barW < 1 {
		barW = 1
	}
	for i, x := range values {
		bar := NewRect("bar"+strconv.Itoa(i), barW, v.height, ColorBar)
		bar.SetPivot(0, v.height)
		bar.SetPosition(float64(i)*(barW+v.gap), v.height)
		bar.SetScale(1, v.scaleFor(x))
		if barW >= 18 {
			bar.Label = strconv.Itoa(x)
		}
		v.node.AddChild(bar)
		v.bars = append(v.bars, bar)
	}
}

// scaleFor maps a value onto [0.1, 1] of the view height.
func (v *BarView) scaleFor(x int) float64 {
	if v.hi == v.lo {
		return 1
	}
	return 0.1 + 0.9*float64(x-v.lo)/float64(v.hi-v.lo)
}

// Show projects trace at cursor onto the bars.
func (v *BarView) Show(trace algoviz.Trace, cursor int) {
	v.frame = algoviz.ArrayFrameAt(v.input, trace, cursor)
	for i, bar := range v.bars {
		val := v.frame.Values[i]
		c := barColor(v.frame, i)
		sy := v.scaleFor(val)
		if v.bars[i].Label != "" {
			bar.Label = strconv.Itoa(val)
		}
		if v.TweenDuration <= 0 {
			bar.Color = c
			bar.SetScale(1, sy)
			continue
		}
		v.tweens.start(bar, "color", TweenColor(bar, c, v.TweenDuration, ease.OutQuad))
		v.tweens.start(bar, "scale", TweenScale(bar, 1, sy, v.TweenDuration, ease.OutQuad))
	}
}

func (v *BarView) update(dt float64) {
	if v.player != nil {
		snap := v.player.Snapshot()
		if snap.Cursor != v.lastCursor || snap.Len != v.lastLen {
			v.lastCursor, v.lastLen = snap.Cursor, snap.Len
			v.Show(v.player.Trace(), snap.Cursor)
		}
	}
	v.tweens.update(float32(dt))
}

// barColor picks the colour of bar i: current-step highlight first, then
// found, sorted, and outside the search window.
func barColor(f algoviz.ArrayFrame, i int) Color {
	if t, ok := f.Highlight[i]; ok {
		return StepColor(t)
	}
	if f.Found == i {
		return StepColor(algoviz.StepFound)
	}
	if f.Sorted[i] {
		return ColorSortedBar
	}
	if f.Bounds != nil && (i < f.Bounds.Low || i > f.Bounds.High) {
		return ColorOutOfRange
	}
	return ColorBar
}
