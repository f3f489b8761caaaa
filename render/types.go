package render

import (
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/algoviz"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default node color.
var ColorWhite = Color{1, 1, 1, 1}

// RGB returns an opaque color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	clamp := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{
		R: clamp(c.R * c.A),
		G: clamp(c.G * c.A),
		B: clamp(c.B * c.A),
		A: clamp(c.A),
	}
}

// Vec2 is a 2D vector used for positions and sizes.
type Vec2 struct {
	X, Y float64
}

var (
	whitePixelOnce sync.Once
	whitePixel     *ebiten.Image
)

// WhitePixel returns the shared 1x1 white image that solid nodes are drawn
// with. It is created on first use.
func WhitePixel() *ebiten.Image {
	whitePixelOnce.Do(func() {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	})
	return whitePixel
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // a pointer button was pressed
	EventPointerUp                     // a pointer button was released
	EventClick                         // press then release over the same node
	EventDragStart                     // movement exceeded the drag dead zone
	EventDrag                          // each frame while dragging
	EventDragEnd                       // release after dragging
	EventPointerEnter                  // the pointer entered a node's bounds
	EventPointerLeave                  // the pointer left a node's bounds
)

var eventTypeNames = [...]string{
	EventPointerDown:  "pointer-down",
	EventPointerUp:    "pointer-up",
	EventClick:        "click",
	EventDragStart:    "drag-start",
	EventDrag:         "drag",
	EventDragEnd:      "drag-end",
	EventPointerEnter: "pointer-enter",
	EventPointerLeave: "pointer-leave",
}

func (e EventType) String() string {
	if int(e) < len(eventTypeNames) {
		return eventTypeNames[e]
	}
	return "unknown"
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button
)

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// Palette colours for bars and grid cells.
var (
	ColorBar        = RGB(0x5b, 0x8d, 0xef)
	ColorSortedBar  = RGB(0x3c, 0xb3, 0x71)
	ColorOutOfRange = Color{0.35, 0.35, 0.4, 0.5}
	ColorBackground = RGB(0x1e, 0x1f, 0x26)
)

var stepColors = [...]Color{
	algoviz.StepCompare:  RGB(0xf5, 0xc2, 0x42),
	algoviz.StepSwap:     RGB(0xef, 0x5b, 0x5b),
	algoviz.StepSelect:   RGB(0xb0, 0x6a, 0xef),
	algoviz.StepSet:      RGB(0xef, 0x8f, 0x3c),
	algoviz.StepSorted:   ColorSortedBar,
	algoviz.StepBounds:   RGB(0x7f, 0xd6, 0xe8),
	algoviz.StepFound:    RGB(0x2e, 0xe5, 0x7a),
	algoviz.StepNotFound: RGB(0x9a, 0x9a, 0x9a),
	algoviz.StepVisited:  RGB(0x4f, 0x7c, 0xac),
	algoviz.StepPath:     RGB(0xf5, 0xd0, 0x42),
}

// StepColor returns the highlight colour for a step type.
func StepColor(t algoviz.StepType) Color {
	if int(t) < len(stepColors) {
		return stepColors[t]
	}
	return ColorWhite
}

var cellColors = [...]Color{
	algoviz.CellEmpty:   RGB(0xf0, 0xf0, 0xf0),
	algoviz.CellWall:    RGB(0x2b, 0x2d, 0x42),
	algoviz.CellStart:   RGB(0x2e, 0xc4, 0x6b),
	algoviz.CellEnd:     RGB(0xe5, 0x48, 0x4d),
	algoviz.CellPath:    RGB(0xf5, 0xd0, 0x42),
	algoviz.CellVisited: RGB(0x9c, 0xc3, 0xe6),
}

// CellColor returns the fill colour for a cell state.
func CellColor(s algoviz.CellState) Color {
	if int(s) < len(cellColors) {
		return cellColors[s]
	}
	return ColorWhite
}
