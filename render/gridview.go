package render

import (
	"fmt"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/algoviz"
)

// GridView draws a pathfinding grid as one rect node per cell, coloured by
// cell state. Pressing on a cell toggles its wall; dragging with the button
// held paints the same wall state onto every cell the pointer enters.
// Start and end cells are never painted.
type GridView struct {
	node  *Node
	cells [][]*Node
	grid  *algoviz.Grid

	cellSize float64
	gap      float64

	states [][]algoviz.CellState

	painting  bool
	paintWall bool
	onEdit    func(c algoviz.Cell, wall bool)

	// TweenDuration is the colour animation time between frames in seconds.
	TweenDuration float32
	tweens        tweenSet

	player     *algoviz.Player
	lastCursor int
	lastLen    int
}

// NewGridView builds a view over grid with square cells of cellSize pixels.
// The grid is edited in place by pointer input.
func NewGridView(name string, grid *algoviz.Grid, cellSize float64) *GridView {
	v := &GridView{
		node:          NewContainer(name),
		cellSize:      cellSize,
		gap:           1,
		TweenDuration: defaultTweenDuration,
		lastCursor:    -1,
		lastLen:       -1,
	}
	v.node.Interactable = true
	v.node.OnUpdate = v.update
	v.SetGrid(grid)
	return v
}

// Node returns the view's container node.
func (v *GridView) Node() *Node { return v.node }

// Grid returns the grid being edited.
func (v *GridView) Grid() *algoviz.Grid { return v.grid }

// CellNode returns the node drawing c, or nil when c is off the grid.
func (v *GridView) CellNode(c algoviz.Cell) *Node {
	if !v.grid.InBounds(c) {
		return nil
	}
	return v.cells[c.Row][c.Col]
}

// States returns the cell states currently shown.
func (v *GridView) States() [][]algoviz.CellState { return v.states }

// SetOnEdit registers a callback fired after every wall toggle. Callers
// typically re-run the search from it.
func (v *GridView) SetOnEdit(fn func(c algoviz.Cell, wall bool)) {
	v.onEdit = fn
}

// Bind makes the view follow p's cursor.
func (v *GridView) Bind(p *algoviz.Player) {
	v.player = p
	v.lastCursor, v.lastLen = -1, -1
}

// SetGrid replaces the grid and rebuilds the cell nodes.
func (v *GridView) SetGrid(grid *algoviz.Grid) {
	v.tweens.finish()
	v.node.RemoveChildren()
	v.grid = grid
	v.painting = false
	v.cells = make([][]*Node, grid.Rows())
	v.states = grid.States()
	step := v.cellSize + v.gap
	for r := range v.cells {
		v.cells[r] = make([]*Node, grid.Cols())
		for c := range v.cells[r] {
			cell := algoviz.Cell{Row: r, Col: c}
			n := NewRect(fmt.Sprintf("cell_%d_%d", r, c), v.cellSize, v.cellSize, CellColor(v.states[r][c]))
			n.SetPosition(float64(c)*step, float64(r)*step)
			n.Interactable = true
			n.UserData = cell
			n.OnPointerDown = func(PointerContext) { v.beginPaint(cell) }
			n.OnPointerEnter = func(ctx PointerContext) {
				if ctx.Down && v.painting {
					v.paint(cell)
				}
			}
			n.OnPointerUp = func(PointerContext) { v.painting = false }
			v.node.AddChild(n)
			v.cells[r][c] = n
		}
	}
	v.node.SetSize(float64(grid.Cols())*step, float64(grid.Rows())*step)
}

func (v *GridView) beginPaint(c algoviz.Cell) {
	switch v.grid.At(c) {
	case algoviz.CellStart, algoviz.CellEnd:
		v.painting = false
		return
	}
	v.paintWall = v.grid.ToggleWall(c)
	v.painting = true
	v.edited(c, v.paintWall)
}

func (v *GridView) paint(c algoviz.Cell) {
	switch v.grid.At(c) {
	case algoviz.CellStart, algoviz.CellEnd:
		return
	case algoviz.CellWall:
		if v.paintWall {
			return
		}
	default:
		if !v.paintWall {
			return
		}
	}
	v.edited(c, v.grid.ToggleWall(c))
}

func (v *GridView) edited(c algoviz.Cell, wall bool) {
	s := v.grid.At(c)
	v.states[c.Row][c.Col] = s
	n := v.cells[c.Row][c.Col]
	delete(v.tweens.running, tweenKey{n, "color"})
	n.Color = CellColor(s)
	if v.onEdit != nil {
		v.onEdit(c, wall)
	}
}

// Show projects trace at cursor onto the cells. An empty trace shows the
// bare grid.
func (v *GridView) Show(trace algoviz.Trace, cursor int) {
	v.states = algoviz.GridFrameAt(v.grid, trace, cursor)
	for r, row := range v.cells {
		for c, n := range row {
			col := CellColor(v.states[r][c])
			if v.TweenDuration <= 0 || n.Color == col {
				n.Color = col
				continue
			}
			v.tweens.start(n, "color", TweenColor(n, col, v.TweenDuration, ease.Linear))
		}
	}
}

func (v *GridView) update(dt float64) {
	if v.player != nil {
		snap := v.player.Snapshot()
		if snap.Cursor != v.lastCursor || snap.Len != v.lastLen {
			v.lastCursor, v.lastLen = snap.Cursor, snap.Len
			v.Show(v.player.Trace(), snap.Cursor)
		}
	}
	v.tweens.update(float32(dt))
}
