package algoviz

import (
	"errors"
	"fmt"
	"strings"
)

// Cell is a (row, column) coordinate in a grid.
type Cell struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// String formats the cell as (row,col).
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// CellState is the display state of a grid cell.
type CellState uint8

const (
	CellEmpty   CellState = iota // open floor
	CellWall                     // blocked
	CellStart                    // search origin
	CellEnd                      // search goal
	CellPath                     // on the reconstructed path (display only)
	CellVisited                  // expanded by the search (display only)
)

var cellStateNames = [...]string{
	CellEmpty:   "empty",
	CellWall:    "wall",
	CellStart:   "start",
	CellEnd:     "end",
	CellPath:    "path",
	CellVisited: "visited",
}

// String returns the lowercase state name.
func (s CellState) String() string {
	if int(s) < len(cellStateNames) {
		return cellStateNames[s]
	}
	return fmt.Sprintf("CellState(%d)", s)
}

// MarshalText implements encoding.TextMarshaler.
func (s CellState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ASCII runes used by ParseGrid and Grid.String.
const (
	runeEmpty   = '.'
	runeWall    = '#'
	runeStart   = 'S'
	runeEnd     = 'E'
	runePath    = '*'
	runeVisited = 'o'
)

// Grid parse errors.
var (
	ErrEmptyGrid      = errors.New("grid is empty")
	ErrRaggedGrid     = errors.New("grid rows have different lengths")
	ErrMissingStart   = errors.New("grid has no start cell")
	ErrMissingEnd     = errors.New("grid has no end cell")
	ErrDuplicateStart = errors.New("grid has more than one start cell")
	ErrDuplicateEnd   = errors.New("grid has more than one end cell")
)

// Grid is a mutable board of cell states. It is owned by a view and edited
// by user interaction; pathfinding reads an immutable snapshot from Walls.
type Grid struct {
	rows, cols int
	cells      []CellState // row-major, len = rows*cols
	start, end Cell
}

// NewGrid returns an empty rows x cols grid with start at the top-left and
// end at the bottom-right corner.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]CellState, rows*cols),
		start: Cell{-1, -1},
		end:   Cell{-1, -1},
	}
	if rows > 0 && cols > 0 {
		g.SetStart(Cell{0, 0})
		g.SetEnd(Cell{rows - 1, cols - 1})
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// At returns the state of c. Out-of-bounds cells read as walls.
func (g *Grid) At(c Cell) CellState {
	if !g.InBounds(c) {
		return CellWall
	}
	return g.cells[c.Row*g.cols+c.Col]
}

// Set writes the state of c. Writing CellStart or CellEnd moves the
// start or end marker. Out-of-bounds writes are ignored.
func (g *Grid) Set(c Cell, s CellState) {
	switch s {
	case CellStart:
		g.SetStart(c)
	case CellEnd:
		g.SetEnd(c)
	default:
		if !g.InBounds(c) {
			return
		}
		g.cells[c.Row*g.cols+c.Col] = s
		if c == g.start {
			g.start = Cell{-1, -1}
		}
		if c == g.end {
			g.end = Cell{-1, -1}
		}
	}
}

// SetStart moves the start marker to c.
func (g *Grid) SetStart(c Cell) {
	if !g.InBounds(c) {
		return
	}
	if g.InBounds(g.start) {
		g.cells[g.start.Row*g.cols+g.start.Col] = CellEmpty
	}
	if c == g.end {
		g.end = Cell{-1, -1}
	}
	g.start = c
	g.cells[c.Row*g.cols+c.Col] = CellStart
}

// SetEnd moves the end marker to c.
func (g *Grid) SetEnd(c Cell) {
	if !g.InBounds(c) {
		return
	}
	if g.InBounds(g.end) {
		g.cells[g.end.Row*g.cols+g.end.Col] = CellEmpty
	}
	if c == g.start {
		g.start = Cell{-1, -1}
	}
	g.end = c
	g.cells[c.Row*g.cols+c.Col] = CellEnd
}

// Start returns the start cell, or false when none is set.
func (g *Grid) Start() (Cell, bool) { return g.start, g.InBounds(g.start) }

// End returns the end cell, or false when none is set.
func (g *Grid) End() (Cell, bool) { return g.end, g.InBounds(g.end) }

// ToggleWall flips c between wall and empty and reports whether c is a wall
// afterwards. Start and end cells are never turned into walls.
func (g *Grid) ToggleWall(c Cell) bool {
	switch g.At(c) {
	case CellStart, CellEnd:
		return false
	case CellWall:
		if g.InBounds(c) {
			g.cells[c.Row*g.cols+c.Col] = CellEmpty
		}
		return false
	default:
		if !g.InBounds(c) {
			return true
		}
		g.cells[c.Row*g.cols+c.Col] = CellWall
		return true
	}
}

// Walls returns a fresh 0/1 snapshot (1 = wall) for the pathfinding
// algorithms.
func (g *Grid) Walls() [][]int {
	out := make([][]int, g.rows)
	for r := 0; r < g.rows; r++ {
		row := make([]int, g.cols)
		for c := 0; c < g.cols; c++ {
			if g.cells[r*g.cols+c] == CellWall {
				row[c] = 1
			}
		}
		out[r] = row
	}
	return out
}

// Query builds a PathQuery for this grid's current walls, start, and end.
func (g *Grid) Query(diagonal bool) PathQuery {
	return PathQuery{Grid: g.Walls(), Start: g.start, End: g.end, Diagonal: diagonal}
}

// ClearOverlay resets every visited and path mark back to empty.
func (g *Grid) ClearOverlay() {
	for i, s := range g.cells {
		if s == CellVisited || s == CellPath {
			g.cells[i] = CellEmpty
		}
	}
}

// ApplyResult marks the visited cells and the path of res on the grid.
// Walls, start, and end keep their state. Existing overlay marks are cleared
// first.
func (g *Grid) ApplyResult(res PathResult) {
	g.ClearOverlay()
	for _, c := range res.Visited {
		g.mark(c, CellVisited)
	}
	for _, c := range res.Path {
		g.mark(c, CellPath)
	}
}

func (g *Grid) mark(c Cell, s CellState) {
	if !g.InBounds(c) {
		return
	}
	i := c.Row*g.cols + c.Col
	switch g.cells[i] {
	case CellWall, CellStart, CellEnd:
		return
	}
	g.cells[i] = s
}

// States returns a row-major 2D copy of the cell states.
func (g *Grid) States() [][]CellState {
	out := make([][]CellState, g.rows)
	for r := range out {
		out[r] = append([]CellState(nil), g.cells[r*g.cols:(r+1)*g.cols]...)
	}
	return out
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	c := *g
	c.cells = append([]CellState(nil), g.cells...)
	return &c
}

// String renders the grid in the ParseGrid format, one row per line.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			b.WriteRune(stateRune(g.cells[r*g.cols+c]))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func stateRune(s CellState) rune {
	switch s {
	case CellWall:
		return runeWall
	case CellStart:
		return runeStart
	case CellEnd:
		return runeEnd
	case CellPath:
		return runePath
	case CellVisited:
		return runeVisited
	default:
		return runeEmpty
	}
}

// ParseGrid reads an ASCII grid: '.' empty, '#' wall, 'S' start, 'E' end.
// '*' and 'o' overlay marks read as empty. Blank lines and lines starting
// with ';' are ignored. Exactly one start and one end are required.
func ParseGrid(text string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("parse grid: %w", ErrEmptyGrid)
	}

	cols := len([]rune(lines[0]))
	g := &Grid{
		rows:  len(lines),
		cols:  cols,
		cells: make([]CellState, len(lines)*cols),
		start: Cell{-1, -1},
		end:   Cell{-1, -1},
	}

	for r, line := range lines {
		runes := []rune(line)
		if len(runes) != cols {
			return nil, fmt.Errorf("parse grid: row %d has %d cells, want %d: %w", r, len(runes), cols, ErrRaggedGrid)
		}
		for c, ch := range runes {
			cell := Cell{r, c}
			switch ch {
			case runeEmpty, runePath, runeVisited:
			case runeWall:
				g.cells[r*cols+c] = CellWall
			case runeStart:
				if g.InBounds(g.start) {
					return nil, fmt.Errorf("parse grid: %s: %w", cell, ErrDuplicateStart)
				}
				g.start = cell
				g.cells[r*cols+c] = CellStart
			case runeEnd:
				if g.InBounds(g.end) {
					return nil, fmt.Errorf("parse grid: %s: %w", cell, ErrDuplicateEnd)
				}
				g.end = cell
				g.cells[r*cols+c] = CellEnd
			default:
				return nil, fmt.Errorf("parse grid: unknown rune %q at %s", ch, cell)
			}
		}
	}

	if !g.InBounds(g.start) {
		return nil, fmt.Errorf("parse grid: %w", ErrMissingStart)
	}
	if !g.InBounds(g.end) {
		return nil, fmt.Errorf("parse grid: %w", ErrMissingEnd)
	}
	return g, nil
}
