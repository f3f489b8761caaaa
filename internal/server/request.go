package server

import (
	"errors"
	"fmt"

	"github.com/phanxgames/algoviz"
)

// ErrInvalidInput marks a request the algorithms cannot be run on.
var ErrInvalidInput = errors.New("invalid input")

// Limits bounds request sizes. Zero fields are unlimited.
type Limits struct {
	MaxArrayLen  int
	MaxGridCells int
}

// RunRequest is the body of /v1/search, /v1/sort and /v1/pathfind, and the
// payload of a websocket load command. A pathfinding grid is given either
// as Grid (0 open, 1 wall) with Start and End, or as ASCII Text in the
// ParseGrid format, where Start and End default to the S and E cells.
type RunRequest struct {
	Algorithm algoviz.AlgorithmID `json:"algorithm"`

	Values []int `json:"values,omitempty"`
	Target int   `json:"target,omitempty"`

	Grid     [][]int       `json:"grid,omitempty"`
	Text     string        `json:"text,omitempty"`
	Start    *algoviz.Cell `json:"start,omitempty"`
	End      *algoviz.Cell `json:"end,omitempty"`
	Diagonal bool          `json:"diagonal,omitempty"`
}

// Input validates the request for an algorithm of the given kind and
// builds its input.
func (r RunRequest) Input(kind algoviz.Kind, lim Limits) (algoviz.Input, error) {
	switch kind {
	case algoviz.KindSearch:
		if err := checkValues(r.Values, lim); err != nil {
			return algoviz.Input{}, err
		}
		return algoviz.Input{Values: r.Values, Target: r.Target}, nil
	case algoviz.KindSort:
		if err := checkValues(r.Values, lim); err != nil {
			return algoviz.Input{}, err
		}
		return algoviz.Input{Values: r.Values}, nil
	case algoviz.KindPathfind:
		q, err := r.pathQuery(lim)
		if err != nil {
			return algoviz.Input{}, err
		}
		return algoviz.Input{PathQuery: q}, nil
	default:
		return algoviz.Input{}, fmt.Errorf("unsupported kind %s: %w", kind, ErrInvalidInput)
	}
}

func checkValues(values []int, lim Limits) error {
	if len(values) == 0 {
		return fmt.Errorf("values must not be empty: %w", ErrInvalidInput)
	}
	if lim.MaxArrayLen > 0 && len(values) > lim.MaxArrayLen {
		return fmt.Errorf("values has %d elements, limit is %d: %w", len(values), lim.MaxArrayLen, ErrInvalidInput)
	}
	return nil
}

func (r RunRequest) pathQuery(lim Limits) (algoviz.PathQuery, error) {
	grid, start, end := r.Grid, r.Start, r.End
	if r.Text != "" {
		g, err := algoviz.ParseGrid(r.Text)
		if err != nil {
			return algoviz.PathQuery{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		grid = g.Walls()
		if start == nil {
			s, _ := g.Start()
			start = &s
		}
		if end == nil {
			e, _ := g.End()
			end = &e
		}
	}

	if len(grid) == 0 || len(grid[0]) == 0 {
		return algoviz.PathQuery{}, fmt.Errorf("grid must not be empty: %w", ErrInvalidInput)
	}
	rows, cols := len(grid), len(grid[0])
	if lim.MaxGridCells > 0 && rows*cols > lim.MaxGridCells {
		return algoviz.PathQuery{}, fmt.Errorf("grid has %d cells, limit is %d: %w", rows*cols, lim.MaxGridCells, ErrInvalidInput)
	}
	for i, row := range grid {
		if len(row) != cols {
			return algoviz.PathQuery{}, fmt.Errorf("grid row %d has %d cells, want %d: %w", i, len(row), cols, ErrInvalidInput)
		}
		for j, v := range row {
			if v != 0 && v != 1 {
				return algoviz.PathQuery{}, fmt.Errorf("grid cell (%d,%d) is %d, want 0 or 1: %w", i, j, v, ErrInvalidInput)
			}
		}
	}

	inBounds := func(c algoviz.Cell) bool {
		return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
	}
	switch {
	case start == nil:
		return algoviz.PathQuery{}, fmt.Errorf("start is required: %w", ErrInvalidInput)
	case end == nil:
		return algoviz.PathQuery{}, fmt.Errorf("end is required: %w", ErrInvalidInput)
	case !inBounds(*start):
		return algoviz.PathQuery{}, fmt.Errorf("start %s is outside the %dx%d grid: %w", *start, rows, cols, ErrInvalidInput)
	case !inBounds(*end):
		return algoviz.PathQuery{}, fmt.Errorf("end %s is outside the %dx%d grid: %w", *end, rows, cols, ErrInvalidInput)
	}

	return algoviz.PathQuery{Grid: grid, Start: *start, End: *end, Diagonal: r.Diagonal}, nil
}
