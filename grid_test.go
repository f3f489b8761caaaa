package algoviz

import (
	"errors"
	"testing"
)

func TestParseGridRoundTrip(t *testing.T) {
	text := "S.#\n.#.\n..E\n"
	g := mustParse(t, text)
	if g.Rows() != 3 || g.Cols() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", g.Rows(), g.Cols())
	}
	if got := g.String(); got != text {
		t.Errorf("String() = %q, want %q", got, text)
	}
	if s, _ := g.Start(); s != (Cell{0, 0}) {
		t.Errorf("start = %v", s)
	}
	if e, _ := g.End(); e != (Cell{2, 2}) {
		t.Errorf("end = %v", e)
	}
}

func TestParseGridSkipsCommentsAndOverlay(t *testing.T) {
	g := mustParse(t, "; a comment\n\nSo*\n..E\n")
	if g.At(Cell{0, 1}) != CellEmpty || g.At(Cell{0, 2}) != CellEmpty {
		t.Errorf("overlay runes should parse as empty, got %s %s", g.At(Cell{0, 1}), g.At(Cell{0, 2}))
	}
}

func TestParseGridErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		want error
	}{
		{"empty", "\n\n", ErrEmptyGrid},
		{"ragged", "S..\n.E\n", ErrRaggedGrid},
		{"no start", "...\n..E\n", ErrMissingStart},
		{"no end", "S..\n...\n", ErrMissingEnd},
		{"two starts", "S.S\n..E\n", ErrDuplicateStart},
		{"two ends", "S.E\n..E\n", ErrDuplicateEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGrid(tt.text)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := ParseGrid("S?E\n"); err == nil {
		t.Error("unknown rune should fail")
	}
}

func TestToggleWallKeepsEndpoints(t *testing.T) {
	g := NewGrid(3, 3)
	if g.ToggleWall(Cell{0, 0}) || g.At(Cell{0, 0}) != CellStart {
		t.Error("start turned into a wall")
	}
	if g.ToggleWall(Cell{2, 2}) || g.At(Cell{2, 2}) != CellEnd {
		t.Error("end turned into a wall")
	}
	if !g.ToggleWall(Cell{1, 1}) {
		t.Error("toggle on empty should make a wall")
	}
	if g.ToggleWall(Cell{1, 1}) || g.At(Cell{1, 1}) != CellEmpty {
		t.Error("second toggle should clear the wall")
	}
}

func TestWallsSnapshotIsIndependent(t *testing.T) {
	g := NewGrid(2, 3)
	g.ToggleWall(Cell{0, 1})
	walls := g.Walls()
	if walls[0][1] != 1 || walls[0][0] != 0 {
		t.Fatalf("walls = %v", walls)
	}
	walls[1][1] = 1
	if g.At(Cell{1, 1}) != CellEmpty {
		t.Error("writing the snapshot changed the grid")
	}
}

func TestApplyResultPreservesEndpointsAndWalls(t *testing.T) {
	g := mustParse(t, "S.#\n...\n..E\n")
	res := BFS(g.Query(false))
	g.ApplyResult(res)
	if g.At(Cell{0, 0}) != CellStart || g.At(Cell{2, 2}) != CellEnd || g.At(Cell{0, 2}) != CellWall {
		t.Fatalf("endpoints or walls overwritten:\n%s", g)
	}
	onPath := 0
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if g.At(Cell{r, c}) == CellPath {
				onPath++
			}
		}
	}
	if onPath != len(res.Path)-2 {
		t.Errorf("path marks = %d, want %d", onPath, len(res.Path)-2)
	}
	g.ClearOverlay()
	if g.String() != "S.#\n...\n..E\n" {
		t.Errorf("ClearOverlay left marks:\n%s", g)
	}
}

func TestSetStartMovesMarker(t *testing.T) {
	g := NewGrid(2, 2)
	g.SetStart(Cell{1, 0})
	if g.At(Cell{0, 0}) != CellEmpty || g.At(Cell{1, 0}) != CellStart {
		t.Errorf("grid after move:\n%s", g)
	}
	g.SetStart(Cell{1, 1})
	if _, ok := g.End(); ok {
		t.Error("moving start onto end should clear the end")
	}
}

func TestOutOfBoundsReadsAsWall(t *testing.T) {
	g := NewGrid(1, 1)
	if g.At(Cell{-1, 0}) != CellWall || g.At(Cell{0, 5}) != CellWall {
		t.Error("out-of-bounds cells should read as walls")
	}
}
