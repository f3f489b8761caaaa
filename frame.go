package algoviz

import "slices"

// ArrayFrame is the array view of a search or sort trace at one cursor.
type ArrayFrame struct {
	// Values is the input with every swap and set up to the cursor applied.
	Values []int
	// Highlight maps the positions touched by the current step to its type.
	Highlight map[int]StepType
	// Sorted marks positions reported in their final place so far.
	Sorted []bool
	// Bounds is the most recent search window, nil when none was recorded.
	Bounds *Bounds
	// Found is the index reported by a found step so far, or -1.
	Found int
	// Step is the current step; zero for an empty trace.
	Step Step
}

// ArrayFrameAt projects trace onto input at cursor. cursor is clamped to
// the trace.
func ArrayFrameAt(input []int, trace Trace, cursor int) ArrayFrame {
	f := ArrayFrame{
		Values:    slices.Clone(input),
		Highlight: make(map[int]StepType),
		Sorted:    make([]bool, len(input)),
		Found:     -1,
	}
	if trace.Empty() {
		return f
	}
	cursor = clampCursor(cursor, trace.Len())

	for i := 0; i <= cursor; i++ {
		st := trace.steps[i]
		applyArrayStep(f.Values, st)
		switch st.Type {
		case StepSorted:
			for _, idx := range st.Indices {
				if idx >= 0 && idx < len(f.Sorted) {
					f.Sorted[idx] = true
				}
			}
		case StepBounds:
			if st.Bounds != nil {
				b := *st.Bounds
				f.Bounds = &b
			}
		case StepFound:
			if len(st.Indices) > 0 {
				f.Found = st.Indices[0]
			}
		}
	}

	f.Step = trace.steps[cursor]
	if f.Step.Type != StepSorted {
		for _, idx := range f.Step.Indices {
			f.Highlight[idx] = f.Step.Type
		}
	}
	return f
}

// GridFrameAt projects a pathfinding trace onto grid at cursor. Visited and
// path marks never overwrite walls, start, or end.
func GridFrameAt(grid *Grid, trace Trace, cursor int) [][]CellState {
	g := grid.Clone()
	g.ClearOverlay()
	if trace.Empty() {
		return g.States()
	}
	cursor = clampCursor(cursor, trace.Len())
	for i := 0; i <= cursor; i++ {
		st := trace.steps[i]
		switch st.Type {
		case StepVisited:
			for _, c := range st.Cells {
				g.mark(c, CellVisited)
			}
		case StepPath:
			for _, c := range st.Cells {
				g.mark(c, CellPath)
			}
		}
	}
	return g.States()
}

func clampCursor(cursor, n int) int {
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
