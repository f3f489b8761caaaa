package algoviz

import (
	"container/heap"
	"fmt"
	"slices"
)

// Heuristic estimates the remaining distance from a to b.
type Heuristic func(a, b Cell) int

// Manhattan is |dr| + |dc|. Admissible for 4-way unit-cost movement.
func Manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Chebyshev is max(|dr|, |dc|). Admissible for 8-way unit-cost movement.
func Chebyshev(a, b Cell) int {
	return max(abs(a.Row-b.Row), abs(a.Col-b.Col))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// PathQuery is the input of a pathfinding run. Grid holds 0 for open and 1
// for wall cells and is never modified. Start and End must lie on the grid.
type PathQuery struct {
	Grid     [][]int `json:"grid" yaml:"grid"`
	Start    Cell    `json:"start" yaml:"start"`
	End      Cell    `json:"end" yaml:"end"`
	Diagonal bool    `json:"diagonal" yaml:"diagonal"`

	// Heuristic overrides the A* / greedy estimate. Nil selects Manhattan,
	// or Chebyshev when Diagonal is set.
	Heuristic Heuristic `json:"-" yaml:"-"`
}

// PathResult is the outcome of a pathfinding run. Path runs from start to
// end inclusive and is empty when the end is unreachable. Visited lists
// expanded cells in expansion order.
type PathResult struct {
	Path    []Cell `json:"path" yaml:"path"`
	Visited []Cell `json:"visited" yaml:"visited"`
	Trace   Trace  `json:"steps" yaml:"steps"`
}

// Found reports whether a path was found.
func (r PathResult) Found() bool { return len(r.Path) > 0 }

// Neighbour offsets: up, right, down, left, then up-right, down-right,
// down-left, up-left.
var neighbourOffsets = [8]Cell{
	{-1, 0}, {0, 1}, {1, 0}, {0, -1},
	{-1, 1}, {1, 1}, {1, -1}, {-1, -1},
}

// search holds the state shared by all grid searches.
type search struct {
	q       PathQuery
	rows    int
	parent  map[Cell]Cell
	closed  map[Cell]bool
	visited []Cell
	rec     Recorder
}

func newSearch(q PathQuery) *search {
	s := &search{
		q:      q,
		rows:   len(q.Grid),
		parent: make(map[Cell]Cell),
		closed: make(map[Cell]bool),
	}
	return s
}

func (s *search) open(c Cell) bool {
	return c.Row >= 0 && c.Row < s.rows && c.Col >= 0 && c.Col < len(s.q.Grid[c.Row]) &&
		s.q.Grid[c.Row][c.Col] == 0
}

// neighbours returns the open neighbours of c in the fixed exploration order.
func (s *search) neighbours(c Cell) []Cell {
	n := 4
	if s.q.Diagonal {
		n = 8
	}
	out := make([]Cell, 0, n)
	for _, d := range neighbourOffsets[:n] {
		nb := Cell{c.Row + d.Row, c.Col + d.Col}
		if s.open(nb) {
			out = append(out, nb)
		}
	}
	return out
}

func (s *search) heuristic() Heuristic {
	if s.q.Heuristic != nil {
		return s.q.Heuristic
	}
	if s.q.Diagonal {
		return Chebyshev
	}
	return Manhattan
}

func (s *search) expand(c Cell) {
	s.closed[c] = true
	s.visited = append(s.visited, c)
	s.rec.visited(c)
}

// finish rebuilds the path by walking parents back from the end cell.
func (s *search) finish(reached bool) PathResult {
	var path []Cell
	if reached {
		for c := s.q.End; ; {
			path = append(path, c)
			if c == s.q.Start {
				break
			}
			c = s.parent[c]
		}
		slices.Reverse(path)
		for i, c := range path {
			s.rec.path(c, i, len(path))
		}
	} else {
		s.rec.notFound(fmt.Sprintf("No path from %s to %s", s.q.Start, s.q.End))
	}
	if path == nil {
		path = []Cell{}
	}
	visited := s.visited
	if visited == nil {
		visited = []Cell{}
	}
	return PathResult{Path: path, Visited: visited, Trace: s.rec.Trace()}
}

// BFS explores in breadth-first order. On a unit-cost grid the path is a
// shortest path.
func BFS(q PathQuery) PathResult {
	s := newSearch(q)
	if !s.open(q.Start) {
		return s.finish(false)
	}
	discovered := map[Cell]bool{q.Start: true}
	queue := []Cell{q.Start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		s.expand(c)
		if c == q.End {
			return s.finish(true)
		}
		for _, nb := range s.neighbours(c) {
			if discovered[nb] {
				continue
			}
			discovered[nb] = true
			s.parent[nb] = c
			queue = append(queue, nb)
		}
	}
	return s.finish(false)
}

// DFS explores depth-first with an explicit stack, taking neighbours in the
// fixed order. The path it returns is generally not a shortest path.
func DFS(q PathQuery) PathResult {
	s := newSearch(q)
	if !s.open(q.Start) {
		return s.finish(false)
	}
	type frame struct{ cell, from Cell }
	stack := []frame{{cell: q.Start, from: q.Start}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.closed[f.cell] {
			continue
		}
		if f.cell != q.Start {
			s.parent[f.cell] = f.from
		}
		s.expand(f.cell)
		if f.cell == q.End {
			return s.finish(true)
		}
		nbs := s.neighbours(f.cell)
		// Push in reverse so the first neighbour is popped first.
		for i := len(nbs) - 1; i >= 0; i-- {
			if !s.closed[nbs[i]] {
				stack = append(stack, frame{cell: nbs[i], from: f.cell})
			}
		}
	}
	return s.finish(false)
}

// Dijkstra expands cells in order of distance from the start. Every move
// costs 1, so the path is a shortest path.
func Dijkstra(q PathQuery) PathResult {
	return bestFirst(q, bestFirstRule{priority: func(g, h int) int { return g }})
}

// AStar expands cells in order of g + h. With the default heuristic the
// path is a shortest path.
func AStar(q PathQuery) PathResult {
	return bestFirst(q, bestFirstRule{priority: func(g, h int) int { return g + h }, heuristic: true})
}

// Greedy expands the cell that looks closest to the end, ignoring the
// distance already travelled. A cell keeps the parent that first discovered
// it, so the path is generally not a shortest path.
func Greedy(q PathQuery) PathResult {
	return bestFirst(q, bestFirstRule{
		priority:     func(g, h int) int { return h },
		heuristic:    true,
		discoverOnce: true,
	})
}

// bestFirstRule configures bestFirst. priority maps the cost so far and the
// heuristic estimate to the frontier key. Without discoverOnce a frontier
// cell is re-parented whenever a shorter route to it appears.
type bestFirstRule struct {
	priority     func(g, h int) int
	heuristic    bool
	discoverOnce bool
}

// bestFirst is the shared priority-queue search. Ties go to the entry pushed
// first.
func bestFirst(q PathQuery, rule bestFirstRule) PathResult {
	s := newSearch(q)
	if !s.open(q.Start) {
		return s.finish(false)
	}
	h := s.heuristic()
	estimate := func(c Cell) int {
		if !rule.heuristic {
			return 0
		}
		return h(c, q.End)
	}

	dist := map[Cell]int{q.Start: 0}
	pq := &frontier{}
	heap.Push(pq, &frontierItem{cell: q.Start, priority: rule.priority(0, estimate(q.Start))})
	for pq.Len() > 0 {
		it := heap.Pop(pq).(*frontierItem)
		if s.closed[it.cell] {
			continue
		}
		s.expand(it.cell)
		if it.cell == q.End {
			return s.finish(true)
		}
		g := dist[it.cell]
		for _, nb := range s.neighbours(it.cell) {
			if s.closed[nb] {
				continue
			}
			ng := g + 1
			if old, seen := dist[nb]; seen && (rule.discoverOnce || old <= ng) {
				continue
			}
			dist[nb] = ng
			s.parent[nb] = it.cell
			heap.Push(pq, &frontierItem{cell: nb, priority: rule.priority(ng, estimate(nb))})
		}
	}
	return s.finish(false)
}

type frontierItem struct {
	cell     Cell
	priority int
	seq      int
}

// frontier is a min-heap on (priority, seq) implementing heap.Interface.
type frontier struct {
	items []*frontierItem
	next  int
}

func (f *frontier) Len() int { return len(f.items) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.items[i], f.items[j]
	if a.priority != b.priority {
		return a.priority < b.priority
	}
	return a.seq < b.seq
}

func (f *frontier) Swap(i, j int) { f.items[i], f.items[j] = f.items[j], f.items[i] }

func (f *frontier) Push(x any) {
	it := x.(*frontierItem)
	it.seq = f.next
	f.next++
	f.items = append(f.items, it)
}

func (f *frontier) Pop() any {
	n := len(f.items)
	it := f.items[n-1]
	f.items[n-1] = nil
	f.items = f.items[:n-1]
	return it
}
