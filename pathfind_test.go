package algoviz

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var pathFuncs = map[string]PathFunc{
	"bfs":      BFS,
	"dfs":      DFS,
	"dijkstra": Dijkstra,
	"astar":    AStar,
	"greedy":   Greedy,
}

const maze = `
S...#.....
.##.#.###.
.#..#...#.
.#.####.#.
.#......#E
`

func mustParse(t *testing.T, text string) *Grid {
	t.Helper()
	g, err := ParseGrid(text)
	if err != nil {
		t.Fatalf("ParseGrid: %v", err)
	}
	return g
}

// bruteForceDistance computes the shortest move count with a plain BFS over
// every cell, independent of the traced implementation. -1 = unreachable.
func bruteForceDistance(grid [][]int, start, end Cell, diagonal bool) int {
	rows := len(grid)
	dist := make(map[Cell]int)
	dist[start] = 0
	frontier := []Cell{start}
	n := 4
	if diagonal {
		n = 8
	}
	for len(frontier) > 0 {
		var next []Cell
		for _, c := range frontier {
			for _, d := range neighbourOffsets[:n] {
				nb := Cell{c.Row + d.Row, c.Col + d.Col}
				if nb.Row < 0 || nb.Row >= rows || nb.Col < 0 || nb.Col >= len(grid[0]) || grid[nb.Row][nb.Col] == 1 {
					continue
				}
				if _, ok := dist[nb]; ok {
					continue
				}
				dist[nb] = dist[c] + 1
				next = append(next, nb)
			}
		}
		frontier = next
	}
	if d, ok := dist[end]; ok {
		return d
	}
	return -1
}

func checkPathValid(t *testing.T, name string, q PathQuery, path []Cell) {
	t.Helper()
	if len(path) == 0 {
		return
	}
	if path[0] != q.Start || path[len(path)-1] != q.End {
		t.Errorf("%s: path runs %v..%v, want %v..%v", name, path[0], path[len(path)-1], q.Start, q.End)
	}
	seen := make(map[Cell]bool)
	for i, c := range path {
		if q.Grid[c.Row][c.Col] != 0 {
			t.Errorf("%s: path crosses wall at %v", name, c)
		}
		if seen[c] {
			t.Errorf("%s: path revisits %v", name, c)
		}
		seen[c] = true
		if i == 0 {
			continue
		}
		dr, dc := abs(c.Row-path[i-1].Row), abs(c.Col-path[i-1].Col)
		if dr > 1 || dc > 1 || dr+dc == 0 || (!q.Diagonal && dr+dc != 1) {
			t.Errorf("%s: illegal move %v -> %v", name, path[i-1], c)
		}
	}
}

func randomQuery(rng *rand.Rand, rows, cols int, density float64, diagonal bool) PathQuery {
	grid := make([][]int, rows)
	for r := range grid {
		grid[r] = make([]int, cols)
		for c := range grid[r] {
			if rng.Float64() < density {
				grid[r][c] = 1
			}
		}
	}
	start := Cell{rng.IntN(rows), rng.IntN(cols)}
	end := Cell{rng.IntN(rows), rng.IntN(cols)}
	grid[start.Row][start.Col] = 0
	grid[end.Row][end.Col] = 0
	return PathQuery{Grid: grid, Start: start, End: end, Diagonal: diagonal}
}

func TestPathfindingOnMaze(t *testing.T) {
	g := mustParse(t, maze)
	q := g.Query(false)
	want := bruteForceDistance(q.Grid, q.Start, q.End, false)
	if want < 0 {
		t.Fatal("maze fixture should be solvable")
	}
	for name, fn := range pathFuncs {
		res := fn(q)
		if !res.Found() {
			t.Errorf("%s found no path", name)
			continue
		}
		checkPathValid(t, name, q, res.Path)
		if len(res.Path)-1 < want {
			t.Errorf("%s path length %d shorter than optimum %d", name, len(res.Path)-1, want)
		}
	}
}

func TestShortestPathAlgorithms(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		diagonal := i%2 == 1
		q := randomQuery(rng, 2+rng.IntN(8), 2+rng.IntN(8), 0.3, diagonal)
		want := bruteForceDistance(q.Grid, q.Start, q.End, diagonal)
		for _, name := range []string{"bfs", "dijkstra", "astar"} {
			res := pathFuncs[name](q)
			got := len(res.Path) - 1
			if want < 0 {
				if res.Found() {
					t.Fatalf("%s found a path on unsolvable grid %v", name, q)
				}
				continue
			}
			if got != want {
				t.Fatalf("%s path length = %d, want %d (query %+v)", name, got, want, q)
			}
			checkPathValid(t, name, q, res.Path)
		}
		for _, name := range []string{"dfs", "greedy"} {
			res := pathFuncs[name](q)
			if res.Found() != (want >= 0) {
				t.Fatalf("%s found=%v, want %v", name, res.Found(), want >= 0)
			}
			checkPathValid(t, name, q, res.Path)
		}
	}
}

func TestAStarVisitsNoMoreThanDijkstra(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		q := randomQuery(rng, 3+rng.IntN(10), 3+rng.IntN(10), 0.25, false)
		a := AStar(q)
		d := Dijkstra(q)
		if len(a.Visited) > len(d.Visited) {
			t.Fatalf("A* visited %d cells, Dijkstra %d (query %+v)", len(a.Visited), len(d.Visited), q)
		}
	}
}

func TestDFSIsNotShortest(t *testing.T) {
	// Open 3x3: DFS goes up/right first and wanders; BFS goes straight.
	q := PathQuery{
		Grid:  [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		Start: Cell{2, 0},
		End:   Cell{2, 2},
	}
	dfs := DFS(q)
	bfs := BFS(q)
	if len(bfs.Path) != 3 {
		t.Fatalf("BFS path = %v, want 3 cells", bfs.Path)
	}
	if len(dfs.Path) <= len(bfs.Path) {
		t.Errorf("DFS path = %v, expected a detour longer than BFS", dfs.Path)
	}
}

func TestGreedyKeepsFirstParent(t *testing.T) {
	g := mustParse(t, `
.#.S
....
....
.#.#
.###
E.#.
....
`)
	res := Greedy(g.Query(true))
	want := []Cell{{0, 3}, {1, 3}, {2, 3}, {3, 2}, {2, 1}, {3, 0}, {4, 0}, {5, 0}}
	if diff := cmp.Diff(want, res.Path); diff != "" {
		t.Errorf("greedy path mismatch (-want +got):\n%s", diff)
	}
	checkFirstParent(t, g.Query(true), res)

	rng := rand.New(rand.NewPCG(3, 5))
	for i := 0; i < 200; i++ {
		q := randomQuery(rng, 3+rng.IntN(10), 3+rng.IntN(10), 0.25, i%2 == 1)
		checkFirstParent(t, q, Greedy(q))
	}
}

// checkFirstParent asserts that every path cell after the start follows the
// first expanded cell adjacent to it.
func checkFirstParent(t *testing.T, q PathQuery, res PathResult) {
	t.Helper()
	adjacent := func(a, b Cell) bool {
		dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
		if q.Diagonal {
			return max(dr, dc) == 1
		}
		return dr+dc == 1
	}
	for i := 1; i < len(res.Path); i++ {
		c := res.Path[i]
		for _, v := range res.Visited {
			if !adjacent(v, c) {
				continue
			}
			if v != res.Path[i-1] {
				t.Errorf("%v reached from %v, first discovered by %v", c, res.Path[i-1], v)
			}
			break
		}
	}
}

func TestEnclosedStart(t *testing.T) {
	g := mustParse(t, `
.....
.###.
.#S#.
.###.
....E
`)
	q := g.Query(false)
	for name, fn := range pathFuncs {
		res := fn(q)
		if len(res.Path) != 0 {
			t.Errorf("%s path = %v, want empty", name, res.Path)
		}
		if len(res.Visited) != 1 || res.Visited[0] != (Cell{2, 2}) {
			t.Errorf("%s visited = %v, want only the start", name, res.Visited)
		}
		last, _ := res.Trace.Last()
		if last.Type != StepNotFound {
			t.Errorf("%s last step = %s, want not-found", name, last.Type)
		}
	}
}

func TestUnreachableVisitsReachableRegion(t *testing.T) {
	g := mustParse(t, `
S..#...
...#...
...#..E
`)
	q := g.Query(true)
	for name, fn := range pathFuncs {
		res := fn(q)
		if res.Found() {
			t.Errorf("%s found a path through a solid wall", name)
		}
		if len(res.Visited) != 9 {
			t.Errorf("%s visited %d cells, want the 9 reachable", name, len(res.Visited))
		}
		for _, c := range res.Visited {
			if c.Col >= 3 {
				t.Errorf("%s visited unreachable %v", name, c)
			}
		}
	}
}

func TestDiagonalShortensPath(t *testing.T) {
	q := PathQuery{Grid: [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, Start: Cell{0, 0}, End: Cell{2, 2}}
	straight := BFS(q)
	q.Diagonal = true
	diag := BFS(q)
	if len(straight.Path) != 5 || len(diag.Path) != 3 {
		t.Errorf("path lengths = %d / %d, want 5 / 3", len(straight.Path), len(diag.Path))
	}
}

func TestStartEqualsEnd(t *testing.T) {
	q := PathQuery{Grid: [][]int{{0, 0}, {0, 0}}, Start: Cell{1, 1}, End: Cell{1, 1}}
	for name, fn := range pathFuncs {
		res := fn(q)
		if len(res.Path) != 1 || res.Path[0] != q.Start {
			t.Errorf("%s path = %v, want [start]", name, res.Path)
		}
	}
}

func TestPathTraceLayout(t *testing.T) {
	g := mustParse(t, maze)
	res := AStar(g.Query(false))
	nVisited := res.Trace.Count(StepVisited)
	if nVisited != len(res.Visited) {
		t.Errorf("visited steps = %d, want %d", nVisited, len(res.Visited))
	}
	if res.Trace.Count(StepPath) != len(res.Path) {
		t.Errorf("path steps = %d, want %d", res.Trace.Count(StepPath), len(res.Path))
	}
	for i := 0; i < nVisited; i++ {
		if res.Trace.At(i).Type != StepVisited {
			t.Fatalf("step %d = %s, want visited steps first", i, res.Trace.At(i).Type)
		}
	}
}

func TestPathfindingDeterministic(t *testing.T) {
	g := mustParse(t, maze)
	q := g.Query(true)
	for name, fn := range pathFuncs {
		a, b := fn(q), fn(q)
		if diff := cmp.Diff(a, b, cmp.AllowUnexported(Trace{})); diff != "" {
			t.Errorf("%s differs between runs (-first +second):\n%s", name, diff)
		}
	}
}

func TestNeighbourOrder(t *testing.T) {
	q := PathQuery{Grid: [][]int{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}, Start: Cell{1, 1}, End: Cell{9, 9}, Diagonal: true}
	s := newSearch(q)
	got := s.neighbours(Cell{1, 1})
	want := []Cell{{0, 1}, {1, 2}, {2, 1}, {1, 0}, {0, 2}, {2, 2}, {2, 0}, {0, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("neighbour order (-want +got):\n%s", diff)
	}
}
