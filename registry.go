package algoviz

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// AlgorithmID names an algorithm in a Registry.
type AlgorithmID string

// Built-in algorithm identifiers.
const (
	IDLinearSearch        AlgorithmID = "linear-search"
	IDBinarySearch        AlgorithmID = "binary-search"
	IDJumpSearch          AlgorithmID = "jump-search"
	IDInterpolationSearch AlgorithmID = "interpolation-search"

	IDBubbleSort    AlgorithmID = "bubble-sort"
	IDSelectionSort AlgorithmID = "selection-sort"
	IDInsertionSort AlgorithmID = "insertion-sort"
	IDMergeSort     AlgorithmID = "merge-sort"
	IDQuickSort     AlgorithmID = "quick-sort"
	IDHeapSort      AlgorithmID = "heap-sort"
	IDShellSort     AlgorithmID = "shell-sort"

	IDBFS      AlgorithmID = "bfs"
	IDDFS      AlgorithmID = "dfs"
	IDDijkstra AlgorithmID = "dijkstra"
	IDAStar    AlgorithmID = "astar"
	IDGreedy   AlgorithmID = "greedy"
)

// Kind groups algorithms by the input they take.
type Kind uint8

const (
	KindSearch   Kind = iota // array + target
	KindSort                 // array
	KindPathfind             // grid + start + end
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSearch:
		return "search"
	case KindSort:
		return "sort"
	case KindPathfind:
		return "pathfind"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Registry errors.
var (
	ErrUnknownAlgorithm   = errors.New("unknown algorithm")
	ErrDuplicateAlgorithm = errors.New("algorithm already registered")
	ErrKindMismatch       = errors.New("algorithm kind mismatch")
)

// Input is the common input of every algorithm. Each kind reads only its
// own fields: Values and Target for search, Values for sort, the PathQuery
// fields for pathfinding.
type Input struct {
	Values []int `json:"values,omitempty" yaml:"values,omitempty"`
	Target int   `json:"target,omitempty" yaml:"target,omitempty"`
	PathQuery
}

// Output is the common result of every algorithm. Index is meaningful for
// search, Sorted for sort, and Path/Visited for pathfinding.
type Output struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Trace   Trace  `json:"steps" yaml:"steps"`
	Index   int    `json:"index" yaml:"index"`
	Sorted  []int  `json:"sorted,omitempty" yaml:"sorted,omitempty"`
	Path    []Cell `json:"path,omitempty" yaml:"path,omitempty"`
	Visited []Cell `json:"visited,omitempty" yaml:"visited,omitempty"`
}

// Algorithm is an algorithm resolved from a Registry.
type Algorithm interface {
	ID() AlgorithmID
	Name() string
	Kind() Kind
	Run(in Input) Output
}

// SearchFunc, SortFunc, and PathFunc are the per-kind algorithm signatures.
type (
	SearchFunc func(values []int, target int) SearchResult
	SortFunc   func(values []int) SortResult
	PathFunc   func(q PathQuery) PathResult
)

type algorithm struct {
	id   AlgorithmID
	name string
	kind Kind
	run  func(Input) Output
}

func (a *algorithm) ID() AlgorithmID     { return a.id }
func (a *algorithm) Name() string        { return a.name }
func (a *algorithm) Kind() Kind          { return a.kind }
func (a *algorithm) Run(in Input) Output { return a.run(in) }

// NewSearchAlgorithm wraps a search function as an Algorithm.
func NewSearchAlgorithm(id AlgorithmID, name string, fn SearchFunc) Algorithm {
	return &algorithm{id: id, name: name, kind: KindSearch, run: func(in Input) Output {
		res := fn(in.Values, in.Target)
		return Output{Kind: KindSearch, Trace: res.Trace, Index: res.Index}
	}}
}

// NewSortAlgorithm wraps a sort function as an Algorithm.
func NewSortAlgorithm(id AlgorithmID, name string, fn SortFunc) Algorithm {
	return &algorithm{id: id, name: name, kind: KindSort, run: func(in Input) Output {
		res := fn(in.Values)
		return Output{Kind: KindSort, Trace: res.Trace, Index: -1, Sorted: res.Sorted}
	}}
}

// NewPathAlgorithm wraps a pathfinding function as an Algorithm.
func NewPathAlgorithm(id AlgorithmID, name string, fn PathFunc) Algorithm {
	return &algorithm{id: id, name: name, kind: KindPathfind, run: func(in Input) Output {
		res := fn(in.PathQuery)
		return Output{Kind: KindPathfind, Trace: res.Trace, Index: -1, Path: res.Path, Visited: res.Visited}
	}}
}

// Builtins returns fresh instances of every built-in algorithm in display
// order: searches, sorts, then pathfinders.
func Builtins() []Algorithm {
	return []Algorithm{
		NewSearchAlgorithm(IDLinearSearch, "Linear Search", LinearSearch),
		NewSearchAlgorithm(IDBinarySearch, "Binary Search", BinarySearch),
		NewSearchAlgorithm(IDJumpSearch, "Jump Search", JumpSearch),
		NewSearchAlgorithm(IDInterpolationSearch, "Interpolation Search", InterpolationSearch),

		NewSortAlgorithm(IDBubbleSort, "Bubble Sort", BubbleSort),
		NewSortAlgorithm(IDSelectionSort, "Selection Sort", SelectionSort),
		NewSortAlgorithm(IDInsertionSort, "Insertion Sort", InsertionSort),
		NewSortAlgorithm(IDMergeSort, "Merge Sort", MergeSort),
		NewSortAlgorithm(IDQuickSort, "Quick Sort", QuickSort),
		NewSortAlgorithm(IDHeapSort, "Heap Sort", HeapSort),
		NewSortAlgorithm(IDShellSort, "Shell Sort", ShellSort),

		NewPathAlgorithm(IDBFS, "Breadth-First Search", BFS),
		NewPathAlgorithm(IDDFS, "Depth-First Search", DFS),
		NewPathAlgorithm(IDDijkstra, "Dijkstra", Dijkstra),
		NewPathAlgorithm(IDAStar, "A*", AStar),
		NewPathAlgorithm(IDGreedy, "Greedy Best-First", Greedy),
	}
}

// Registry maps algorithm identifiers to implementations. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	algs  map[AlgorithmID]Algorithm
	order map[AlgorithmID]int
	next  int
}

// NewRegistry returns a registry preloaded with Builtins.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	for _, a := range Builtins() {
		_ = r.Register(a)
	}
	return r
}

// NewEmptyRegistry returns a registry with no algorithms.
func NewEmptyRegistry() *Registry {
	return &Registry{
		algs:  make(map[AlgorithmID]Algorithm),
		order: make(map[AlgorithmID]int),
	}
}

// Register adds a. Registering an id twice fails with ErrDuplicateAlgorithm.
func (r *Registry) Register(a Algorithm) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.algs[a.ID()]; ok {
		return fmt.Errorf("register %q: %w", a.ID(), ErrDuplicateAlgorithm)
	}
	r.algs[a.ID()] = a
	r.order[a.ID()] = r.next
	r.next++
	return nil
}

// Lookup resolves id. Unknown ids fail with ErrUnknownAlgorithm.
func (r *Registry) Lookup(id AlgorithmID) (Algorithm, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.algs[id]
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", id, ErrUnknownAlgorithm)
	}
	return a, nil
}

// LookupKind resolves id and checks that it has the wanted kind.
func (r *Registry) LookupKind(id AlgorithmID, kind Kind) (Algorithm, error) {
	a, err := r.Lookup(id)
	if err != nil {
		return nil, err
	}
	if a.Kind() != kind {
		return nil, fmt.Errorf("%q is a %s algorithm, not %s: %w", id, a.Kind(), kind, ErrKindMismatch)
	}
	return a, nil
}

// List returns every registered algorithm in registration order.
func (r *Registry) List() []Algorithm {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Algorithm, 0, len(r.algs))
	for _, a := range r.algs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return r.order[out[i].ID()] < r.order[out[j].ID()]
	})
	return out
}

// ByKind returns the registered algorithms of one kind in registration order.
func (r *Registry) ByKind(kind Kind) []Algorithm {
	var out []Algorithm
	for _, a := range r.List() {
		if a.Kind() == kind {
			out = append(out, a)
		}
	}
	return out
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the shared registry of built-in algorithms used by
// RunSearch, RunSort, and RunPathfind.
func DefaultRegistry() *Registry { return defaultRegistry }

// RunSearch runs the search algorithm id from the default registry.
func RunSearch(values []int, target int, id AlgorithmID) (SearchResult, error) {
	a, err := defaultRegistry.LookupKind(id, KindSearch)
	if err != nil {
		return SearchResult{Index: -1}, err
	}
	out := a.Run(Input{Values: values, Target: target})
	return SearchResult{Index: out.Index, Trace: out.Trace}, nil
}

// RunSort runs the sort algorithm id from the default registry.
func RunSort(values []int, id AlgorithmID) (SortResult, error) {
	a, err := defaultRegistry.LookupKind(id, KindSort)
	if err != nil {
		return SortResult{}, err
	}
	out := a.Run(Input{Values: values})
	return SortResult{Sorted: out.Sorted, Trace: out.Trace}, nil
}

// RunPathfind runs the pathfinding algorithm id from the default registry.
func RunPathfind(q PathQuery, id AlgorithmID) (PathResult, error) {
	a, err := defaultRegistry.LookupKind(id, KindPathfind)
	if err != nil {
		return PathResult{}, err
	}
	out := a.Run(Input{PathQuery: q})
	return PathResult{Path: out.Path, Visited: out.Visited, Trace: out.Trace}, nil
}

// Source binds an algorithm to an input and returns a trace generator for a
// Player. Each call re-runs the algorithm.
func Source(a Algorithm, in Input) func() Trace {
	return func() Trace { return a.Run(in).Trace }
}
