package algoviz

import (
	"errors"
	"slices"
	"testing"
)

func TestRegistryListsBuiltinsInOrder(t *testing.T) {
	r := NewRegistry()
	var ids []AlgorithmID
	for _, a := range r.List() {
		ids = append(ids, a.ID())
	}
	var want []AlgorithmID
	for _, a := range Builtins() {
		want = append(want, a.ID())
	}
	if !slices.Equal(ids, want) {
		t.Errorf("List() = %v, want %v", ids, want)
	}
	if n := len(r.ByKind(KindSort)); n != 7 {
		t.Errorf("sort algorithms = %d, want 7", n)
	}
	if n := len(r.ByKind(KindPathfind)); n != 5 {
		t.Errorf("pathfind algorithms = %d, want 5", n)
	}
}

func TestRegistryLookupErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup("bogo-sort"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Lookup(bogo-sort) err = %v, want ErrUnknownAlgorithm", err)
	}
	if _, err := r.LookupKind(IDBFS, KindSort); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("LookupKind(bfs, sort) err = %v, want ErrKindMismatch", err)
	}
	if err := r.Register(NewSortAlgorithm(IDBubbleSort, "again", BubbleSort)); !errors.Is(err, ErrDuplicateAlgorithm) {
		t.Errorf("duplicate Register err = %v", err)
	}
}

func TestRegistryCustomAlgorithm(t *testing.T) {
	r := NewEmptyRegistry()
	stdSort := func(values []int) SortResult {
		out := slices.Clone(values)
		slices.Sort(out)
		return SortResult{Sorted: out}
	}
	if err := r.Register(NewSortAlgorithm("std-sort", "Standard", stdSort)); err != nil {
		t.Fatal(err)
	}
	a, err := r.LookupKind("std-sort", KindSort)
	if err != nil {
		t.Fatal(err)
	}
	out := a.Run(Input{Values: []int{3, 1, 2}})
	if !slices.Equal(out.Sorted, []int{1, 2, 3}) || out.Index != -1 {
		t.Errorf("Run = %+v", out)
	}
}

func TestRunHelpersMatchDirectCalls(t *testing.T) {
	values := []int{1, 3, 5, 7, 9}
	sr, err := RunSearch(values, 7, IDBinarySearch)
	if err != nil {
		t.Fatal(err)
	}
	if want := BinarySearch(values, 7); sr.Index != want.Index || sr.Trace.Fingerprint() != want.Trace.Fingerprint() {
		t.Errorf("RunSearch = %d, want %d", sr.Index, want.Index)
	}

	so, err := RunSort([]int{3, 2, 1}, IDHeapSort)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(so.Sorted, []int{1, 2, 3}) {
		t.Errorf("RunSort = %v", so.Sorted)
	}

	q := NewGrid(3, 3).Query(false)
	pr, err := RunPathfind(q, IDAStar)
	if err != nil {
		t.Fatal(err)
	}
	if len(pr.Path) != 5 {
		t.Errorf("RunPathfind path = %v, want 5 cells", pr.Path)
	}

	if _, err := RunSort(values, IDBFS); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("RunSort(bfs) err = %v, want ErrKindMismatch", err)
	}
	if r, err := RunSearch(values, 1, "nope"); !errors.Is(err, ErrUnknownAlgorithm) || r.Index != -1 {
		t.Errorf("RunSearch(nope) = %d, %v", r.Index, err)
	}
}

func TestSourceRerunsAlgorithm(t *testing.T) {
	a, err := DefaultRegistry().Lookup(IDLinearSearch)
	if err != nil {
		t.Fatal(err)
	}
	src := Source(a, Input{Values: []int{4, 5, 6}, Target: 6})
	first, second := src(), src()
	if first.Len() != 4 || first.Fingerprint() != second.Fingerprint() {
		t.Errorf("source traces: %d steps, fingerprints %s / %s", first.Len(), first.Fingerprint(), second.Fingerprint())
	}
}
