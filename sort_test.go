package algoviz

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var sortFuncs = map[string]SortFunc{
	"bubble":    BubbleSort,
	"selection": SelectionSort,
	"insertion": InsertionSort,
	"merge":     MergeSort,
	"quick":     QuickSort,
	"heap":      HeapSort,
	"shell":     ShellSort,
}

func sortInputs() [][]int {
	rng := rand.New(rand.NewPCG(1, 2))
	inputs := [][]int{
		{},
		{7},
		{2, 1},
		{3, 1, 2},
		{1, 2, 3, 4, 5},
		{5, 4, 3, 2, 1},
		{4, 4, 4, 4},
		{3, -1, 0, -7, 12, 3, 3, 8},
	}
	for n := 6; n <= 40; n += 17 {
		in := make([]int, n)
		for i := range in {
			in[i] = rng.IntN(50) - 10
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func TestBubbleSortExample(t *testing.T) {
	res := BubbleSort([]int{3, 1, 2})
	if !slices.Equal(res.Sorted, []int{1, 2, 3}) {
		t.Fatalf("Sorted = %v, want [1 2 3]", res.Sorted)
	}
	if n := res.Trace.Count(StepSwap); n < 2 {
		t.Errorf("swap steps = %d, want at least 2", n)
	}
}

func TestSortsProduceSortedPermutation(t *testing.T) {
	for name, fn := range sortFuncs {
		for _, in := range sortInputs() {
			res := fn(in)
			want := slices.Clone(in)
			slices.Sort(want)
			if len(want) == 0 {
				want = nil
			}
			got := res.Sorted
			if len(got) == 0 {
				got = nil
			}
			if !slices.Equal(got, want) {
				t.Errorf("%s(%v) = %v, want %v", name, in, res.Sorted, want)
			}
		}
	}
}

func TestSortsDoNotMutateInput(t *testing.T) {
	for name, fn := range sortFuncs {
		in := []int{9, 3, 7, 1, 8}
		orig := slices.Clone(in)
		fn(in)
		if !slices.Equal(in, orig) {
			t.Errorf("%s mutated input: %v, want %v", name, in, orig)
		}
	}
}

func TestReplayReproducesSorted(t *testing.T) {
	for name, fn := range sortFuncs {
		for _, in := range sortInputs() {
			res := fn(in)
			got := ReplaySort(in, res.Trace)
			if !slices.Equal(got, res.Sorted) {
				t.Errorf("%s replay of %v = %v, want %v", name, in, got, res.Sorted)
			}
		}
	}
}

func TestSortsDeterministic(t *testing.T) {
	in := []int{5, 2, 9, 2, 7, 1, 8, 3}
	for name, fn := range sortFuncs {
		a, b := fn(in), fn(in)
		if diff := cmp.Diff(a.Trace.Steps(), b.Trace.Steps()); diff != "" {
			t.Errorf("%s trace differs (-first +second):\n%s", name, diff)
		}
	}
}

func TestSortsEndWithEverythingSorted(t *testing.T) {
	in := []int{4, 1, 3, 2}
	for name, fn := range sortFuncs {
		res := fn(in)
		last, ok := res.Trace.Last()
		if !ok || last.Type != StepSorted || len(last.Indices) != len(in) {
			t.Errorf("%s last step = %+v, want sorted over all %d indices", name, last, len(in))
		}
	}
}

func TestSortsRecordComparisons(t *testing.T) {
	for name, fn := range sortFuncs {
		res := fn([]int{2, 1})
		if res.Trace.Count(StepCompare) == 0 {
			t.Errorf("%s recorded no comparisons", name)
		}
	}
}

func TestQuickSortSelectsLastElementAsPivot(t *testing.T) {
	res := QuickSort([]int{4, 2, 3})
	first := res.Trace.At(0)
	if first.Type != StepSelect || first.Indices[0] != 2 {
		t.Fatalf("first step = %+v, want select at 2", first)
	}
}

func TestMergeSortUsesSetSteps(t *testing.T) {
	res := MergeSort([]int{3, 2, 1})
	if res.Trace.Count(StepSwap) != 0 {
		t.Errorf("merge sort recorded %d swaps, want 0", res.Trace.Count(StepSwap))
	}
	if res.Trace.Count(StepSet) == 0 {
		t.Error("merge sort recorded no set steps")
	}
}
