package algoviz

import (
	"fmt"
	"slices"
)

// SortResult is the outcome of a sort run. Sorted is a new slice; the input
// is never modified.
type SortResult struct {
	Sorted []int `json:"sorted" yaml:"sorted"`
	Trace  Trace `json:"steps" yaml:"steps"`
}

// sorter carries the working copy and recorder shared by every sort.
type sorter struct {
	a   []int
	rec Recorder
}

func newSorter(values []int) *sorter {
	return &sorter{a: slices.Clone(values)}
}

func (s *sorter) result() SortResult {
	return SortResult{Sorted: s.a, Trace: s.rec.Trace()}
}

// greater reports a[i] > a[j] and records the comparison.
func (s *sorter) greater(i, j int) bool {
	s.rec.compare(fmt.Sprintf("Compare %d and %d", s.a[i], s.a[j]), i, j)
	return s.a[i] > s.a[j]
}

func (s *sorter) swap(i, j int) {
	s.rec.swap(i, j, fmt.Sprintf("Swap %d and %d", s.a[i], s.a[j]))
	s.a[i], s.a[j] = s.a[j], s.a[i]
}

func (s *sorter) set(i, v int) {
	s.rec.set(i, v, fmt.Sprintf("Write %d at index %d", v, i))
	s.a[i] = v
}

func (s *sorter) markSorted(indices ...int) {
	if len(indices) == 1 {
		s.rec.sorted(fmt.Sprintf("Index %d is in place", indices[0]), indices...)
		return
	}
	s.rec.sorted("Array is sorted", indices...)
}

func (s *sorter) markAllSorted() {
	if len(s.a) == 0 {
		return
	}
	idx := make([]int, len(s.a))
	for i := range idx {
		idx[i] = i
	}
	s.markSorted(idx...)
}

// BubbleSort repeatedly swaps adjacent out-of-order pairs. A pass with no
// swaps ends the run early.
func BubbleSort(values []int) SortResult {
	s := newSorter(values)
	n := len(s.a)
	for i := 0; i < n-1; i++ {
		swapped := false
		for j := 0; j < n-1-i; j++ {
			if s.greater(j, j+1) {
				s.swap(j, j+1)
				swapped = true
			}
		}
		s.markSorted(n - 1 - i)
		if !swapped {
			break
		}
	}
	s.markAllSorted()
	return s.result()
}

// SelectionSort moves the minimum of the unsorted suffix to its front.
func SelectionSort(values []int) SortResult {
	s := newSorter(values)
	n := len(s.a)
	for i := 0; i < n-1; i++ {
		minIdx := i
		s.rec.selectAt(i, fmt.Sprintf("Current minimum %d at index %d", s.a[i], i))
		for j := i + 1; j < n; j++ {
			if s.greater(minIdx, j) {
				minIdx = j
				s.rec.selectAt(j, fmt.Sprintf("New minimum %d at index %d", s.a[j], j))
			}
		}
		if minIdx != i {
			s.swap(i, minIdx)
		}
		s.markSorted(i)
	}
	s.markAllSorted()
	return s.result()
}

// InsertionSort shifts each key left until the prefix is ordered.
func InsertionSort(values []int) SortResult {
	s := newSorter(values)
	for i := 1; i < len(s.a); i++ {
		s.insertWithGap(i, 1)
	}
	s.markAllSorted()
	return s.result()
}

// insertWithGap performs one gapped insertion of a[i] using shifts recorded
// as set steps.
func (s *sorter) insertWithGap(i, gap int) {
	key := s.a[i]
	s.rec.selectAt(i, fmt.Sprintf("Insert key %d", key))
	j := i
	for j >= gap {
		s.rec.compare(fmt.Sprintf("Compare %d and key %d", s.a[j-gap], key), j-gap, j)
		if s.a[j-gap] <= key {
			break
		}
		s.set(j, s.a[j-gap])
		j -= gap
	}
	if j != i {
		s.set(j, key)
	}
}

// ShellSort runs gapped insertion sorts with gaps n/2, n/4, ..., 1.
func ShellSort(values []int) SortResult {
	s := newSorter(values)
	n := len(s.a)
	for gap := n / 2; gap > 0; gap /= 2 {
		for i := gap; i < n; i++ {
			s.insertWithGap(i, gap)
		}
	}
	s.markAllSorted()
	return s.result()
}

// MergeSort sorts top-down and writes merged runs back with set steps.
func MergeSort(values []int) SortResult {
	s := newSorter(values)
	if len(s.a) > 1 {
		buf := make([]int, len(s.a))
		s.mergeSort(buf, 0, len(s.a)-1)
	}
	s.markAllSorted()
	return s.result()
}

func (s *sorter) mergeSort(buf []int, lo, hi int) {
	if lo >= hi {
		return
	}
	mid := lo + (hi-lo)/2
	s.mergeSort(buf, lo, mid)
	s.mergeSort(buf, mid+1, hi)

	copy(buf[lo:hi+1], s.a[lo:hi+1])
	i, j := lo, mid+1
	for k := lo; k <= hi; k++ {
		switch {
		case i > mid:
			s.set(k, buf[j])
			j++
		case j > hi:
			s.set(k, buf[i])
			i++
		default:
			s.rec.compare(fmt.Sprintf("Compare %d and %d", buf[i], buf[j]), i, j)
			if buf[j] < buf[i] {
				s.set(k, buf[j])
				j++
			} else {
				s.set(k, buf[i])
				i++
			}
		}
	}
}

// QuickSort uses Lomuto partitioning with the last element as pivot, so the
// trace is fully determined by the input.
func QuickSort(values []int) SortResult {
	s := newSorter(values)
	s.quickSort(0, len(s.a)-1)
	s.markAllSorted()
	return s.result()
}

func (s *sorter) quickSort(lo, hi int) {
	if lo > hi {
		return
	}
	if lo == hi {
		s.markSorted(lo)
		return
	}
	p := s.partition(lo, hi)
	s.markSorted(p)
	s.quickSort(lo, p-1)
	s.quickSort(p+1, hi)
}

func (s *sorter) partition(lo, hi int) int {
	pivot := s.a[hi]
	s.rec.selectAt(hi, fmt.Sprintf("Pivot %d", pivot))
	i := lo
	for j := lo; j < hi; j++ {
		s.rec.compare(fmt.Sprintf("Compare %d with pivot %d", s.a[j], pivot), j, hi)
		if s.a[j] < pivot {
			if i != j {
				s.swap(i, j)
			}
			i++
		}
	}
	if i != hi {
		s.swap(i, hi)
	}
	return i
}

// HeapSort builds a max-heap in place, then repeatedly moves the root to
// the end of the shrinking heap.
func HeapSort(values []int) SortResult {
	s := newSorter(values)
	n := len(s.a)
	for i := n/2 - 1; i >= 0; i-- {
		s.siftDown(i, n)
	}
	for end := n - 1; end > 0; end-- {
		s.swap(0, end)
		s.markSorted(end)
		s.siftDown(0, end)
	}
	s.markAllSorted()
	return s.result()
}

func (s *sorter) siftDown(root, size int) {
	for {
		largest := root
		left, right := 2*root+1, 2*root+2
		if left < size && s.greater(left, largest) {
			largest = left
		}
		if right < size && s.greater(right, largest) {
			largest = right
		}
		if largest == root {
			return
		}
		s.swap(root, largest)
		root = largest
	}
}

// ReplaySort applies every swap and set step of trace to a copy of input.
// For a trace produced by any sort in this package the result equals the
// run's Sorted slice.
func ReplaySort(input []int, trace Trace) []int {
	return replayArray(slices.Clone(input), trace, trace.Len()-1)
}

// replayArray applies swap and set steps with index <= upto to a in place.
func replayArray(a []int, trace Trace, upto int) []int {
	for i := 0; i <= upto && i < trace.Len(); i++ {
		applyArrayStep(a, trace.steps[i])
	}
	return a
}

func applyArrayStep(a []int, st Step) {
	switch st.Type {
	case StepSwap:
		if len(st.Indices) == 2 {
			i, j := st.Indices[0], st.Indices[1]
			a[i], a[j] = a[j], a[i]
		}
	case StepSet:
		if len(st.Indices) == 1 && st.Value != nil {
			a[st.Indices[0]] = *st.Value
		}
	}
}
