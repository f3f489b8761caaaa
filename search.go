package algoviz

import (
	"fmt"
	"math"
)

// SearchResult is the outcome of a search run. Index is -1 when the target
// is absent.
type SearchResult struct {
	Index int   `json:"index" yaml:"index"`
	Trace Trace `json:"steps" yaml:"steps"`
}

// LinearSearch scans values from left to right.
func LinearSearch(values []int, target int) SearchResult {
	var rec Recorder
	for i, v := range values {
		rec.compare(fmt.Sprintf("Compare values[%d]=%d with target %d", i, v, target), i)
		if v == target {
			rec.found(i, fmt.Sprintf("Found %d at index %d", target, i))
			return SearchResult{Index: i, Trace: rec.Trace()}
		}
	}
	rec.notFound(fmt.Sprintf("%d is not in the array", target))
	return SearchResult{Index: -1, Trace: rec.Trace()}
}

// BinarySearch halves the window [low, high] until the target is found or
// the window is empty. values must be sorted ascending.
func BinarySearch(values []int, target int) SearchResult {
	var rec Recorder
	low, high := 0, len(values)-1
	for low <= high {
		rec.bounds(low, high, fmt.Sprintf("Search window [%d, %d]", low, high))
		mid := low + (high-low)/2
		rec.compare(fmt.Sprintf("Compare middle values[%d]=%d with target %d", mid, values[mid], target), mid)
		switch {
		case values[mid] == target:
			rec.found(mid, fmt.Sprintf("Found %d at index %d", target, mid))
			return SearchResult{Index: mid, Trace: rec.Trace()}
		case values[mid] < target:
			low = mid + 1
		default:
			high = mid - 1
		}
	}
	rec.notFound(fmt.Sprintf("%d is not in the array", target))
	return SearchResult{Index: -1, Trace: rec.Trace()}
}

// JumpSearch checks the last element of each sqrt(n)-sized block, then scans
// the block that may hold the target. values must be sorted ascending.
func JumpSearch(values []int, target int) SearchResult {
	var rec Recorder
	n := len(values)
	if n == 0 {
		rec.notFound(fmt.Sprintf("%d is not in the array", target))
		return SearchResult{Index: -1, Trace: rec.Trace()}
	}

	block := int(math.Sqrt(float64(n)))
	if block < 1 {
		block = 1
	}

	prev, next := 0, block
	for {
		last := min(next, n) - 1
		rec.compare(fmt.Sprintf("Compare block end values[%d]=%d with target %d", last, values[last], target), last)
		if values[last] >= target {
			break
		}
		prev = next
		next += block
		if prev >= n {
			rec.notFound(fmt.Sprintf("%d is larger than every element", target))
			return SearchResult{Index: -1, Trace: rec.Trace()}
		}
	}

	end := min(next, n) - 1
	rec.bounds(prev, end, fmt.Sprintf("Scan block [%d, %d]", prev, end))
	for i := prev; i <= end; i++ {
		rec.compare(fmt.Sprintf("Compare values[%d]=%d with target %d", i, values[i], target), i)
		if values[i] == target {
			rec.found(i, fmt.Sprintf("Found %d at index %d", target, i))
			return SearchResult{Index: i, Trace: rec.Trace()}
		}
		if values[i] > target {
			break
		}
	}
	rec.notFound(fmt.Sprintf("%d is not in the array", target))
	return SearchResult{Index: -1, Trace: rec.Trace()}
}

// InterpolationSearch estimates the target's position from the values at
// the window edges. values must be sorted ascending.
func InterpolationSearch(values []int, target int) SearchResult {
	var rec Recorder
	low, high := 0, len(values)-1
	for low <= high && target >= values[low] && target <= values[high] {
		rec.bounds(low, high, fmt.Sprintf("Search window [%d, %d]", low, high))

		pos := estimatePosition(values, low, high, target)
		rec.compare(fmt.Sprintf("Compare estimated values[%d]=%d with target %d", pos, values[pos], target), pos)

		switch {
		case values[pos] == target:
			rec.found(pos, fmt.Sprintf("Found %d at index %d", target, pos))
			return SearchResult{Index: pos, Trace: rec.Trace()}
		case values[pos] < target:
			low = pos + 1
		default:
			high = pos - 1
		}
	}
	rec.notFound(fmt.Sprintf("%d is not in the array", target))
	return SearchResult{Index: -1, Trace: rec.Trace()}
}

// estimatePosition interpolates in float64 so extreme values cannot overflow.
// The result is always within [low, high].
func estimatePosition(values []int, low, high, target int) int {
	span := float64(values[high]) - float64(values[low])
	if span <= 0 {
		return low
	}
	est := (float64(target) - float64(values[low])) * float64(high-low) / span
	if !(est > 0) {
		return low
	}
	if est >= float64(high-low) {
		return high
	}
	return low + int(est)
}
