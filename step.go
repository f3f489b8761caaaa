package algoviz

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
)

// StepType identifies the kind of event a Step records.
type StepType uint8

const (
	StepCompare  StepType = iota // two positions (or a position and the target) were compared
	StepSwap                     // two positions exchanged values
	StepSelect                   // a position was picked (pivot, current minimum, key)
	StepSet                      // a value was written into a position
	StepSorted                   // a position holds its final value
	StepBounds                   // the search window changed
	StepFound                    // the target was found
	StepNotFound                 // the run ended without finding the target or a path
	StepVisited                  // a grid cell was expanded
	StepPath                     // a grid cell belongs to the reconstructed path
)

var stepTypeNames = [...]string{
	StepCompare:  "compare",
	StepSwap:     "swap",
	StepSelect:   "select",
	StepSet:      "set",
	StepSorted:   "sorted",
	StepBounds:   "bounds",
	StepFound:    "found",
	StepNotFound: "not-found",
	StepVisited:  "visited",
	StepPath:     "path",
}

// String returns the wire name of the step type.
func (t StepType) String() string {
	if int(t) < len(stepTypeNames) {
		return stepTypeNames[t]
	}
	return fmt.Sprintf("StepType(%d)", t)
}

// ParseStepType is the inverse of StepType.String.
func ParseStepType(s string) (StepType, error) {
	for i, name := range stepTypeNames {
		if name == s {
			return StepType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t StepType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *StepType) UnmarshalText(b []byte) error {
	v, err := ParseStepType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Bounds is an inclusive [Low, High] window over an array.
type Bounds struct {
	Low  int `json:"low" yaml:"low"`
	High int `json:"high" yaml:"high"`
}

// Step is one recorded algorithm event. Steps are never modified after they
// are recorded; callers must treat the Indices and Cells slices as read-only.
type Step struct {
	Type    StepType `json:"type" yaml:"type"`
	Indices []int    `json:"indices,omitempty" yaml:"indices,omitempty"`
	Cells   []Cell   `json:"cells,omitempty" yaml:"cells,omitempty"`
	Value   *int     `json:"value,omitempty" yaml:"value,omitempty"`
	Bounds  *Bounds  `json:"bounds,omitempty" yaml:"bounds,omitempty"`
	Message string   `json:"message" yaml:"message"`
}

// Trace is the ordered, immutable sequence of steps produced by one run.
// The zero value is an empty trace.
type Trace struct {
	steps []Step
}

// NewTrace returns a trace holding a copy of steps.
func NewTrace(steps []Step) Trace {
	return Trace{steps: slices.Clone(steps)}
}

// Len returns the number of steps.
func (t Trace) Len() int { return len(t.steps) }

// Empty reports whether the trace has no steps.
func (t Trace) Empty() bool { return len(t.steps) == 0 }

// At returns the step at index i. It panics if i is out of range.
func (t Trace) At(i int) Step { return t.steps[i] }

// Last returns the final step, or false for an empty trace.
func (t Trace) Last() (Step, bool) {
	if len(t.steps) == 0 {
		return Step{}, false
	}
	return t.steps[len(t.steps)-1], true
}

// Steps returns a copy of the step list.
func (t Trace) Steps() []Step { return slices.Clone(t.steps) }

// Count returns how many steps have the given type.
func (t Trace) Count(typ StepType) int {
	n := 0
	for i := range t.steps {
		if t.steps[i].Type == typ {
			n++
		}
	}
	return n
}

// MarshalJSON encodes the trace as a JSON array of steps.
func (t Trace) MarshalJSON() ([]byte, error) {
	if t.steps == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.steps)
}

// UnmarshalJSON decodes a JSON array of steps.
func (t *Trace) UnmarshalJSON(b []byte) error {
	var steps []Step
	if err := json.Unmarshal(b, &steps); err != nil {
		return fmt.Errorf("decode trace: %w", err)
	}
	t.steps = steps
	return nil
}

// MarshalYAML encodes the trace as a YAML sequence of steps.
func (t Trace) MarshalYAML() (any, error) {
	if t.steps == nil {
		return []Step{}, nil
	}
	return t.steps, nil
}

// Fingerprint returns the hex sha256 of the trace's canonical JSON encoding.
// Two runs with identical input produce identical fingerprints.
func (t Trace) Fingerprint() string {
	b, err := t.MarshalJSON()
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Recorder appends steps in execution order and freezes them into a Trace.
// The zero value is ready to use.
type Recorder struct {
	steps []Step
}

// Record appends a step.
func (r *Recorder) Record(s Step) {
	r.steps = append(r.steps, s)
}

// Len returns the number of steps recorded so far.
func (r *Recorder) Len() int { return len(r.steps) }

// Trace returns the recorded steps as a Trace. The recorder may keep
// recording afterwards without affecting the returned trace.
func (r *Recorder) Trace() Trace {
	return NewTrace(r.steps)
}

func (r *Recorder) compare(msg string, indices ...int) {
	r.Record(Step{Type: StepCompare, Indices: indices, Message: msg})
}

func (r *Recorder) swap(i, j int, msg string) {
	r.Record(Step{Type: StepSwap, Indices: []int{i, j}, Message: msg})
}

func (r *Recorder) selectAt(i int, msg string) {
	r.Record(Step{Type: StepSelect, Indices: []int{i}, Message: msg})
}

func (r *Recorder) set(i, v int, msg string) {
	r.Record(Step{Type: StepSet, Indices: []int{i}, Value: &v, Message: msg})
}

func (r *Recorder) sorted(msg string, indices ...int) {
	r.Record(Step{Type: StepSorted, Indices: indices, Message: msg})
}

func (r *Recorder) bounds(low, high int, msg string) {
	r.Record(Step{Type: StepBounds, Bounds: &Bounds{Low: low, High: high}, Message: msg})
}

func (r *Recorder) found(i int, msg string) {
	r.Record(Step{Type: StepFound, Indices: []int{i}, Message: msg})
}

func (r *Recorder) notFound(msg string) {
	r.Record(Step{Type: StepNotFound, Message: msg})
}

func (r *Recorder) visited(c Cell) {
	r.Record(Step{Type: StepVisited, Cells: []Cell{c}, Message: fmt.Sprintf("Visit %s", c)})
}

func (r *Recorder) path(c Cell, i, n int) {
	r.Record(Step{Type: StepPath, Cells: []Cell{c}, Message: fmt.Sprintf("Path %d/%d at %s", i+1, n, c)})
}
