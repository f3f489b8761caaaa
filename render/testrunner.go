package render

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// testStep is a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Speed  float64 `json:"speed,omitempty"`
}

type testScript struct {
	Steps []testStep `json:"steps"`
}

var testActions = map[string]bool{
	"screenshot": true,
	"click":      true,
	"drag":       true,
	"wait":       true,
	"play":       true,
	"pause":      true,
	"step":       true,
	"back":       true,
	"reset":      true,
	"speed":      true,
}

// TestRunner sequences injected input, playback commands, and screenshots
// across frames. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script of the form
// {"steps": [{"action": "click", "x": 10, "y": 20}, ...]}.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		if !testActions[st.Action] {
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner; it advances once per Update before
// input is processed.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	default:
		r.playback(s, st)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

// playback applies a player action to the scene's Player.
func (r *TestRunner) playback(s *Scene, st testStep) {
	p := s.player
	if p == nil {
		s.logger.Warn("test script: no player attached", zap.String("action", st.Action))
		return
	}
	switch st.Action {
	case "play":
		p.Play()
	case "pause":
		p.Pause()
	case "step":
		p.StepForward()
	case "back":
		p.StepBackward()
	case "reset":
		p.Reset()
	case "speed":
		if err := p.SetSpeed(st.Speed); err != nil {
			s.logger.Warn("test script", zap.Error(err))
		}
	}
}
