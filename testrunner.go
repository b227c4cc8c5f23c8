package timeline

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// testStep represents a single action in a playback script.
type testStep struct {
	Action    string  `json:"action"`
	Label     string  `json:"label,omitempty"`
	Field     string  `json:"field,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`
	Frames    int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a playback script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner sequences label jumps, waits and value checks across ticks for
// automated playback tests. Call Step once per tick in place of
// Animator.Update.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON playback script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "wait", "goto", "blend", "expect", "stop":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps in the script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Step runs the script for one tick against a. Waiting ticks advance the
// animator; label jumps and checks run without advancing. A failed check or
// jump is returned and the runner moves on to the next step.
func (r *TestRunner) Step(a *Animator) error {
	if r.done {
		return nil
	}
	if r.waitCount > 0 {
		r.waitCount--
		a.Update()
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	var err error
	switch st.Action {
	case "wait":
		a.Update()
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "goto":
		err = a.GotoLabel(st.Label)
	case "blend":
		err = a.GotoLabelBlend(st.Label, st.Frames, ease.InOutQuad)
	case "expect":
		err = expectValue(a, st)
	case "stop":
		a.Stop()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
	return err
}

func expectValue(a *Animator, st testStep) error {
	v, ok := a.Value(st.Field)
	if !ok {
		return fmt.Errorf("expect: %w %q", ErrUnknownField, st.Field)
	}
	tol := st.Tolerance
	if tol == 0 {
		tol = 1e-9
	}
	if math.Abs(v-st.Value) > tol {
		return fmt.Errorf("expect: %s = %v, want %v", st.Field, v, st.Value)
	}
	return nil
}
