package overlay

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ScriptStep is one action of an input script.
type ScriptStep struct {
	Action string `yaml:"action"` // click, drag, scroll, wait or screenshot
	Label  string `yaml:"label,omitempty"`
	X      int    `yaml:"x,omitempty"`
	Y      int    `yaml:"y,omitempty"`
	ToX    int    `yaml:"to_x,omitempty"`
	ToY    int    `yaml:"to_y,omitempty"`
	Delta  int    `yaml:"delta,omitempty"`
	Frames int    `yaml:"frames,omitempty"`
}

// Script replays injected input and captures screenshots across frames,
// for reproducing overlay states without a player at the controls.
type Script struct {
	steps   []ScriptStep
	cursor  int
	waiting int
	done    bool
}

// LoadScript parses a YAML script of the form:
//
//	steps:
//	  - {action: click, x: 40, y: 12}
//	  - {action: wait, frames: 10}
//	  - {action: screenshot, label: menu-open}
func LoadScript(data []byte) (*Script, error) {
	var doc struct {
		Steps []ScriptStep `yaml:"steps"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("overlay: parse script: %w", err)
	}
	if len(doc.Steps) == 0 {
		return nil, errors.New("overlay: parse script: no steps")
	}
	for i, st := range doc.Steps {
		switch st.Action {
		case "click", "drag", "scroll", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("overlay: parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: doc.Steps}, nil
}

// Done reports whether every step has run.
func (sc *Script) Done() bool { return sc.done }

// step advances the script by one frame. It waits for injected input to
// drain before starting the next step.
func (sc *Script) step(in *Input, screenshot func(string)) {
	if sc.done || in.PendingInjected() > 0 {
		return
	}
	if sc.waiting > 0 {
		sc.waiting--
		return
	}
	if sc.cursor >= len(sc.steps) {
		sc.done = true
		return
	}

	st := sc.steps[sc.cursor]
	sc.cursor++
	switch st.Action {
	case "click":
		in.InjectClick(st.X, st.Y)
	case "drag":
		in.InjectDrag(st.X, st.Y, st.ToX, st.ToY, max(st.Frames, 2))
	case "scroll":
		in.InjectScroll(st.X, st.Y, st.Delta)
	case "wait":
		if st.Frames > 0 {
			sc.waiting = st.Frames - 1 // this frame counts
		}
	case "screenshot":
		screenshot(st.Label)
	}

	if sc.cursor >= len(sc.steps) && sc.waiting == 0 && in.PendingInjected() == 0 {
		sc.done = true
	}
}

// SetScript attaches a script that runs at the start of each Update. Pass
// nil to detach.
func (s *Screen) SetScript(sc *Script) { s.script = sc }
