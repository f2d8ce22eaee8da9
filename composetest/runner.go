// Package composetest is an in-process harness for scripting composition,
// recomposition, pointer input, and frame pumping against a compose.Renderer,
// so end-to-end behavior can be asserted without a window or GPU.
package composetest

import (
	"encoding/json"
	"fmt"

	"github.com/phanxgames/compose"
)

// Step represents a single action in a test script.
type Step struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Steps  int     `json:"steps,omitempty"`
}

// script is the top-level JSON structure for a test script.
type script struct {
	Steps []Step `json:"steps"`
}

// Runner sequences scripted input events, frame pumps, and layout passes
// against a Renderer. Each Step call performs one scripted action.
type Runner struct {
	renderer *compose.Renderer
	viewport compose.Size

	steps      []Step
	cursor     int
	frameNanos int64
}

// frameInterval approximates a 60Hz display.
const frameInterval = int64(16_666_667)

// LoadScript parses a JSON test script for use with NewRunner.
func LoadScript(jsonData []byte) ([]Step, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("composetest: parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("composetest: parse script: no steps")
	}
	return s.Steps, nil
}

// NewRunner creates a runner driving renderer at the given viewport size.
func NewRunner(renderer *compose.Renderer, viewport compose.Size, steps []Step) *Runner {
	return &Runner{renderer: renderer, viewport: viewport, steps: steps}
}

// Done reports whether every scripted step has run.
func (r *Runner) Done() bool { return r.cursor >= len(r.steps) }

// Step performs the next scripted action. Unknown actions return an error
// rather than being skipped, so a typo in a script fails loudly.
func (r *Runner) Step() error {
	if r.Done() {
		return nil
	}
	step := r.steps[r.cursor]
	r.cursor++

	switch step.Action {
	case "layout":
		_, err := r.renderer.ComputeLayout(r.viewport)
		return err
	case "press":
		r.renderer.InjectPress(step.X, step.Y)
		return r.pumpFrames(1)
	case "release":
		r.renderer.InjectRelease(step.X, step.Y)
		return r.pumpFrames(1)
	case "drag":
		n := step.Steps
		if n < 1 {
			n = 8
		}
		r.renderer.InjectPress(step.FromX, step.FromY)
		for i := 1; i <= n; i++ {
			t := float64(i) / float64(n)
			r.renderer.InjectMove(step.FromX+(step.ToX-step.FromX)*t, step.FromY+(step.ToY-step.FromY)*t)
		}
		r.renderer.InjectRelease(step.ToX, step.ToY)
		return r.pumpFrames(1)
	case "frames":
		n := step.Frames
		if n < 1 {
			n = 1
		}
		return r.pumpFrames(n)
	default:
		return fmt.Errorf("composetest: unknown action %q", step.Action)
	}
}

// RunAll steps until the script is exhausted, stopping on the first error.
func (r *Runner) RunAll() error {
	for !r.Done() {
		if err := r.Step(); err != nil {
			return err
		}
	}
	return nil
}

// pumpFrames advances the frame clock n frames, recomposing and re-laying
// out after each, exactly as a display-driven loop would.
func (r *Runner) pumpFrames(n int) error {
	for i := 0; i < n; i++ {
		r.frameNanos += frameInterval
		if err := r.renderer.DrainFrameCallbacks(r.frameNanos); err != nil {
			return err
		}
		if _, err := r.renderer.ComputeLayout(r.viewport); err != nil {
			return err
		}
	}
	return nil
}
