// Package replay runs scripted pointer events through the drag engine
// without a display.
package replay

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"landmark-editor/internal/drag"
	"landmark-editor/internal/landmark"
	"landmark-editor/internal/render"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

// Actions understood by a Step.
const (
	ActionPress        = "press"
	ActionMove         = "move"
	ActionRelease      = "release"
	ActionForceRelease = "force-release"
)

// Script describes a canvas, its initial landmarks and the events to replay.
type Script struct {
	Width      int                 `json:"width" yaml:"width"`
	Height     int                 `json:"height" yaml:"height"`
	MarkerSize float64             `json:"marker_size,omitempty" yaml:"marker_size,omitempty"`
	Singletons []string            `json:"singletons,omitempty" yaml:"singletons,omitempty"`
	Landmarks  []landmark.Landmark `json:"landmarks" yaml:"landmarks"`
	Steps      []Step              `json:"steps" yaml:"steps"`
}

// Step is one pointer event in data coordinates.
type Step struct {
	Action  string  `json:"action" yaml:"action"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Button  string  `json:"button,omitempty" yaml:"button,omitempty"`   // primary (default), secondary, tertiary
	Outside bool    `json:"outside,omitempty" yaml:"outside,omitempty"` // pointer left the canvas
}

// StepResult records what a step did.
type StepResult struct {
	Step     Step
	Accepted bool
	State    drag.State
	Holder   string
}

// Result is the outcome of a replay.
type Result struct {
	Registry *landmark.Registry
	Renderer *render.Renderer
	Steps    []StepResult
}

// Load reads a script. YAML is used for .yaml and .yml files, JSON otherwise.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s Script
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", filepath.Base(path), err)
	}
	return &s, nil
}

// Validate checks the script's canvas and actions.
func (s *Script) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", s.Width, s.Height)
	}
	for i, st := range s.Steps {
		switch st.Action {
		case ActionPress, ActionMove, ActionRelease, ActionForceRelease:
		default:
			return fmt.Errorf("step %d: unknown action %q", i, st.Action)
		}
		if _, err := parseButton(st.Button); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
	}
	return nil
}

func parseButton(name string) (drag.Button, error) {
	switch name {
	case "", "primary":
		return drag.ButtonPrimary, nil
	case "secondary":
		return drag.ButtonSecondary, nil
	case "tertiary":
		return drag.ButtonTertiary, nil
	}
	return drag.ButtonNone, fmt.Errorf("unknown button %q", name)
}

// Run seeds a registry from the script and replays its steps through a
// controller backed by a raster renderer. opts are passed to the renderer.
func (s *Script) Run(opts ...render.Option) (*Result, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	reg := landmark.NewRegistry(landmark.Options{
		MarkerSize: s.MarkerSize,
		Singletons: s.Singletons,
	})
	if err := reg.Load(s.Landmarks); err != nil {
		return nil, fmt.Errorf("failed to seed landmarks: %w", err)
	}

	rend := render.New(reg, image.Pt(s.Width, s.Height), opts...)
	ctrl := drag.NewController(reg, drag.NewSession(), drag.WithRenderer(rend))

	res := &Result{Registry: reg, Renderer: rend}
	for _, st := range s.Steps {
		button, _ := parseButton(st.Button)
		ev := drag.Event{
			Pos:      r2.Vec{X: st.X, Y: st.Y},
			InBounds: !st.Outside && s.inBounds(st.X, st.Y),
			Button:   button,
		}

		var ok bool
		switch st.Action {
		case ActionPress:
			ok = ctrl.Press(ev)
		case ActionMove:
			ok = ctrl.Move(ev)
		case ActionRelease:
			ok = ctrl.Release(ev)
		case ActionForceRelease:
			ok = ctrl.ForceRelease()
		}

		sr := StepResult{Step: st, Accepted: ok, State: ctrl.State()}
		if h := ctrl.Holder(); h != nil {
			sr.Holder = h.Name()
		}
		res.Steps = append(res.Steps, sr)
	}
	return res, nil
}

func (s *Script) inBounds(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(s.Width) && y < float64(s.Height)
}
