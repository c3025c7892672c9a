// Package app provides application state and events for the landmark editor.
package app

import (
	"fmt"
	"log"
	"sync"

	"landmark-editor/internal/config"
	"landmark-editor/internal/image"
	"landmark-editor/internal/landmark"
	"landmark-editor/internal/project"
)

// State holds the application state: configuration, the landmark registry,
// the backdrop and the current landmark file.
type State struct {
	mu sync.RWMutex

	Config *config.Config

	// Landmark file
	ProjectPath string
	Modified    bool

	// Landmarks
	Registry *landmark.Registry

	// Backdrop image (nil for a blank canvas)
	Backdrop *image.Backdrop

	// Label used for new points
	CurrentLabel string

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventImageLoaded
	EventPointAdded
	EventLabelChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state. A nil cfg uses the defaults.
func NewState(cfg *config.Config) *State {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &State{
		Config:    cfg,
		Registry:  landmark.NewRegistry(cfg.RegistryOptions()),
		listeners: make(map[EventType][]EventListener),
	}
	if len(cfg.Labels.Available) > 0 {
		s.CurrentLabel = cfg.Labels.Available[0]
	}
	return s
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the landmarks as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetLabel selects the label used for new points.
func (s *State) SetLabel(label string) {
	s.mu.Lock()
	s.CurrentLabel = label
	s.mu.Unlock()
	s.Emit(EventLabelChanged, label)
}

// Label returns the label used for new points.
func (s *State) Label() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.CurrentLabel
}

// AddPoint appends a point of the current label at (x, y).
// The caller must make sure no drag is in progress.
func (s *State) AddPoint(x, y float64) (*landmark.Point, error) {
	label := s.Label()
	p, err := s.Registry.CreatePoint(label, x, y)
	if err != nil {
		return nil, fmt.Errorf("add %s point: %w", label, err)
	}
	s.Emit(EventPointAdded, p)
	s.SetModified(true)
	return p, nil
}

// LoadProject loads a landmark file into a fresh registry. The backdrop
// named by the file replaces the current one; a file naming no image, or
// an image that fails to load, leaves the canvas blank.
func (s *State) LoadProject(path string) error {
	f, err := project.Load(path)
	if err != nil {
		return err
	}

	reg := landmark.NewRegistry(s.Config.RegistryOptions())
	if err := f.Apply(reg); err != nil {
		return fmt.Errorf("failed to load landmarks from %s: %w", path, err)
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Registry = reg
	s.Modified = false
	// The previous backdrop belongs to other landmarks
	s.Backdrop = nil
	s.mu.Unlock()

	if imgPath := f.GetImagePath(path); imgPath != "" {
		if err := s.LoadImage(imgPath); err != nil {
			log.Printf("Project: backdrop %s not loaded: %v", imgPath, err)
		}
	}

	s.Emit(EventProjectLoaded, path)
	return nil
}

// SaveProject writes the registry's landmarks to path.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	f := project.FromRegistry(s.Registry)
	if s.Backdrop != nil {
		f.SetImage(path, s.Backdrop.Path)
	}
	s.mu.RUnlock()

	if err := f.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	s.Emit(EventModified, false)
	return nil
}

// LoadImage loads a backdrop image.
func (s *State) LoadImage(path string) error {
	b, err := image.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.Backdrop = b
	s.mu.Unlock()

	s.Emit(EventImageLoaded, b)
	return nil
}

// Extent returns the data-space size of the canvas: the backdrop size, or
// the configured blank canvas size.
func (s *State) Extent() (w, h int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Backdrop != nil {
		return s.Backdrop.Width(), s.Backdrop.Height()
	}
	return s.Config.Canvas.Width, s.Config.Canvas.Height
}
