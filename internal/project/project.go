// Package project provides landmark file handling and persistence.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"landmark-editor/internal/landmark"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the file format version written by Save.
const CurrentVersion = 1

// File represents a landmark file (.json, .yaml or .yml).
type File struct {
	Version  int       `json:"version" yaml:"version"`
	Created  time.Time `json:"created" yaml:"created"`
	Modified time.Time `json:"modified" yaml:"modified"`

	// Backdrop image path (relative to the landmark file)
	ImagePath string `json:"image,omitempty" yaml:"image,omitempty"`

	Landmarks []landmark.Landmark `json:"landmarks" yaml:"landmarks"`
}

// New creates an empty landmark file.
func New() *File {
	now := time.Now()
	return &File{
		Version:  CurrentVersion,
		Created:  now,
		Modified: now,
	}
}

// FromRegistry captures the current coordinates of every point in reg.
func FromRegistry(reg *landmark.Registry) *File {
	f := New()
	f.Landmarks = reg.Landmarks()
	return f
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load loads a landmark file. The format follows the file extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f File
	if isYAML(path) {
		err = yaml.Unmarshal(data, &f)
	} else {
		err = json.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if f.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported landmark file version %d", f.Version)
	}
	return &f, nil
}

// Save writes the file, refreshing its modification time.
func (f *File) Save(path string) error {
	f.Modified = time.Now()
	if f.Version == 0 {
		f.Version = CurrentVersion
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(f)
	} else {
		data, err = json.MarshalIndent(f, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Apply seeds reg with the file's landmarks.
func (f *File) Apply(reg *landmark.Registry) error {
	if err := reg.Load(f.Landmarks); err != nil {
		return fmt.Errorf("failed to load landmarks: %w", err)
	}
	return nil
}

// SetImage sets the backdrop path (relative to the landmark file).
func (f *File) SetImage(filePath, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(filePath), imagePath)
	if err != nil {
		f.ImagePath = imagePath
	} else {
		f.ImagePath = rel
	}
	f.Modified = time.Now()
}

// GetImagePath returns the absolute path to the backdrop image.
func (f *File) GetImagePath(filePath string) string {
	if f.ImagePath == "" {
		return ""
	}
	if filepath.IsAbs(f.ImagePath) {
		return f.ImagePath
	}
	return filepath.Join(filepath.Dir(filePath), f.ImagePath)
}
