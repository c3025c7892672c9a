// Package config loads the landmark editor's TOML configuration.
package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"landmark-editor/internal/landmark"
	"landmark-editor/internal/render"
	"landmark-editor/pkg/colorutil"

	"github.com/BurntSushi/toml"
)

// Config holds landmark editor configuration.
type Config struct {
	Marker MarkerConfig `toml:"marker"`
	Labels LabelsConfig `toml:"labels"`
	Canvas CanvasConfig `toml:"canvas"`
}

// MarkerConfig controls how points and segments are drawn.
type MarkerConfig struct {
	Size         float64 `toml:"size"`          // diameter in data units, doubled for singletons
	Color        string  `toml:"color"`         // marker fill
	SegmentColor string  `toml:"segment_color"` // segment stroke
	Alpha        float64 `toml:"alpha"`         // applied to marker and segment colors without an alpha byte
	LineWidth    float64 `toml:"line_width"`    // segment width in pixels
}

// LabelsConfig controls the label set.
type LabelsConfig struct {
	Available  []string `toml:"available"`  // labels offered by the label selector
	Singletons []string `toml:"singletons"` // labels permitted exactly one point
	Show       bool     `toml:"show"`       // draw "label[index]" text
	TextColor  string   `toml:"text_color"`
}

// CanvasConfig controls the drawable surface.
type CanvasConfig struct {
	Width      int     `toml:"width"`  // data-space width without a backdrop
	Height     int     `toml:"height"` // data-space height without a backdrop
	Zoom       float64 `toml:"zoom"`
	Background string  `toml:"background"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Marker: MarkerConfig{
			Size:         landmark.DefaultMarkerSize,
			Color:        "#ff0000",
			SegmentColor: "#ff0000",
			Alpha:        0.5,
			LineWidth:    2,
		},
		Labels: LabelsConfig{
			Available:  []string{"head", "spine", "left_arm", "right_arm", "left_leg", "right_leg", "tail"},
			Singletons: append([]string(nil), landmark.DefaultSingletons...),
			Show:       true,
			TextColor:  "#ffff00",
		},
		Canvas: CanvasConfig{
			Width:      800,
			Height:     600,
			Zoom:       1.0,
			Background: "#202020",
		},
	}
}

// ConfigDir returns the landmark editor config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "landmark-editor")
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path over the defaults. An empty path means
// DefaultPath; a missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path as TOML.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks sizes and colors.
func (c *Config) Validate() error {
	if c.Marker.Size <= 0 {
		return fmt.Errorf("marker.size must be positive, got %g", c.Marker.Size)
	}
	if c.Canvas.Zoom <= 0 {
		return fmt.Errorf("canvas.zoom must be positive, got %g", c.Canvas.Zoom)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	_, err := c.Style()
	return err
}

// applyAlpha applies marker.alpha unless raw carries its own alpha byte.
func (c *Config) applyAlpha(raw string, col color.NRGBA) color.NRGBA {
	if colorutil.HasAlpha(raw) {
		return col
	}
	return colorutil.WithAlpha(col, c.Marker.Alpha)
}

// RegistryOptions returns the landmark registry options.
func (c *Config) RegistryOptions() landmark.Options {
	return landmark.Options{
		MarkerSize: c.Marker.Size,
		Singletons: c.Labels.Singletons,
	}
}

// Style returns the render style described by the config.
func (c *Config) Style() (render.Style, error) {
	s := render.DefaultStyle()
	marker, err := colorutil.ParseHex(c.Marker.Color)
	if err != nil {
		return s, fmt.Errorf("marker.color: %w", err)
	}
	segment, err := colorutil.ParseHex(c.Marker.SegmentColor)
	if err != nil {
		return s, fmt.Errorf("marker.segment_color: %w", err)
	}
	text, err := colorutil.ParseHex(c.Labels.TextColor)
	if err != nil {
		return s, fmt.Errorf("labels.text_color: %w", err)
	}
	bg, err := colorutil.ParseHex(c.Canvas.Background)
	if err != nil {
		return s, fmt.Errorf("canvas.background: %w", err)
	}

	s.MarkerColor = c.applyAlpha(c.Marker.Color, marker)
	s.SegmentColor = c.applyAlpha(c.Marker.SegmentColor, segment)
	s.LabelColor = text
	s.Background = bg
	s.ShowLabels = c.Labels.Show
	if c.Marker.LineWidth > 0 {
		s.LineWidth = c.Marker.LineWidth
	}
	return s, nil
}
