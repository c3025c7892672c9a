package render

import (
	"image/color"

	"landmark-editor/pkg/colorutil"
)

// Style controls how landmarks are drawn.
type Style struct {
	MarkerColor  color.NRGBA // Fill for point markers
	SegmentColor color.NRGBA // Stroke for chain segments
	LabelColor   color.NRGBA // Text drawn next to markers
	Background   color.NRGBA // Fill behind the backdrop
	LineWidth    float64     // Segment width in pixels
	ShowLabels   bool        // Draw "label[index]" next to each marker
}

// DefaultStyle returns translucent red markers and segments.
func DefaultStyle() Style {
	return Style{
		MarkerColor:  colorutil.WithAlpha(colorutil.Red, 0.5),
		SegmentColor: colorutil.WithAlpha(colorutil.Red, 0.5),
		LabelColor:   colorutil.Yellow,
		Background:   color.NRGBA{R: 32, G: 32, B: 32, A: 255},
		LineWidth:    2,
		ShowLabels:   true,
	}
}
