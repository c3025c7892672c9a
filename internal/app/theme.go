package app

import (
	"image/color"

	"landmark-editor/internal/render"
	"landmark-editor/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// LandmarkTheme tints the default theme with the configured marker and
// label colors, so selection and focus match what is drawn on the canvas.
type LandmarkTheme struct {
	primary   color.NRGBA // opaque marker color
	focus     color.NRGBA // marker color as drawn
	selection color.NRGBA // label color, translucent
}

var _ fyne.Theme = (*LandmarkTheme)(nil)

// NewTheme builds a theme from a render style.
func NewTheme(style render.Style) *LandmarkTheme {
	return &LandmarkTheme{
		primary:   colorutil.WithAlpha(style.MarkerColor, 1),
		focus:     style.MarkerColor,
		selection: colorutil.WithAlpha(style.LabelColor, 0.375),
	}
}

func (t *LandmarkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return t.primary
	case theme.ColorNameFocus:
		return t.focus
	case theme.ColorNameSelection:
		return t.selection
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *LandmarkTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *LandmarkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *LandmarkTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
