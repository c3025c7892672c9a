// Package colorutil provides shared color utilities for the landmark editor.
package colorutil

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Common colors used throughout the application.
var (
	Black   = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	Cyan    = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	Magenta = color.NRGBA{R: 255, G: 0, B: 255, A: 255}
	Yellow  = color.NRGBA{R: 255, G: 255, B: 0, A: 255}
)

var named = map[string]color.NRGBA{
	"black":   Black,
	"white":   White,
	"red":     Red,
	"cyan":    Cyan,
	"magenta": Magenta,
	"yellow":  Yellow,
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa" (leading '#' optional) or
// one of the named colors.
func ParseHex(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := named[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// HasAlpha reports whether s is a hex color with an explicit alpha byte
// ("#rrggbbaa").
func HasAlpha(s string) bool {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	return len(hex) == 8
}

// WithAlpha returns c with its alpha replaced by a (0.0 - 1.0).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	a = math.Max(0, math.Min(1, a))
	c.A = uint8(math.Round(a * 255))
	return c
}
