package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff0000", Red},
		{"ff0000", Red},
		{"#f00", Red},
		{"#ff000080", color.NRGBA{R: 255, A: 128}},
		{"  Yellow ", Yellow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#gggggg", "chartreuse"} {
		_, err := ParseHex(in)
		assert.Error(t, err, in)
	}
}

func TestHasAlpha(t *testing.T) {
	assert.True(t, HasAlpha("#ff000080"))
	assert.True(t, HasAlpha(" ff000080 "))
	assert.False(t, HasAlpha("#ff0000"))
	assert.False(t, HasAlpha("#f00"))
	assert.False(t, HasAlpha("red"))
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, uint8(128), WithAlpha(Red, 0.5).A)
	assert.Equal(t, uint8(255), WithAlpha(Red, 2).A)
	assert.Equal(t, uint8(0), WithAlpha(Red, -1).A)
}
