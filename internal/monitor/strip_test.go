package monitor

import (
	"image"
	"image/color"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withProfile forces a color profile for the duration of the test.
func withProfile(t *testing.T, p termenv.Profile) {
	t.Helper()
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(p)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })
}

var (
	opaqueGreen = color.RGBA{R: 0x0d, G: 0xd7, B: 0x21, A: 0xff}
	opaqueRed   = color.RGBA{R: 0xd1, G: 0x0f, B: 0x1d, A: 0xff}
)

func TestRenderStripGlyphs(t *testing.T) {
	withProfile(t, termenv.Ascii)

	tests := []struct {
		name  string
		h     int
		paint map[int]color.RGBA // row -> color, column 0
		want  []string
	}{
		{
			name: "transparent",
			h:    2,
			want: []string{" "},
		},
		{
			name:  "both halves opaque",
			h:     2,
			paint: map[int]color.RGBA{0: opaqueGreen, 1: opaqueRed},
			want:  []string{upperHalf},
		},
		{
			name:  "only top opaque",
			h:     2,
			paint: map[int]color.RGBA{0: opaqueGreen},
			want:  []string{upperHalf},
		},
		{
			name:  "only bottom opaque",
			h:     2,
			paint: map[int]color.RGBA{1: opaqueGreen},
			want:  []string{lowerHalf},
		},
		{
			name:  "odd height leaves a half line",
			h:     3,
			paint: map[int]color.RGBA{2: opaqueRed},
			want:  []string{" ", upperHalf},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := image.NewRGBA(image.Rect(0, 0, 1, tt.h))
			for y, c := range tt.paint {
				img.SetRGBA(0, y, c)
			}
			assert.Equal(t, tt.want, RenderStrip(img, 1))
		})
	}
}

func TestRenderStripZoom(t *testing.T) {
	withProfile(t, termenv.Ascii)

	img := image.NewRGBA(image.Rect(0, 0, 2, 4))
	for y := 0; y < 4; y++ {
		img.SetRGBA(1, y, opaqueGreen)
	}

	lines := RenderStrip(img, 3)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, "   ▀▀▀", l)
	}

	// Zoom below one is treated as one.
	assert.Equal(t, []string{" ▀", " ▀"}, RenderStrip(img, 0))
}

func TestRenderStripColors(t *testing.T) {
	withProfile(t, termenv.TrueColor)

	img := image.NewRGBA(image.Rect(0, 0, 1, 2))
	img.SetRGBA(0, 0, opaqueGreen)
	img.SetRGBA(0, 1, opaqueRed)

	lines := RenderStrip(img, 1)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "38;2;13;215;33", "top pixel is the foreground")
	assert.Contains(t, lines[0], "48;2;209;15;29", "bottom pixel is the background")
	assert.Contains(t, lines[0], upperHalf)
}

func TestRenderStripTransparentIsUnstyled(t *testing.T) {
	withProfile(t, termenv.TrueColor)

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	assert.Equal(t, []string{"    "}, RenderStrip(img, 1))
}

func TestRenderStripNil(t *testing.T) {
	assert.Nil(t, RenderStrip(nil, 1))
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#0dd721"), hexColor(opaqueGreen))
	assert.Equal(t, lipgloss.Color("#000000"), hexColor(color.RGBA{A: 0xff}))
}
