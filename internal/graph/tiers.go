// Package graph turns latency samples into the scrolling strip image.
//
// A TierTable maps a latency onto a pair of colors and a bar height; a
// Renderer keeps one fixed-size RGBA image and, per sample, scrolls it one
// bar to the left and paints the new bar at the right edge.
package graph

import (
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/rileyhilliard/pingstrip/internal/errors"
)

// Tier is one latency band. LowerBound is inclusive, in milliseconds.
type Tier struct {
	LowerBound float64
	Color      color.RGBA
}

// TierTable is an ordered, immutable list of tiers.
//
// Tier 0 is the background band (bound 0); its color fills the failure glyph.
// The last tier's color draws the failure mark.
type TierTable struct {
	tiers []Tier
}

// DefaultTiers returns the stock bands: black below 70 ms, green to 150 ms,
// yellow to 800 ms, red beyond.
func DefaultTiers() []Tier {
	return []Tier{
		{LowerBound: 0, Color: color.RGBA{0x00, 0x00, 0x00, 0xff}},
		{LowerBound: 70, Color: color.RGBA{0x0d, 0xd7, 0x21, 0xff}},
		{LowerBound: 150, Color: color.RGBA{0xd1, 0xd6, 0x27, 0xff}},
		{LowerBound: 800, Color: color.RGBA{0xd1, 0x0f, 0x1d, 0xff}},
	}
}

// NewTierTable validates tiers and returns a table over a copy of them.
func NewTierTable(tiers []Tier) (*TierTable, error) {
	if len(tiers) < 2 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("Need at least 2 latency tiers, got %d", len(tiers)),
			"Add a background tier at 0 ms and at least one upper tier.")
	}
	if tiers[0].LowerBound != 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("First tier must start at 0 ms, got %g", tiers[0].LowerBound),
			"Set the first tier's limit to 0.")
	}
	for i := 1; i < len(tiers); i++ {
		if tiers[i].LowerBound <= tiers[i-1].LowerBound {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("Tier limits must strictly increase: %g follows %g", tiers[i].LowerBound, tiers[i-1].LowerBound),
				"List tiers from fastest to slowest with distinct limits.")
		}
	}
	if tiers[len(tiers)-1].Color == tiers[0].Color {
		return nil, errors.New(errors.ErrConfig,
			"The last tier's color matches the background tier",
			"Failure marks are drawn in the last tier's color, so pick one that differs from the first tier.")
	}

	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return &TierTable{tiers: cp}, nil
}

// MustTierTable is NewTierTable for tables known to be valid.
func MustTierTable(tiers []Tier) *TierTable {
	t, err := NewTierTable(tiers)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of tiers.
func (t *TierTable) Len() int {
	return len(t.tiers)
}

// Tiers returns a copy of the table's tiers.
func (t *TierTable) Tiers() []Tier {
	cp := make([]Tier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

// Background is the first tier's color.
func (t *TierTable) Background() color.RGBA {
	return t.tiers[0].Color
}

// ErrorColor is the last tier's color.
func (t *TierTable) ErrorColor() color.RGBA {
	return t.tiers[len(t.tiers)-1].Color
}

// Classify returns the band v falls in: curr is the first tier (from index 1)
// whose bound exceeds v, prev the one before it. Values at or past the last
// bound land in the top band.
func (t *TierTable) Classify(v float64) (prev, curr Tier) {
	for i := 1; i < len(t.tiers); i++ {
		if v < t.tiers[i].LowerBound {
			return t.tiers[i-1], t.tiers[i]
		}
	}
	n := len(t.tiers)
	return t.tiers[n-2], t.tiers[n-1]
}

// Fraction returns how far v sits across its band, clamped to [0, 1].
func (t *TierTable) Fraction(v float64) float64 {
	prev, curr := t.Classify(v)
	f := (v - prev.LowerBound) / (curr.LowerBound - prev.LowerBound)
	return clamp01(f)
}

// BarHeight returns the number of pixel rows, out of height, that the
// current band's color fills for latency v.
func (t *TierTable) BarHeight(v float64, height int) int {
	px := int(t.Fraction(v) * float64(height))
	return clampInt(px, height)
}

// ParseColor parses a "#rrggbb" hex color into an opaque RGBA.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err == nil && len(hex) != 7 {
		err = fmt.Errorf("expected 6 hex digits, got %d", len(hex)-1)
	}
	if err != nil {
		return color.RGBA{}, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Invalid color %q", hex),
			`Use a six digit hex color like "#0DD721".`)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func clamp01(f float64) float64 {
	if f != f || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// clampInt clamps an integer to [0, maxVal].
func clampInt(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
