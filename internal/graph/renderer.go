package graph

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/rileyhilliard/pingstrip/internal/errors"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Failure glyph proportions, as fractions of the bar height measured from
// the top: the stroke ends at glyphStrokeEnd, the dot starts at glyphDotStart.
const (
	glyphStrokeEnd = 0.63
	glyphDotStart  = 0.85
)

// MinBarHeight is the shortest bar that still fits the failure glyph's
// stroke, gap and dot.
const MinBarHeight = 3

// Renderer owns the strip image. Each Render call scrolls the strip one bar
// to the left and paints the new sample into the freed rightmost bar.
//
// A Renderer is not safe for concurrent use; callers serialize Render and
// take Snapshots to hand the image to other goroutines.
type Renderer struct {
	table     *TierTable
	barWidth  int
	barHeight int
	img       *image.RGBA
}

// NewRenderer creates a renderer for a strip of samples bars, each
// barWidth x barHeight pixels. The strip starts fully transparent.
func NewRenderer(table *TierTable, samples, barWidth, barHeight int) (*Renderer, error) {
	if table == nil {
		return nil, errors.New(errors.ErrRender, "No tier table given", "")
	}
	if samples < 1 {
		return nil, errors.New(errors.ErrRender,
			fmt.Sprintf("Strip needs at least 1 sample, got %d", samples), "")
	}
	if barWidth < 1 {
		return nil, errors.New(errors.ErrRender,
			fmt.Sprintf("Bar width must be at least 1 pixel, got %d", barWidth), "")
	}
	if barHeight < MinBarHeight {
		return nil, errors.New(errors.ErrRender,
			fmt.Sprintf("Bar height must be at least %d pixels, got %d", MinBarHeight, barHeight),
			"The failure glyph needs room for a stroke, a gap and a dot.")
	}

	return &Renderer{
		table:     table,
		barWidth:  barWidth,
		barHeight: barHeight,
		img:       image.NewRGBA(image.Rect(0, 0, samples*barWidth, barHeight)),
	}, nil
}

// Bounds returns the strip's pixel rectangle.
func (r *Renderer) Bounds() image.Rectangle {
	return r.img.Bounds()
}

// Samples returns the number of bars the strip holds.
func (r *Renderer) Samples() int {
	return r.img.Rect.Dx() / r.barWidth
}

// Render scrolls the strip and draws m as the newest bar.
func (r *Renderer) Render(m probe.Measurement) {
	r.shift()

	x := r.img.Rect.Dx() - r.barWidth
	if ms, ok := m.Milliseconds(); ok {
		r.drawTime(x, ms)
	} else {
		r.drawFailure(x)
	}
}

// Snapshot returns a copy of the current strip.
func (r *Renderer) Snapshot() *image.RGBA {
	cp := image.NewRGBA(r.img.Rect)
	copy(cp.Pix, r.img.Pix)
	return cp
}

// shift moves every row left by one bar and clears the rightmost bar to
// transparent. Pixels move exactly; nothing is blended.
func (r *Renderer) shift() {
	stride := r.img.Stride
	step := r.barWidth * 4
	rowBytes := r.img.Rect.Dx() * 4

	for y := 0; y < r.barHeight; y++ {
		row := r.img.Pix[y*stride : y*stride+rowBytes]
		copy(row, row[step:])
		clear(row[rowBytes-step:])
	}
}

// drawTime paints a latency bar: the current band's color fills the bottom
// rows, the previous band's color the rest.
func (r *Renderer) drawTime(x int, ms float64) {
	prev, curr := r.table.Classify(ms)
	px := r.table.BarHeight(ms, r.barHeight)

	split := r.barHeight - px
	r.fill(x, 0, split, prev.Color)
	r.fill(x, split, r.barHeight, curr.Color)
}

// drawFailure paints the "!" glyph: a background-colored bar with a single
// centered column of error color broken by a gap near the bottom.
func (r *Renderer) drawFailure(x int) {
	h := r.barHeight
	strokeEnd := int(float64(h) * glyphStrokeEnd)
	dotStart := int(float64(h) * glyphDotStart)

	r.fill(x, 0, h, r.table.Background())

	mark := r.table.ErrorColor()
	col := x + r.barWidth/2
	for y := 0; y < strokeEnd; y++ {
		r.img.SetRGBA(col, y, mark)
	}
	for y := dotStart; y < h; y++ {
		r.img.SetRGBA(col, y, mark)
	}
}

// fill paints rows [y0, y1) of the bar starting at column x.
func (r *Renderer) fill(x, y0, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for dx := 0; dx < r.barWidth; dx++ {
			r.img.SetRGBA(x+dx, y, c)
		}
	}
}

// Scale returns img enlarged by an integer factor with nearest-neighbour
// sampling. A factor below 2 returns img unchanged.
func Scale(img *image.RGBA, factor int) *image.RGBA {
	if factor < 2 {
		return img
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < out.Rect.Dy(); y++ {
		for x := 0; x < out.Rect.Dx(); x++ {
			out.SetRGBA(x, y, img.RGBAAt(b.Min.X+x/factor, b.Min.Y+y/factor))
		}
	}
	return out
}

// EncodePNG writes img, scaled by factor, as a PNG.
func EncodePNG(w io.Writer, img *image.RGBA, factor int) error {
	if err := png.Encode(w, Scale(img, factor)); err != nil {
		return errors.WrapWithCode(err, errors.ErrRender, "Failed to encode strip as PNG", "")
	}
	return nil
}
