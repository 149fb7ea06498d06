package monitor

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingstrip/internal/graph"
)

// Half-block glyphs: the upper half takes the foreground color, the lower
// half the background.
const (
	upperHalf = "▀"
	lowerHalf = "▄"
)

// cell is one terminal cell covering two vertically stacked pixels.
type cell struct {
	glyph  string
	fg, bg lipgloss.TerminalColor
}

// RenderStrip draws img with half-block cells, each pixel column repeated
// zoom times. Transparent pixels show the terminal background. Returns one
// string per terminal line.
func RenderStrip(img *image.RGBA, zoom int) []string {
	if img == nil {
		return nil
	}
	zoom = max(zoom, 1)
	b := img.Bounds()

	var lines []string
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		row := make([]cell, 0, b.Dx()*zoom)
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bottom := color.RGBA{}
			if y+1 < b.Max.Y {
				bottom = img.RGBAAt(x, y+1)
			}
			c := pixelCell(top, bottom)
			for range zoom {
				row = append(row, c)
			}
		}
		lines = append(lines, renderCells(row))
	}
	return lines
}

func pixelCell(top, bottom color.RGBA) cell {
	switch {
	case top.A == 0 && bottom.A == 0:
		return cell{glyph: " ", fg: lipgloss.NoColor{}, bg: lipgloss.NoColor{}}
	case top.A == 0:
		return cell{glyph: lowerHalf, fg: hexColor(bottom), bg: lipgloss.NoColor{}}
	case bottom.A == 0:
		return cell{glyph: upperHalf, fg: hexColor(top), bg: lipgloss.NoColor{}}
	default:
		return cell{glyph: upperHalf, fg: hexColor(top), bg: hexColor(bottom)}
	}
}

// renderCells styles runs of identical cells together.
func renderCells(row []cell) string {
	var sb strings.Builder
	for i := 0; i < len(row); {
		j := i + 1
		for j < len(row) && row[j] == row[i] {
			j++
		}
		run := strings.Repeat(row[i].glyph, j-i)
		if _, blank := row[i].fg.(lipgloss.NoColor); blank && row[i].glyph == " " {
			sb.WriteString(run)
		} else {
			sb.WriteString(lipgloss.NewStyle().Foreground(row[i].fg).Background(row[i].bg).Render(run))
		}
		i = j
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(graph.FormatColor(c))
}
