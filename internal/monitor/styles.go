package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingstrip/internal/graph"
)

// Viewer color palette
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F")
	ColorSurfaceBg = lipgloss.Color("#12121A")
	ColorBorder    = lipgloss.Color("#2A2A4A")

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent  = lipgloss.Color("#FF2E97")
	ColorValue   = lipgloss.Color("#00FFFF")
	ColorWarning = lipgloss.Color("#FFAA00")
)

// Base styles for the viewer
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	FooterStyle = lipgloss.NewStyle().
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	BadgeStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorWarning).
			Bold(true).
			Padding(0, 1)
)

// TierColor converts a tier color to a lipgloss color.
func TierColor(c graph.Tier) lipgloss.Color {
	return lipgloss.Color(graph.FormatColor(c.Color))
}

// SectionHeader renders the top border of a box with a title on the left and
// a value on the right:
//
//	╭─ Title ──────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	width = max(width, 10)

	// "╭─ " + title + " " on the left, " " + value + " ╮" on the right
	used := 3 + lipgloss.Width(title) + 1 + 1 + lipgloss.Width(value) + 2
	fill := max(width-used, 1)

	border := lipgloss.NewStyle().Foreground(ColorBorder)
	return border.Render("╭─ ") +
		TitleStyle.Render(title) +
		border.Render(" "+strings.Repeat("─", fill)+" ") +
		lipgloss.NewStyle().Foreground(ColorValue).Bold(true).Render(value) +
		border.Render(" ╮")
}

// SectionFooter renders the bottom border of a box.
func SectionFooter(width int) string {
	width = max(width, 2)
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders one line inside a box, padded to width.
func SectionContentLine(content string, width int) string {
	width = max(width, 4)
	border := lipgloss.NewStyle().Foreground(ColorBorder).Render("│")
	pad := max(width-4-lipgloss.Width(content), 0)
	return border + " " + content + strings.Repeat(" ", pad) + " " + border
}
