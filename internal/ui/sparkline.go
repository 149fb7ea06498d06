package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/probe"
)

// Sparkline block characters representing 8 vertical levels (lowest to highest).
const sparklineBlocks = "▁▂▃▄▅▆▇█"

// sparklineFailure marks a failed probe.
const sparklineFailure = "!"

// sparklineBlockRunes provides indexed access to block characters.
var sparklineBlockRunes = []rune(sparklineBlocks)

// RenderSparkline draws the most recent width samples as one line of block
// characters. Heights are relative to the min/max of the successful samples
// shown; each block takes its tier's color. A nil table renders uncolored.
func RenderSparkline(samples []probe.Measurement, width int, tiers *graph.TierTable) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	minVal, maxVal, _ := latencyRange(samples)
	numLevels := len(sparklineBlockRunes)
	valueRange := maxVal - minVal

	var sb strings.Builder
	sb.Grow(len(samples) * 4)

	for _, m := range samples {
		ms, ok := m.Milliseconds()
		if !ok {
			sb.WriteString(styled(sparklineFailure, failureColor(tiers)))
			continue
		}

		level := numLevels / 2
		if valueRange > 0 {
			level = int((ms - minVal) / valueRange * float64(numLevels-1))
			level = min(max(level, 0), numLevels-1)
		}
		sb.WriteString(styled(string(sparklineBlockRunes[level]), tierColor(tiers, ms)))
	}
	return sb.String()
}

func latencyRange(samples []probe.Measurement) (minVal, maxVal float64, found bool) {
	for _, m := range samples {
		ms, ok := m.Milliseconds()
		if !ok {
			continue
		}
		if !found {
			minVal, maxVal, found = ms, ms, true
			continue
		}
		minVal = min(minVal, ms)
		maxVal = max(maxVal, ms)
	}
	return minVal, maxVal, found
}

// tierColor is the color of the band ms falls in.
func tierColor(tiers *graph.TierTable, ms float64) lipgloss.TerminalColor {
	if tiers == nil {
		return lipgloss.NoColor{}
	}
	_, curr := tiers.Classify(ms)
	return lipgloss.Color(graph.FormatColor(curr.Color))
}

func failureColor(tiers *graph.TierTable) lipgloss.TerminalColor {
	if tiers == nil {
		return ColorError
	}
	return lipgloss.Color(graph.FormatColor(tiers.ErrorColor()))
}

func styled(s string, c lipgloss.TerminalColor) string {
	if _, none := c.(lipgloss.NoColor); none {
		return s
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}
