package ui

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/probe"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// SummarySparklineWidth caps the sparkline in probe summaries.
const SummarySparklineWidth = 60

// ProbeLine formats one probe result, e.g. "✓ 1.1.1.1 seq=1 14.200 ms".
func ProbeLine(seq int, target string, m probe.Measurement) string {
	if m.Failed() {
		return ErrorStyle().Render(SymbolFail) + " " + target +
			MutedStyle().Render(fmt.Sprintf(" seq=%d ", seq)) + ErrorStyle().Render(m.String())
	}
	return SuccessStyle().Render(SymbolSuccess) + " " + target +
		MutedStyle().Render(fmt.Sprintf(" seq=%d ", seq)) + m.String()
}

// RenderProbeSummary formats the closing statistics of a probe run:
//
//	--- 1.1.1.1 ping statistics ---
//	4 sent, 1 lost (25.0% loss)
//	min/avg/max/stddev = 10.000/20.000/30.000/8.165 ms
//	▁█!▄
//
// Returns an empty string when nothing was sent.
func RenderProbeSummary(target string, samples []probe.Measurement, stats sampler.Stats, tiers *graph.TierTable) string {
	if stats.Sent == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(InfoStyle().Render(fmt.Sprintf("--- %s ping statistics ---", target)))
	sb.WriteString("\n")

	counts := fmt.Sprintf("%d sent, %d lost (%.1f%% loss)", stats.Sent, stats.Lost, stats.LossPercent())
	if stats.Lost > 0 {
		counts = WarningStyle().Render(counts)
	}
	sb.WriteString(counts)
	sb.WriteString("\n")

	if stats.Received() > 0 {
		sb.WriteString(fmt.Sprintf("min/avg/max/stddev = %.3f/%.3f/%.3f/%.3f ms\n",
			stats.Best, stats.Mean, stats.Worst, stats.StdDev()))
	}

	if spark := RenderSparkline(samples, SummarySparklineWidth, tiers); spark != "" {
		sb.WriteString(spark)
		sb.WriteString("\n")
	}
	return sb.String()
}
