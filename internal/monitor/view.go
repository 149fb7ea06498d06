package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// renderDashboard renders the complete viewer.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderStripBox())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(FooterStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderHeader renders the title bar with the probe setup.
func (m Model) renderHeader() string {
	title := TitleStyle.Render("pingstrip")

	parts := []string{m.opts.Target}
	if m.opts.Strategy != "" {
		parts = append(parts, string(m.opts.Strategy))
	}
	if m.opts.Interval > 0 {
		parts = append(parts, "every "+m.opts.Interval.String())
	}
	info := LabelStyle.Render(" | " + strings.Join(parts, " | "))

	header := HeaderStyle.Render(title + info)
	switch {
	case m.paused:
		header += " " + BadgeStyle.Render("PAUSED")
	case m.stopped:
		header += " " + BadgeStyle.Render("STOPPED")
	}
	return header
}

// renderStripBox renders the strip inside a titled box.
func (m Model) renderStripBox() string {
	if m.frame == nil || m.frame.Image == nil {
		return "  " + m.spinner.View() + " " + MutedStyle.Render("Waiting for the first probe...")
	}

	lines := RenderStrip(m.frame.Image, m.zoom)
	inner := 0
	for _, l := range lines {
		inner = max(inner, lipgloss.Width(l))
	}
	width := inner + 4

	value := fmt.Sprintf("#%d", m.frame.Seq)
	var b strings.Builder
	b.WriteString(SectionHeader(m.frame.Target, value, width))
	b.WriteString("\n")
	for _, l := range lines {
		b.WriteString(SectionContentLine(l, width))
		b.WriteString("\n")
	}
	b.WriteString(SectionFooter(width))
	return b.String()
}

// renderStatus renders the status line, colored by the latest sample's tier.
func (m Model) renderStatus() string {
	text := m.frame.Status()
	if m.frame == nil {
		return " " + MutedStyle.Render(text)
	}
	return " " + m.statusStyle().Render(text)
}

func (m Model) statusStyle() lipgloss.Style {
	style := ValueStyle.Bold(true)
	if m.opts.Tiers == nil {
		return style
	}
	ms, ok := m.frame.Latest.Milliseconds()
	if !ok {
		return style.Foreground(hexColor(m.opts.Tiers.ErrorColor()))
	}
	_, curr := m.opts.Tiers.Classify(ms)
	return style.Foreground(TierColor(curr))
}

// renderStats renders cumulative statistics in ping's summary style.
func (m Model) renderStats() string {
	if m.frame == nil {
		return ""
	}
	return " " + FormatStats(m.frame.Stats, m.frame.Dropped)
}

// FormatStats renders a one-line summary, e.g.
// "12 sent, 1 lost (8.3%) | min/avg/max/stddev 10.1/14.2/30.0/3.2 ms | 0 dropped".
func FormatStats(s sampler.Stats, dropped uint64) string {
	counts := fmt.Sprintf("%d sent, %d lost (%.1f%%)", s.Sent, s.Lost, s.LossPercent())

	rtt := "min/avg/max/stddev -"
	if s.Received() > 0 {
		rtt = fmt.Sprintf("min/avg/max/stddev %.1f/%.1f/%.1f/%.1f ms", s.Best, s.Mean, s.Worst, s.StdDev())
	}

	sep := MutedStyle.Render(" | ")
	return LabelStyle.Render(counts) + sep +
		LabelStyle.Render(rtt) + sep +
		LabelStyle.Render(fmt.Sprintf("%d dropped", dropped))
}
