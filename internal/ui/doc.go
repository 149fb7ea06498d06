// Package ui provides styled line output for pingstrip's non-interactive
// commands.
//
// The full-screen viewer lives in the monitor package; this package covers
// what `pingstrip probe` and `pingstrip run` print to a plain terminal.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Answered probes
//	ColorError     (red)    - Failed probes
//	ColorWarning   (yellow) - Config warnings, packet loss
//	ColorInfo      (cyan)   - Headings
//	ColorMuted     (gray)   - Secondary text
//
// Use DisableColors() to switch to monochrome output.
//
// # Sparklines
//
// RenderSparkline draws a run of samples as block characters scaled to the
// run's own min/max, each colored by its latency tier; failures show as "!".
package ui
