// Package monitor implements the terminal viewer for a running sampler.
//
// The viewer subscribes to the scheduler's frames and draws the latest strip
// image with half-block cells, two pixel rows per terminal line, so an
// 18-pixel strip fits in nine lines at full color fidelity.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: the newest frame, pause and help state, zoom level
//   - Update: keystrokes, window size, frames arriving from the sampler
//   - View: header, strip, status line, statistics and key help
//
// # Message Flow
//
//  1. waitForFrame blocks on the subscription channel in a tea.Cmd
//  2. frameMsg arrives; the model keeps it and re-arms waitForFrame
//  3. framesClosedMsg arrives once the sampler stops
//
// The subscription drops stale frames for slow readers, so the viewer never
// falls behind the sampler.
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	p, Space    - Pause / resume the display
//	+ / -       - Zoom the strip in / out
//	?           - Toggle help overlay
//	Esc         - Close help
package monitor
