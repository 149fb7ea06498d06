package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/pingstrip/internal/graph"
	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// DefaultZoom is the starting number of terminal columns per pixel column.
const DefaultZoom = 2

// Options describes what the viewer shows in its header.
type Options struct {
	Target   string
	Strategy sampler.Strategy
	Interval time.Duration
	// Tiers colors the status line; nil leaves it uncolored.
	Tiers *graph.TierTable
	Zoom  int
}

// Model is the Bubble Tea model for the strip viewer.
type Model struct {
	opts   Options
	frames <-chan *sampler.Frame

	frame *sampler.Frame // shown
	held  *sampler.Frame // newest frame received while paused

	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	width    int
	height   int
	zoom     int
	showHelp bool
	paused   bool
	stopped  bool
	quitting bool
}

// frameMsg carries a frame published by the sampler.
type frameMsg struct {
	frame *sampler.Frame
}

// framesClosedMsg signals that the sampler has stopped.
type framesClosedMsg struct{}

// spinnerFrames match the CLI's half-circle spinner.
var spinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10,
}

// NewModel creates a viewer reading frames from the given subscription.
func NewModel(frames <-chan *sampler.Frame, opts Options) Model {
	if opts.Zoom < MinZoom || opts.Zoom > MaxZoom {
		opts.Zoom = DefaultZoom
	}

	sp := spinner.New()
	sp.Spinner = spinnerFrames
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(ColorTextSecondary).Bold(true)
	h.Styles.ShortDesc = MutedStyle
	h.Styles.ShortSeparator = MutedStyle

	return Model{
		opts:    opts,
		frames:  frames,
		keys:    DefaultKeyMap(),
		help:    h,
		spinner: sp,
		zoom:    opts.Zoom,
	}
}

// Init waits for the first frame and starts the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForFrame(m.frames),
		m.spinner.Tick,
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := m.HandleKeyMsg(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case spinner.TickMsg:
		// Stop animating once there is something to show.
		if m.frame != nil || m.stopped {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case frameMsg:
		if m.paused {
			m.held = msg.frame
		} else {
			m.frame = msg.frame
		}
		return m, waitForFrame(m.frames)

	case framesClosedMsg:
		m.stopped = true
	}

	return m, nil
}

// View renders the viewer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Frame returns the frame currently on screen.
func (m Model) Frame() *sampler.Frame {
	return m.frame
}

// waitForFrame blocks until the sampler publishes or stops.
func waitForFrame(frames <-chan *sampler.Frame) tea.Cmd {
	return func() tea.Msg {
		f, ok := <-frames
		if !ok {
			return framesClosedMsg{}
		}
		return frameMsg{frame: f}
	}
}
