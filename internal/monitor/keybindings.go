package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyPause      = "p"
	KeyPauseAlt   = " "
	KeyZoomIn     = "+"
	KeyZoomInAlt  = "="
	KeyZoomOut    = "-"
	KeyToggleHelp = "?"
	KeyCollapse   = "esc"
)

// Zoom limits, in terminal columns per pixel column.
const (
	MinZoom = 1
	MaxZoom = 8
)

// KeyMap holds the viewer's bindings. It satisfies help.KeyMap.
type KeyMap struct {
	Quit    key.Binding
	Pause   key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Help    key.Binding
	Close   key.Binding
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys(KeyQuit, KeyQuitAlt),
			key.WithHelp("q", "quit"),
		),
		Pause: key.NewBinding(
			key.WithKeys(KeyPause, KeyPauseAlt),
			key.WithHelp("p", "pause"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys(KeyZoomIn, KeyZoomInAlt),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys(KeyZoomOut),
			key.WithHelp("-", "zoom out"),
		),
		Help: key.NewBinding(
			key.WithKeys(KeyToggleHelp),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys(KeyCollapse),
			key.WithHelp("esc", "close help"),
		),
	}
}

// ShortHelp is shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.ZoomIn, k.ZoomOut, k.Help, k.Quit}
}

// FullHelp is shown in the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.ZoomIn, k.ZoomOut},
		{k.Help, k.Close, k.Quit},
	}
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if !m.paused && m.held != nil {
			m.frame = m.held
			m.held = nil
		}
		return true, nil

	case key.Matches(msg, m.keys.ZoomIn):
		if m.zoom < MaxZoom {
			m.zoom++
		}
		return true, nil

	case key.Matches(msg, m.keys.ZoomOut):
		if m.zoom > MinZoom {
			m.zoom--
		}
		return true, nil
	}

	return false, nil
}
