package monitor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pingstrip/internal/sampler"
)

// Run shows the viewer in the alternate screen until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, frames <-chan *sampler.Frame, opts Options, programOpts ...tea.ProgramOption) error {
	programOpts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	p := tea.NewProgram(NewModel(frames, opts), programOpts...)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
