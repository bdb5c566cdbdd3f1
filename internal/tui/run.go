// Package tui implements the interactive menu for creating baselines,
// checking directories and viewing baseline information.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the menu in the alternate screen and blocks until the user
// exits or ctx is cancelled.
func Run(ctx context.Context, runner Runner, noColor bool) error {
	m := NewModel(ctx, runner, noColor)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
