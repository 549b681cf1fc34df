// ABOUTME: Entry point for the Bubble Tea catalog TUI
// ABOUTME: Creates the tea.Program, bridges table changes into it, and blocks until exit

package interactive

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive catalog. Blocks until the user exits.
func Run(ctx context.Context, deps Deps) error {
	m := NewAppModel(ctx, deps)
	defer m.sh.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)

	stop := bridgeTable(p, deps.Table)
	defer stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}
