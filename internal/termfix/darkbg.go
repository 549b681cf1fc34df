// ABOUTME: Pre-sets the lipgloss background before BubbleTea's init() sends OSC queries
// ABOUTME: Must be imported (with _) before any package that imports bubbletea

package termfix

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// EnvLight selects the light palette when set to a non-empty value.
const EnvLight = "FOSSINTOSH_LIGHT"

func init() {
	// An explicit background stops lipgloss from querying the terminal
	// with OSC 10/11, whose replies leak into the catalog's key input.
	// This package must NOT import bubbletea so it initializes first.
	lipgloss.SetHasDarkBackground(!Light())
}

// Light reports whether the light palette was requested.
func Light() bool {
	return os.Getenv(EnvLight) != ""
}
