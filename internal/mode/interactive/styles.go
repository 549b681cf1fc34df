// ABOUTME: Lipgloss palette for the catalog view with dark and light variants
// ABOUTME: Styles() builds the palette once; colors adapt to the terminal background

package interactive

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ThemeStyles holds pre-built lipgloss styles for the semantic palette.
type ThemeStyles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Badge     lipgloss.Style
	Section   lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Selection lipgloss.Style
	Bold      lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	Banner   lipgloss.Style
	Search   lipgloss.Style
	BarFull  lipgloss.Style
	BarEmpty lipgloss.Style
	Footer   lipgloss.Style
}

// Colors mirror the 256-color dark and light built-in themes.
var (
	colorPrimary   = lipgloss.AdaptiveColor{Dark: "15", Light: "0"}
	colorMuted     = lipgloss.AdaptiveColor{Dark: "245", Light: "244"}
	colorAccent    = lipgloss.AdaptiveColor{Dark: "214", Light: "166"}
	colorSuccess   = lipgloss.AdaptiveColor{Dark: "114", Light: "28"}
	colorWarning   = lipgloss.AdaptiveColor{Dark: "221", Light: "130"}
	colorError     = lipgloss.AdaptiveColor{Dark: "203", Light: "160"}
	colorInfo      = lipgloss.AdaptiveColor{Dark: "117", Light: "25"}
	colorBorder    = lipgloss.AdaptiveColor{Dark: "240", Light: "249"}
	colorSelection = lipgloss.AdaptiveColor{Dark: "236", Light: "254"}
	colorTab       = lipgloss.AdaptiveColor{Dark: "24", Light: "153"}
)

var buildStyles = sync.OnceValue(func() ThemeStyles {
	return ThemeStyles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(colorPrimary).Background(colorTab),
		Badge:     lipgloss.NewStyle().Bold(true).Foreground(colorWarning),
		Section:   lipgloss.NewStyle().Bold(true).Foreground(colorInfo),
		Muted:     lipgloss.NewStyle().Foreground(colorMuted),
		Accent:    lipgloss.NewStyle().Foreground(colorAccent),
		Selection: lipgloss.NewStyle().Background(colorSelection),
		Bold:      lipgloss.NewStyle().Bold(true),

		Success: lipgloss.NewStyle().Foreground(colorSuccess),
		Warning: lipgloss.NewStyle().Foreground(colorWarning),
		Error:   lipgloss.NewStyle().Foreground(colorError),
		Info:    lipgloss.NewStyle().Foreground(colorInfo),

		Banner:   lipgloss.NewStyle().Foreground(colorError).Bold(true),
		Search:   lipgloss.NewStyle().Foreground(colorPrimary),
		BarFull:  lipgloss.NewStyle().Foreground(colorInfo),
		BarEmpty: lipgloss.NewStyle().Foreground(colorBorder),
		Footer:   lipgloss.NewStyle().Foreground(colorMuted),
	}
})

// Styles returns the palette.
func Styles() ThemeStyles {
	return buildStyles()
}
