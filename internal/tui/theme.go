package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The browser must stay readable on both light and dark backgrounds, so
// colors are adaptive pairs rather than fixed codes.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(ac("240", "245")).
			Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().
			Foreground(ac("235", "255")).
			Background(ac("#e9e9e9", "#262626")).
			Bold(true).
			Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(ac("240", "243"))
	warnStyle  = lipgloss.NewStyle().Foreground(ac("130", "214"))
	errorStyle = lipgloss.NewStyle().Foreground(ac("160", "203"))
)

// init pins the color profile: NO_COLOR forces plain output, otherwise
// termenv's detection stands. EnvColorProfile respects CLICOLOR too.
func init() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
