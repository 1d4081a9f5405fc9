package tui

import "github.com/charmbracelet/lipgloss"

// Editor chrome colors come from highlight.ThemePalette at startup; the
// status line keeps a fixed base look across themes, with only its warning
// foreground taken from the palette.
var (
	ColorDarkGray = lipgloss.Color("#2a2a2a") // Dark gray

	statusSty = lipgloss.NewStyle().Foreground(lipgloss.Color("#8a8a8a")).Background(ColorDarkGray)
)
