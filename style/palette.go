package style

import "github.com/charmbracelet/lipgloss"

// Palette colors, from the Catppuccin Mocha scheme.
var (
	Text   = lipgloss.Color("#cdd6f4")
	Mauve  = lipgloss.Color("#cba6f7")
	Red    = lipgloss.Color("#f38ba8")
	Yellow = lipgloss.Color("#f9e2af")
	Green  = lipgloss.Color("#a6e3a1")

	AccentColor  = Mauve
	SuccessColor = Green
	WarningColor = Yellow
	ErrorColor   = Red
)
