// Package color names the terminal colors used by the CLI.
package color

import "github.com/charmbracelet/lipgloss"

// ANSI colors, rendered with the terminal's own palette.
var (
	Red    = lipgloss.Color("1")
	Green  = lipgloss.Color("2")
	Yellow = lipgloss.Color("3")
	Blue   = lipgloss.Color("4")
	Purple = lipgloss.Color("5")
	Cyan   = lipgloss.Color("6")

	HiRed    = lipgloss.Color("9")
	HiPurple = lipgloss.Color("13")
)

// Gray is used for secondary details such as session ids.
var Gray = lipgloss.Color("#808080")
