package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Base styles for s2t TUI components
var (
	// Header style for titles and section headers
	StyleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// Success style for positive feedback
	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// Error style for error messages
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Warning style for warnings
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// Muted style for secondary text
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// Subtle style for hints and descriptions
	StyleSubtle = lipgloss.NewStyle().
			Foreground(ColorSubtle).
			Italic(true)

	// Highlight style for active state markers
	StyleHighlight = lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true)
)

const logoASCII = `
     ____  _
 ___|___ \| |_
/ __| __) | __|
\__ \/ __/| |_
|___/_____|\__|`

// Logo returns the s2t ASCII art
func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
