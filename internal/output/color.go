// ABOUTME: Shared lipgloss palette and styles for CLI output.
// ABOUTME: Color is switched off globally for --no-color or non-terminal stdout.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Palette.
var (
	ColorPrimary = lipgloss.Color("#64b5f6")
	ColorSuccess = lipgloss.Color("#66bb6a")
	ColorError   = lipgloss.Color("#ef5350")
	ColorWarning = lipgloss.Color("#fff59d")
	ColorMuted   = lipgloss.Color("#888888")
)

// Styles used across commands.
var (
	StyleHeader  = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleLabel   = lipgloss.NewStyle().Width(22)
)

var noColor bool

// SetNoColor replaces every style with an unstyled renderer when disabled.
func SetNoColor(disabled bool) {
	noColor = disabled
	if !disabled {
		return
	}
	plain := lipgloss.NewStyle()
	StyleHeader = plain
	StyleSuccess = plain
	StyleError = plain
	StyleWarning = plain
	StyleMuted = plain
	StyleBold = plain
	StyleLabel = plain.Width(22)
}

// IsNoColor reports whether styling is disabled.
func IsNoColor() bool {
	return noColor
}

// Configure disables color when forced or when stdout is not a terminal.
func Configure(force bool) {
	fd := os.Stdout.Fd()
	if force || (!isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd)) {
		SetNoColor(true)
	}
}
