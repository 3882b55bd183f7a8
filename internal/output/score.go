// ABOUTME: Formatting helpers for bandwidth scores and percentiles.
// ABOUTME: Scores are signed fractions; percentiles render as a bar.
package output

import (
	"fmt"
	"strings"
)

// Score formats a signed score with three decimals. Positive scores are
// worse than baseline.
func Score(v float64) string {
	s := fmt.Sprintf("%+.3f", v)
	switch {
	case v > 0:
		return StyleWarning.Render(s)
	case v < 0:
		return StyleSuccess.Render(s)
	default:
		return StyleMuted.Render(s)
	}
}

// PercentBar renders a 0..1 fraction as a bar followed by the percentage.
// Fractions at or below lowMark are styled as errors.
func PercentBar(fraction, lowMark float64, width int) string {
	if width <= 0 {
		width = 20
	}
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := StyleSuccess
	if fraction <= lowMark {
		style = StyleError
	}
	return fmt.Sprintf("%s %s", style.Render(bar), StyleMuted.Render(fmt.Sprintf("%.0f%%", fraction*100)))
}

// Section returns a styled header with a rule beneath it.
func Section(title string) string {
	return fmt.Sprintf("\n%s\n%s", StyleHeader.Render(title), StyleMuted.Render(strings.Repeat("─", 48)))
}

// KV renders a label/value line.
func KV(label, value string) string {
	return StyleLabel.Render(label) + value
}
