// Package render formats messages and timestamps for the CLI's
// non-interactive output (view/read/archive/clear), independent of the
// TUI's lipgloss-based rendering.
package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Truncate shortens input to fit within width display columns, accounting
// for double-width runes, appending an ellipsis when truncation occurs. It
// returns the truncated string and its rendered width.
func Truncate(input string, width int) (string, int) {
	if width <= 0 {
		return "", 0
	}
	if runewidth.StringWidth(input) <= width {
		return input, runewidth.StringWidth(input)
	}

	var b strings.Builder
	renderedWidth := 0
	// Reserve one column for the ellipsis.
	budget := width - 1
	for _, r := range input {
		w := runewidth.RuneWidth(r)
		if renderedWidth+w > budget {
			break
		}
		b.WriteRune(r)
		renderedWidth += w
	}
	b.WriteRune('…')
	return b.String(), renderedWidth + 1
}
