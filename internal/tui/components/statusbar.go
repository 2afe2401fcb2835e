package components

import (
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// KeyHint is one key binding shown in the status bar.
type KeyHint struct {
	Key  string
	Desc string
}

// RenderStatusBar renders the bottom status bar: key hints on the left,
// right-aligned status text on the right.
func RenderStatusBar(width int, hints []KeyHint, right string) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render("["+h.Key+"]")+descStyle.Render(h.Desc))
	}
	left := spaceStyle.Render(" ") + strings.Join(parts, spaceStyle.Render("  "))
	if right != "" {
		right = descStyle.Render(right + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		// Drop hints from the end until the right side fits.
		for padding < 1 && len(parts) > 0 {
			parts = parts[:len(parts)-1]
			left = spaceStyle.Render(" ") + strings.Join(parts, spaceStyle.Render("  "))
			padding = width - lipgloss.Width(left) - lipgloss.Width(right)
		}
		if padding < 0 {
			padding = 0
		}
	}

	return barStyle.Render(left + spaceStyle.Render(strings.Repeat(" ", padding)) + right)
}
