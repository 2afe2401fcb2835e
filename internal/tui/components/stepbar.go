package components

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const stepSeparator = " › "

// StepLabelWidth is the rendered width of one step label.
func StepLabelWidth(label string, n int) int {
	return lipgloss.Width(stepText(label, n))
}

func stepText(label string, n int) string {
	return strconv.Itoa(n) + "." + label
}

// stepTexts returns the label text for every step. When the full trail
// doesn't fit in width, only the active step keeps its name.
func stepTexts(labels []string, active, width int) []string {
	out := make([]string, len(labels))
	total := 1
	for i, l := range labels {
		out[i] = stepText(l, i+1)
		total += lipgloss.Width(out[i])
	}
	if len(labels) > 1 {
		total += (len(labels) - 1) * lipgloss.Width(stepSeparator)
	}
	if total <= width {
		return out
	}
	for i := range labels {
		if i+1 != active {
			out[i] = strconv.Itoa(i + 1)
		}
	}
	return out
}

// RenderStepBar renders the wizard's step trail. Steps before active are
// marked done; active is highlighted.
func RenderStepBar(labels []string, active, width int) string {
	t := theme.Active

	doneStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	activeStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	todoStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	sepStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	texts := stepTexts(labels, active, width)
	parts := make([]string, len(texts))
	for i, txt := range texts {
		n := i + 1
		switch {
		case n < active:
			parts[i] = doneStyle.Render(txt)
		case n == active:
			parts[i] = activeStyle.Render(txt)
		default:
			parts[i] = todoStyle.Render(txt)
		}
	}

	row := lipgloss.NewStyle().Background(t.Surface).Width(width).MaxHeight(1)
	return row.Render(sepStyle.Render(" ") + strings.Join(parts, sepStyle.Render(stepSeparator)))
}

// StepAtX returns the 1-based step whose label covers column x of a bar
// rendered by RenderStepBar with the same active step and width, or 0.
func StepAtX(labels []string, active, width, x int) int {
	pos := 1 // leading space
	sepW := lipgloss.Width(stepSeparator)
	for i, txt := range stepTexts(labels, active, width) {
		w := lipgloss.Width(txt)
		if x >= pos && x < pos+w {
			return i + 1
		}
		pos += w + sepW
	}
	return 0
}
