package components

import (
	"fmt"

	"github.com/theirongolddev/budgetwiz/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepProgress renders "Step n of total" with a solid progress bar.
func StepProgress(step, total, width int) string {
	t := theme.Active
	if total < 1 {
		total = 1
	}
	pct := float64(step) / float64(total)

	label := fmt.Sprintf("Step %d of %d", step, total)
	barW := width - lipgloss.Width(label) - 2
	if barW < 10 {
		barW = 10
	}

	bar := progress.New(
		progress.WithSolidFill(string(t.Accent)),
		progress.WithWidth(barW),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	return labelStyle.Render(label) + spaceStyle.Render("  ") + bar.ViewAs(clampPct(pct))
}

// ColorForAllocation colors an allocation total: green at exactly 100%,
// yellow below, red above.
func ColorForAllocation(total float64) lipgloss.Color {
	t := theme.Active
	switch {
	case total > 100.0001:
		return t.Red
	case total < 99.9999:
		return t.Yellow
	default:
		return t.Green
	}
}

// AllocationBar renders how much of the investment allocation is assigned.
func AllocationBar(total float64, width int) string {
	t := theme.Active
	color := ColorForAllocation(total)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)
	return bar.ViewAs(clampPct(total/100)) + " " + pctStyle.Render(fmt.Sprintf("%.0f%%", total))
}

func clampPct(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
