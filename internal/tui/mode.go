package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/cli"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// newModeForm builds the mode-selection form shown when an already
// configured profile is opened.
func newModeForm(choice *wizard.ModeChoice) *huh.Form {
	*choice = wizard.ChooseReconfigure
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[wizard.ModeChoice]().
				Title("This profile is already configured").
				Description("How do you want to continue?").
				Options(
					huh.NewOption(wizard.ChooseReconfigure.String(), wizard.ChooseReconfigure),
					huh.NewOption(wizard.ChooseStartNew.String(), wizard.ChooseStartNew),
					huh.NewOption(wizard.ChooseLoadTemplate.String(), wizard.ChooseLoadTemplate),
					huh.NewOption(wizard.ChooseCancel.String(), wizard.ChooseCancel),
				).
				Value(choice),
		),
	).WithShowHelp(false)
}

func (a App) updateModeForm(msg tea.Msg) (App, tea.Cmd) {
	form, cmd := a.modeForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.modeForm = f
	}

	switch a.modeForm.State {
	case huh.StateCompleted:
		choice := *a.modeChoice
		a.modeForm = nil
		if choice == wizard.ChooseCancel {
			return a.quit()
		}
		a.busy = choice.String()
		return a, tea.Batch(a.spinner.Tick, chooseModeCmd(a.ctx, a.sess, choice))
	case huh.StateAborted:
		a.modeForm = nil
		return a.quit()
	}
	return a, cmd
}

func (a App) updateTemplatePicker(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if a.cursor < len(a.templates)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "enter":
		if a.cursor >= len(a.templates) {
			return a, nil
		}
		t := a.templates[a.cursor]
		a.sess.ApplyTemplate(t)
		a.pickingTemplate = false
		a.setNotice(fmt.Sprintf("Loaded template %q", t.Name))
	case "esc", "q":
		a.pickingTemplate = false
		if a.sess.Draft().ShowModeSelection {
			a.modeForm = newModeForm(a.modeChoice)
			if a.width > 0 {
				a.modeForm = a.modeForm.WithWidth(a.contentWidth() - 4)
			}
			return a, a.modeForm.Init()
		}
	}
	return a, nil
}

func (a App) renderTemplatePicker(w int) string {
	t := theme.Active
	if !a.loaded {
		return a.spinner.View() + mutedStyle().Render(" Loading templates...")
	}
	if len(a.templates) == 0 {
		return mutedStyle().Render("No saved templates yet. Press Esc to go back.")
	}

	nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(mutedStyle().Render("Pick a template to start from"))
	b.WriteString("\n\n")
	for i, tpl := range a.templates {
		line := cursorMark(i == a.cursor) + nameStyle.Render(cli.Truncate(tpl.Name, w/2))
		meta := fmt.Sprintf("  %d recurring · %d budgets", len(tpl.TemplateData.RecurringItems), len(tpl.TemplateData.BudgetLimits))
		if !tpl.UpdatedAt.IsZero() {
			meta += " · updated " + cli.FormatAgo(tpl.UpdatedAt)
		}
		b.WriteString(line + dimStyle.Render(meta) + "\n")
		if i == a.cursor && tpl.Description != "" {
			b.WriteString("    " + dimStyle.Render(cli.Truncate(tpl.Description, w-8)) + "\n")
		}
	}
	return b.String()
}
