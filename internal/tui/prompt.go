package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/wizard"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// pending is work a prompt hands back to the App: an optional request to
// start, labelled for the spinner.
type pending struct {
	label string
	cmd   tea.Cmd
}

// prompt is a one-line input opened over the current step.
type prompt struct {
	active bool
	label  string
	input  textinput.Model
	submit func(value string) (pending, error)
}

func (a App) openPrompt(label, value, placeholder string, submit func(string) (pending, error)) (App, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 120
	ti.Width = 40
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CursorEnd()
	cmd := ti.Focus()
	a.prompt = prompt{active: true, label: label, input: ti, submit: submit}
	return a, cmd
}

func (a App) updatePrompt(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.prompt = prompt{}
		return a, nil
	case "enter":
		p, err := a.prompt.submit(a.prompt.input.Value())
		if err != nil {
			a.setError(err)
			return a, nil
		}
		a.prompt = prompt{}
		a.notice = ""
		if p.cmd == nil {
			return a, nil
		}
		if p.label != "" {
			a.busy = p.label
			return a, tea.Batch(a.spinner.Tick, p.cmd)
		}
		return a, p.cmd
	}
	var cmd tea.Cmd
	a.prompt.input, cmd = a.prompt.input.Update(msg)
	return a, cmd
}

var (
	errDay     = errors.New("enter a day between 1 and 31")
	errPercent = errors.New("enter a percentage between 0 and 100")
	errAmount  = errors.New("enter an amount like 1500 or 1.500,00")
	errPair    = errors.New("use the form: left = right")
)

// parseDay reads an optional day of month. Blank clears the day.
func parseDay(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 31 {
		return nil, errDay
	}
	return &n, nil
}

func parsePercent(s string) (float64, error) {
	d, ok := wizard.Number(strings.TrimSuffix(strings.TrimSpace(s), "%")).Decimal()
	if !ok {
		return 0, errPercent
	}
	f := d.InexactFloat64()
	if f < 0 || f > 100 {
		return 0, errPercent
	}
	return f, nil
}

// parseAmount validates an amount but keeps it as typed.
func parseAmount(s string) (wizard.Number, error) {
	n := wizard.Number(strings.TrimSpace(s))
	if !n.IsSet() {
		return n, nil
	}
	if _, ok := n.Decimal(); !ok {
		return "", errAmount
	}
	return n, nil
}

// parsePair splits "left = right"; both sides are required.
func parsePair(s string) (string, string, error) {
	left, right, ok := strings.Cut(s, "=")
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(strings.TrimPrefix(right, ">"))
	if !ok || left == "" || right == "" {
		return "", "", errPair
	}
	return left, right, nil
}

func parseProfileID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a profile id", strings.TrimSpace(s))
	}
	return id, nil
}
