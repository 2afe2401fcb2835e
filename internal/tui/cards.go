package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/dashboard"
	"github.com/theirongolddev/budgetwiz/internal/tui/components"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CardsOptions configures the card layout editor.
type CardsOptions struct {
	Editor  *dashboard.Editor
	Saver   *dashboard.Persister
	Profile ProfileChoice

	// Profiles are the profiles tab cycles through. Load fetches a
	// profile's current layout.
	Profiles []ProfileChoice
	Load     func(ctx context.Context, profileID int64) (wizard.MetricasConfig, error)

	Context context.Context
}

// CardsModel edits the dashboard card layout of a profile outside the
// wizard. Every change is handed to the editor's debounced persister; the
// caller flushes it after the program exits.
type CardsModel struct {
	editor   *dashboard.Editor
	saver    *dashboard.Persister
	profile  ProfileChoice
	profiles []ProfileChoice
	load     func(ctx context.Context, profileID int64) (wizard.MetricasConfig, error)
	ctx      context.Context

	switching bool
	cursor    int
	width     int
	height    int
	err       error
}

type cardsProfileMsg struct {
	profile ProfileChoice
	cfg     wizard.MetricasConfig
	err     error
}

// NewCardsModel creates the card editor.
func NewCardsModel(opts CardsOptions) CardsModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return CardsModel{
		editor:   opts.Editor,
		saver:    opts.Saver,
		profile:  opts.Profile,
		profiles: opts.Profiles,
		load:     opts.Load,
		ctx:      ctx,
	}
}

// Profile returns the profile being edited.
func (m CardsModel) Profile() ProfileChoice {
	return m.profile
}

// Init implements tea.Model.
func (m CardsModel) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m CardsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tickCmd()
	case cardsProfileMsg:
		m.switching = false
		m.err = msg.err
		if msg.err == nil {
			m.editor.Reset(msg.cfg)
			m.profile = msg.profile
			m.cursor = 0
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		if m.switching {
			return m, nil
		}
		order := m.editor.Order()
		switch msg.String() {
		case "tab":
			if next, ok := m.nextProfile(); ok {
				m.switching = true
				return m, switchProfileCmd(m.ctx, m.saver, m.load, next)
			}
		case "j", "down":
			if m.cursor < len(order)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "J", "shift+down":
			if m.cursor < len(order)-1 {
				m.err = m.editor.Move(m.cursor, 1)
				m.cursor++
			}
		case "K", "shift+up":
			if m.cursor > 0 {
				m.err = m.editor.Move(m.cursor, -1)
				m.cursor--
			}
		case " ", "x":
			if m.cursor < len(order) {
				m.err = m.editor.ToggleHidden(order[m.cursor])
			}
		}
	}
	return m, nil
}

// nextProfile is the profile after the current one in the list, wrapping.
func (m CardsModel) nextProfile() (ProfileChoice, bool) {
	if m.load == nil || len(m.profiles) < 2 {
		return ProfileChoice{}, false
	}
	for i, p := range m.profiles {
		if p.ID == m.profile.ID {
			return m.profiles[(i+1)%len(m.profiles)], true
		}
	}
	return m.profiles[0], true
}

// switchProfileCmd loads the next profile's layout, then flushes the current
// profile's pending write and points the persister at the new profile. Edits
// are blocked until the result arrives so no layout crosses profiles.
func switchProfileCmd(ctx context.Context, saver *dashboard.Persister, load func(context.Context, int64) (wizard.MetricasConfig, error), next ProfileChoice) tea.Cmd {
	return func() tea.Msg {
		cfg, err := load(ctx, next.ID)
		if err != nil {
			return cardsProfileMsg{err: fmt.Errorf("loading %s: %w", next.Name, err)}
		}
		// A failed flush still switches; the saver reports it through Err.
		_ = saver.SetProfile(ctx, next.ID)
		return cardsProfileMsg{profile: next, cfg: cfg}
	}
}

// View implements tea.Model.
func (m CardsModel) View() string {
	t := theme.Active
	w := m.width
	if w <= 0 {
		w = 60
	}
	if w > maxContentWidth {
		w = maxContentWidth
	}

	hiddenStyle := lipgloss.NewStyle().Foreground(t.TextDim).Strikethrough(true)
	var b strings.Builder
	for i, id := range m.editor.Order() {
		label := m.editor.Label(id)
		if m.editor.Hidden(id) {
			label = hiddenStyle.Render(label) + mutedStyle().Render(" (hidden)")
		}
		fmt.Fprintf(&b, "%s%d. %s\n", cursorMark(i == m.cursor), i+1, label)
	}

	status := "saved"
	switch {
	case m.switching:
		status = "switching profile..."
	case m.err != nil:
		status = m.err.Error()
	case m.saver.Err() != nil:
		status = "last save failed: " + m.saver.Err().Error()
	case m.saver.Pending():
		status = "saving..."
	}

	hints := []components.KeyHint{
		{Key: "j/k", Desc: "select"},
		{Key: "J/K", Desc: "move"},
		{Key: "space", Desc: "hide"},
	}
	if len(m.profiles) > 1 && m.load != nil {
		hints = append(hints, components.KeyHint{Key: "tab", Desc: "next profile"})
	}
	hints = append(hints, components.KeyHint{Key: "q", Desc: "done"})

	card := components.ContentCard("Dashboard cards · "+m.profile.Name, b.String(), w)
	bar := components.RenderStatusBar(w, hints, status)
	return lipgloss.JoinVertical(lipgloss.Left, card, bar)
}
