// Package tui provides the interactive Bubble Tea front end of the setup
// wizard and the dashboard card editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theirongolddev/budgetwiz/internal/tui/components"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// ProfileChoice is a profile offered as a source for cloning recurring
// items.
type ProfileChoice struct {
	ID   int64
	Name string
}

// Options configures the wizard App.
type Options struct {
	Session  *wizard.Session
	Profiles []ProfileChoice

	// OnSubmit is called after every submission attempt, from the command
	// goroutine.
	OnSubmit func(wizard.SubmissionPayload, error)

	// Context bounds every request the App starts. Defaults to Background.
	Context context.Context
}

// catalogMsg is sent when the bank and setup template catalogs arrive.
type catalogMsg struct {
	banks     []wizard.TemplateRef
	templates []wizard.StoredTemplate
	err       error
}

// modeChosenMsg is sent when a mode-selection choice has been applied.
type modeChosenMsg struct {
	choice wizard.ModeChoice
	err    error
}

// sourceMsg is sent when a recurring or category source has resolved.
type sourceMsg struct {
	step wizard.StepKind
	err  error
}

// templateSavedMsg is sent when the draft has been exported as a template.
type templateSavedMsg struct {
	tpl wizard.StoredTemplate
	err error
}

// submitMsg is sent when the submission call returns.
type submitMsg struct {
	payload wizard.SubmissionPayload
	err     error
}

type tickMsg struct{}

// App is the root Bubble Tea model of the setup wizard.
type App struct {
	sess     *wizard.Session
	flow     wizard.Flow
	ctx      context.Context
	profiles []ProfileChoice
	onSubmit func(wizard.SubmissionPayload, error)

	// Catalog
	banks      []wizard.TemplateRef
	templates  []wizard.StoredTemplate
	loaded     bool
	catalogErr error

	// UI state
	width    int
	height   int
	showHelp bool
	spinner  spinner.Model
	busy     string // non-empty while a request the user waits on is in flight

	lastStep        wizard.StepKind
	cursor          int
	pickingSource   bool
	pickingTemplate bool

	nameInput textinput.Model
	prompt    prompt

	modeForm   *huh.Form
	modeChoice *wizard.ModeChoice

	notice    string
	noticeErr bool

	done      bool
	submitted *wizard.SubmissionPayload
}

const (
	minTerminalWidth = 60
	maxContentWidth  = 110
	minContentHeight = 5

	// Header rows: title, step bar, progress.
	stepBarRow = 1
)

// NewApp creates the wizard model for an open session.
func NewApp(opts Options) App {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	ni := textinput.New()
	ni.Placeholder = "e.g. Household"
	ni.CharLimit = 80
	ni.Width = 40

	a := App{
		sess:       opts.Session,
		flow:       opts.Session.Flow(),
		ctx:        ctx,
		profiles:   opts.Profiles,
		onSubmit:   opts.OnSubmit,
		spinner:    sp,
		nameInput:  ni,
		modeChoice: new(wizard.ModeChoice),
		lastStep:   -1,
	}
	if a.sess.Draft().ShowModeSelection {
		a.modeForm = newModeForm(a.modeChoice)
	}
	a.syncStep()
	return a
}

// Submitted returns the payload that was accepted, if the wizard finished.
func (a App) Submitted() (wizard.SubmissionPayload, bool) {
	if a.submitted == nil {
		return wizard.SubmissionPayload{}, false
	}
	return *a.submitted, true
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadCatalogCmd(a.ctx, a.sess),
		a.spinner.Tick,
		tickCmd(),
	}
	if a.modeForm != nil {
		cmds = append(cmds, a.modeForm.Init())
	}
	if a.nameInput.Focused() {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := a.update(msg)
	next.syncStep()
	return next, cmd
}

func (a App) update(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.modeForm != nil {
			a.modeForm = a.modeForm.WithWidth(a.contentWidth() - 4)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		if a.done {
			return a, tea.Quit
		}
		if a.modeForm != nil {
			return a.updateModeForm(msg)
		}
		if a.busy != "" {
			return a, nil
		}
		if a.prompt.active {
			return a.updatePrompt(msg)
		}
		if a.pickingTemplate {
			return a.updateTemplatePicker(msg)
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}
		if msg.String() == "?" && a.currentStep() != wizard.StepProfile {
			a.showHelp = true
			return a, nil
		}
		a.notice = ""
		return a.updateStep(msg)

	case tea.MouseMsg:
		if msg.Button != tea.MouseButtonLeft || msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if a.busy != "" || a.modeForm != nil || a.prompt.active || a.pickingTemplate || a.done {
			return a, nil
		}
		if msg.Y == stepBarRow {
			if step := components.StepAtX(a.stepLabels(), a.sess.Draft().Step, a.contentWidth(), msg.X-a.contentOffset()); step > 0 {
				a.jumpTo(step)
			}
		}
		return a, nil

	case catalogMsg:
		a.loaded = true
		a.catalogErr = msg.err
		a.banks = sortBanks(msg.banks)
		a.templates = msg.templates
		return a, nil

	case modeChosenMsg:
		a.busy = ""
		if msg.err != nil {
			a.setError(msg.err)
			a.modeForm = newModeForm(a.modeChoice)
			return a, a.modeForm.Init()
		}
		if msg.choice == wizard.ChooseLoadTemplate {
			a.pickingTemplate = true
			a.cursor = 0
		}
		return a, nil

	case sourceMsg:
		a.busy = ""
		if msg.err != nil {
			a.setError(msg.err)
		}
		return a, nil

	case templateSavedMsg:
		a.busy = ""
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.templates = upsertTemplate(a.templates, msg.tpl)
		a.setNotice(fmt.Sprintf("Saved template %q", msg.tpl.Name))
		return a, nil

	case submitMsg:
		a.busy = ""
		if msg.err != nil {
			a.setError(msg.err)
			return a, nil
		}
		a.done = true
		a.submitted = &msg.payload
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tickMsg:
		if a.done {
			return a, nil
		}
		return a, tickCmd()
	}

	// Cursor blinks and other internal messages.
	if a.modeForm != nil {
		return a.updateModeForm(msg)
	}
	var cmd tea.Cmd
	if a.prompt.active {
		a.prompt.input, cmd = a.prompt.input.Update(msg)
	} else if a.nameInput.Focused() {
		a.nameInput, cmd = a.nameInput.Update(msg)
	}
	return a, cmd
}

func (a App) quit() (App, tea.Cmd) {
	a.sess.Close()
	return a, tea.Quit
}

// syncStep resets per-step UI state whenever the visible step changes.
func (a *App) syncStep() {
	kind := a.currentStep()
	if kind == a.lastStep {
		return
	}
	a.lastStep = kind
	a.cursor = 0
	a.pickingSource = false

	d := a.sess.Draft()
	switch kind {
	case wizard.StepProfile:
		a.nameInput.SetValue(d.ProfileName)
		a.nameInput.CursorEnd()
		a.nameInput.Focus()
		return
	case wizard.StepRecurring:
		a.pickingSource = d.RecurringSource == wizard.RecurringNone
	case wizard.StepCategories:
		a.pickingSource = d.CategorySource == wizard.CategoryNone
	}
	a.nameInput.Blur()
}

func (a App) currentStep() wizard.StepKind {
	if a.modeForm != nil || a.pickingTemplate {
		return wizard.StepModeSelection
	}
	return a.flow.Current(a.sess.Draft())
}

func (a *App) jumpTo(step int) {
	d := a.sess.Draft()
	if d.ShowModeSelection || step < 1 || step > a.flow.Total() || step > d.Step {
		return
	}
	a.sess.GoTo(step)
}

func (a *App) setNotice(s string) {
	a.notice = s
	a.noticeErr = false
}

func (a *App) setError(err error) {
	a.notice = err.Error()
	a.noticeErr = true
}

func (a App) stepLabels() []string {
	steps := a.flow.Steps()
	labels := make([]string, len(steps))
	for i, k := range steps {
		labels[i] = k.String()
	}
	return labels
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// contentOffset is the left margin of the centered content column.
func (a App) contentOffset() int {
	return (a.width - a.contentWidth()) / 2
}

// sortBanks orders the catalog by bank, checking accounts before cards.
func sortBanks(banks []wizard.TemplateRef) []wizard.TemplateRef {
	out := append([]wizard.TemplateRef(nil), banks...)
	sort.SliceStable(out, func(i, j int) bool {
		if !strings.EqualFold(out[i].BankName, out[j].BankName) {
			return strings.ToLower(out[i].BankName) < strings.ToLower(out[j].BankName)
		}
		if out[i].IsCreditCard() != out[j].IsCreditCard() {
			return !out[i].IsCreditCard()
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func upsertTemplate(list []wizard.StoredTemplate, t wizard.StoredTemplate) []wizard.StoredTemplate {
	out := append([]wizard.StoredTemplate(nil), list...)
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
			return out
		}
	}
	return append(out, t)
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func loadCatalogCmd(ctx context.Context, sess *wizard.Session) tea.Cmd {
	return func() tea.Msg {
		banks, tpls, err := sess.Catalog(ctx)
		return catalogMsg{banks: banks, templates: tpls, err: err}
	}
}

func chooseModeCmd(ctx context.Context, sess *wizard.Session, choice wizard.ModeChoice) tea.Cmd {
	return func() tea.Msg {
		return modeChosenMsg{choice: choice, err: sess.ChooseMode(ctx, choice)}
	}
}

func recurringSourceCmd(ctx context.Context, sess *wizard.Session, src wizard.RecurringSource) tea.Cmd {
	return func() tea.Msg {
		return sourceMsg{step: wizard.StepRecurring, err: sess.SelectRecurringSource(ctx, src)}
	}
}

func cloneRecurringCmd(ctx context.Context, sess *wizard.Session, from int64) tea.Cmd {
	return func() tea.Msg {
		return sourceMsg{step: wizard.StepRecurring, err: sess.CloneRecurring(ctx, from)}
	}
}

func categorySourceCmd(ctx context.Context, sess *wizard.Session, src wizard.CategorySource) tea.Cmd {
	return func() tea.Msg {
		return sourceMsg{step: wizard.StepCategories, err: sess.SelectCategorySource(ctx, src)}
	}
}

func saveTemplateCmd(ctx context.Context, sess *wizard.Session, name string) tea.Cmd {
	return func() tea.Msg {
		tpl, err := sess.SaveTemplate(ctx, name, "")
		return templateSavedMsg{tpl: tpl, err: err}
	}
}

func submitCmd(ctx context.Context, sess *wizard.Session, hook func(wizard.SubmissionPayload, error)) tea.Cmd {
	return func() tea.Msg {
		payload, err := sess.Submit(ctx)
		if hook != nil && !errors.Is(err, wizard.ErrNotReview) && !errors.Is(err, wizard.ErrSessionClosed) {
			hook(payload, err)
		}
		return submitMsg{payload: payload, err: err}
	}
}
