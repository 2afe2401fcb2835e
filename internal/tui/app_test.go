package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/theirongolddev/budgetwiz/internal/tui/components"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

type stubBackend struct {
	mu        sync.Mutex
	banks     []wizard.TemplateRef
	templates []wizard.StoredTemplate
	existing  wizard.ExistingConfig
	submitErr error
	submitted []wizard.SubmissionPayload
}

func (s *stubBackend) BankTemplates(context.Context) ([]wizard.TemplateRef, error) {
	return s.banks, nil
}

func (s *stubBackend) AnalyzeSetup(context.Context, int64) (wizard.Analysis, error) {
	return wizard.Analysis{
		RecurringItems: []wizard.RecurringItem{{Name: "Netflix", Amount: "55.90", Included: true}},
	}, nil
}

func (s *stubBackend) RecurringTemplates(context.Context, int64) ([]wizard.RecurringItem, error) {
	return nil, nil
}

func (s *stubBackend) SetupState(context.Context, int64) (wizard.ExistingConfig, error) {
	return s.existing, nil
}

func (s *stubBackend) SetupTemplates(context.Context) ([]wizard.StoredTemplate, error) {
	return s.templates, nil
}

func (s *stubBackend) ExportSetup(_ context.Context, _ int64, req wizard.ExportRequest) (wizard.StoredTemplate, error) {
	return wizard.StoredTemplate{ID: 99, Name: req.Name, TemplateData: req.TemplateData}, nil
}

func (s *stubBackend) SubmitSetup(_ context.Context, _ int64, p wizard.SubmissionPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitErr != nil {
		return s.submitErr
	}
	s.submitted = append(s.submitted, p)
	return nil
}

func day(n int) *int { return &n }

func newStub() *stubBackend {
	return &stubBackend{
		banks: []wizard.TemplateRef{
			{ID: 2, BankName: "Nubank", AccountType: wizard.AccountCreditCard, DefaultClosingDay: day(1), DefaultDueDay: day(8)},
			{ID: 1, BankName: "Itau", AccountType: wizard.AccountChecking},
		},
	}
}

func newTestApp(t *testing.T, be *stubBackend, configured bool) (App, *wizard.Session) {
	t.Helper()
	sess := wizard.NewSession(wizard.SessionConfig{
		ProfileID:  7,
		Variant:    wizard.VariantFull,
		Options:    wizard.DefaultOptions(),
		Configured: configured,
		Backend:    be,
	})
	t.Cleanup(sess.Close)
	a := NewApp(Options{Session: sess})
	a = send(t, a,
		tea.WindowSizeMsg{Width: 100, Height: 60},
		catalogMsg{banks: be.banks, templates: be.templates},
	)
	return a, sess
}

func send(t *testing.T, a App, msgs ...tea.Msg) App {
	t.Helper()
	for _, msg := range msgs {
		m, _ := a.Update(msg)
		next, ok := m.(App)
		if !ok {
			t.Fatalf("Update returned %T", m)
		}
		a = next
	}
	return a
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
)

func TestWizardWalkthroughNewProfile(t *testing.T) {
	be := newStub()
	a, sess := newTestApp(t, be, false)

	if got := a.currentStep(); got != wizard.StepProfile {
		t.Fatalf("start step = %v, want Profile", got)
	}
	a = send(t, a, enter)
	if sess.Draft().Step != 1 || !a.noticeErr {
		t.Fatal("advanced without a profile name")
	}

	a = send(t, a, keys("Casa"), enter)
	if sess.Draft().ProfileName != "Casa" || a.currentStep() != wizard.StepBanks {
		t.Fatalf("profile step: name=%q step=%v", sess.Draft().ProfileName, a.currentStep())
	}

	// Banks are sorted by name: Itau checking, then Nubank card.
	a = send(t, a, space, keys("j"), space, enter)
	d := sess.Draft()
	if len(d.SelectedBankTemplates) != 2 || a.currentStep() != wizard.StepCards {
		t.Fatalf("banks step: selected=%d step=%v", len(d.SelectedBankTemplates), a.currentStep())
	}

	a = send(t, a, keys("c"), keys("5"), enter)
	if got := sess.Draft().CardConfigs[2].ClosingDay; got == nil || *got != 5 {
		t.Fatalf("closing day = %v, want 5", got)
	}

	a = send(t, a, enter) // cards -> display mode
	a = send(t, a, space, enter)
	if sess.Draft().CCDisplayMode != wizard.DisplayTransaction {
		t.Fatalf("display mode = %q", sess.Draft().CCDisplayMode)
	}
	if !a.pickingSource || a.currentStep() != wizard.StepRecurring {
		t.Fatal("recurring step did not open the source picker")
	}

	// Third option is "start empty".
	a = send(t, a, keys("j"), keys("j"), enter)
	if sess.Draft().RecurringSource != wizard.RecurringBlank {
		t.Fatalf("recurring source = %q", sess.Draft().RecurringSource)
	}
	a = send(t, a, keys("a"), keys("Rent"), enter, keys("e"), keys("1500"), enter)
	items := sess.Draft().RecurringItems
	if len(items) != 1 || items[0].Name != "Rent" || items[0].Amount != "1500" {
		t.Fatalf("recurring items = %+v", items)
	}

	a = send(t, a, enter, tab, tab, tab, enter)
	if a.currentStep() != wizard.StepReview {
		t.Fatalf("step = %v, want Review", a.currentStep())
	}

	var hooked int
	a = send(t, a, enter)
	if a.busy == "" {
		t.Fatal("submit did not mark the app busy")
	}
	msg := submitCmd(context.Background(), sess, func(wizard.SubmissionPayload, error) { hooked++ })()
	a = send(t, a, msg)

	if !a.done || hooked != 1 {
		t.Fatalf("done=%v hooked=%d", a.done, hooked)
	}
	p, ok := a.Submitted()
	if !ok || p.ProfileName != "Casa" || len(p.BankAccounts) != 2 || len(p.RecurringTemplates) != 1 {
		t.Fatalf("submitted = %+v", p)
	}
	if len(be.submitted) != 1 {
		t.Fatalf("backend saw %d submissions", len(be.submitted))
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	be := newStub()
	be.submitErr = errors.New("502 bad gateway")
	a, sess := newTestApp(t, be, false)

	sess.Dispatch(wizard.SetProfileName{Name: "Casa"})
	sess.GoTo(sess.Flow().Total())
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 60})

	msg := submitCmd(context.Background(), sess, nil)()
	a = send(t, a, msg)

	if a.done || !a.noticeErr {
		t.Fatalf("done=%v noticeErr=%v after failed submit", a.done, a.noticeErr)
	}
	if sess.Closed() || sess.Draft().ProfileName != "Casa" {
		t.Fatal("failed submit lost the session")
	}
	if !strings.Contains(a.View(), "Submission failed") {
		t.Fatal("review does not show the submission error")
	}
}

func TestBackFromEditOpensModeSelection(t *testing.T) {
	be := newStub()
	be.existing = wizard.ExistingConfig{ProfileName: "Casa"}
	a, sess := newTestApp(t, be, true)
	if a.modeForm == nil || a.currentStep() != wizard.StepModeSelection {
		t.Fatal("configured profile did not open on mode selection")
	}

	if err := sess.ChooseMode(context.Background(), wizard.ChooseReconfigure); err != nil {
		t.Fatalf("ChooseMode: %v", err)
	}
	a.modeForm = nil
	a = send(t, a, modeChosenMsg{choice: wizard.ChooseReconfigure})
	if a.currentStep() != wizard.StepProfile || a.nameInput.Value() != "Casa" {
		t.Fatalf("step=%v name=%q", a.currentStep(), a.nameInput.Value())
	}

	a = send(t, a, esc)
	if a.modeForm == nil || !sess.Draft().ShowModeSelection {
		t.Fatal("back from the first edit step did not return to mode selection")
	}
}

func TestLoadTemplateFromPicker(t *testing.T) {
	be := newStub()
	be.templates = []wizard.StoredTemplate{{
		ID:   5,
		Name: "Family",
		TemplateData: wizard.TemplateData{
			RenameRules: []wizard.RenameRule{{Keyword: "UBER", DisplayName: "Uber"}},
		},
	}}
	a, sess := newTestApp(t, be, true)

	if err := sess.ChooseMode(context.Background(), wizard.ChooseLoadTemplate); err != nil {
		t.Fatalf("ChooseMode: %v", err)
	}
	a.modeForm = nil
	a = send(t, a, modeChosenMsg{choice: wizard.ChooseLoadTemplate})
	if !a.pickingTemplate {
		t.Fatal("template picker not shown")
	}

	a = send(t, a, enter)
	d := sess.Draft()
	if d.LoadedTemplateID == nil || *d.LoadedTemplateID != 5 || len(d.RenameRules) != 1 {
		t.Fatalf("template not applied: %+v", d)
	}
	if a.pickingTemplate || a.currentStep() != wizard.StepProfile {
		t.Fatalf("picker still open or step = %v", a.currentStep())
	}
}

func TestStepBarClickJumpsBack(t *testing.T) {
	a, sess := newTestApp(t, newStub(), false)
	sess.Dispatch(wizard.SetProfileName{Name: "Casa"})
	sess.GoTo(sess.Flow().Total())

	a = send(t, a, tea.MouseMsg{X: stepColumn(t, a, 2), Y: stepBarRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := sess.Draft().Step; got != 2 {
		t.Fatalf("step = %d, want 2", got)
	}

	// Steps ahead of the current one are not reachable by clicking.
	a = send(t, a, tea.MouseMsg{X: stepColumn(t, a, 5), Y: stepBarRow, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := sess.Draft().Step; got != 2 {
		t.Fatalf("step = %d after clicking ahead, want 2", got)
	}
	_ = a
}

// stepColumn finds a screen column inside step n's label on the step bar.
func stepColumn(t *testing.T, a App, n int) int {
	t.Helper()
	cw := a.contentWidth()
	for x := 0; x < cw; x++ {
		if components.StepAtX(a.stepLabels(), a.sess.Draft().Step, cw, x) == n {
			return x + a.contentOffset()
		}
	}
	t.Fatalf("step %d not on the bar", n)
	return 0
}

func TestSaveTemplatePromptRequiresName(t *testing.T) {
	a, sess := newTestApp(t, newStub(), false)
	sess.GoTo(sess.Flow().Total())
	a = send(t, a, tea.WindowSizeMsg{Width: 100, Height: 60})

	a = send(t, a, keys("w"), enter)
	if !a.prompt.active || !a.noticeErr {
		t.Fatal("empty template name was accepted")
	}
	a = send(t, a, keys("Family"), enter)
	if a.prompt.active || a.busy == "" {
		t.Fatal("template save did not start")
	}
	msg := saveTemplateCmd(context.Background(), sess, "Family")()
	a = send(t, a, msg)
	if len(a.templates) != 1 || a.templates[0].ID != 99 || a.busy != "" {
		t.Fatalf("templates = %+v busy=%q", a.templates, a.busy)
	}
}

func TestParseHelpers(t *testing.T) {
	if d, err := parseDay(""); err != nil || d != nil {
		t.Fatalf("parseDay(\"\") = %v, %v", d, err)
	}
	for _, bad := range []string{"0", "32", "x"} {
		if _, err := parseDay(bad); err == nil {
			t.Errorf("parseDay(%q) accepted", bad)
		}
	}
	if pct, err := parsePercent("12,5%"); err != nil || pct != 12.5 {
		t.Fatalf("parsePercent = %v, %v", pct, err)
	}
	if _, err := parsePercent("150"); err == nil {
		t.Fatal("parsePercent accepted 150")
	}
	if l, r, err := parsePair("UBER *TRIP => Uber"); err != nil || l != "UBER *TRIP" || r != "Uber" {
		t.Fatalf("parsePair = %q, %q, %v", l, r, err)
	}
	if _, _, err := parsePair("no separator"); err == nil {
		t.Fatal("parsePair accepted input without '='")
	}
	if _, err := parseAmount("abc"); err == nil {
		t.Fatal("parseAmount accepted abc")
	}
}
