package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
)

// sourceOption is one entry of a recurring or category source picker.
type sourceOption struct {
	value string
	label string
	desc  string
}

func (a App) recurringSources() []sourceOption {
	opts := []sourceOption{
		{string(wizard.RecurringSmart), "Suggest from my transactions", "detected from imported history"},
		{string(wizard.RecurringClone), "Copy from another profile", "reuse a profile's recurring list"},
		{string(wizard.RecurringBlank), "Start empty", "add items by hand"},
	}
	if a.sess.Draft().Mode != wizard.ModeNew {
		opts = append(opts, sourceOption{string(wizard.RecurringExisting), "Keep current items", "from the loaded configuration"})
	}
	return opts
}

func (a App) categorySources() []sourceOption {
	opts := []sourceOption{
		{string(wizard.CategorySmart), "Suggest budgets from my spending", "average monthly spend per category"},
		{string(wizard.CategoryDefault), "Use the default categories", "standard category set"},
		{string(wizard.CategoryBlank), "Start empty", "no categories"},
	}
	if a.sess.Draft().Mode != wizard.ModeNew {
		opts = append(opts, sourceOption{string(wizard.CategoryExisting), "Keep current budgets", "from the loaded configuration"})
	}
	return opts
}

// listLen is the number of rows the cursor moves over on the current step.
func (a App) listLen(kind wizard.StepKind, d wizard.Draft) int {
	if a.pickingSource {
		if kind == wizard.StepRecurring {
			return len(a.recurringSources())
		}
		return len(a.categorySources())
	}
	switch kind {
	case wizard.StepBanks:
		return len(a.banks)
	case wizard.StepCards:
		return len(creditCards(d))
	case wizard.StepDisplayMode:
		return 2
	case wizard.StepRecurring:
		return len(d.RecurringItems)
	case wizard.StepCategories:
		if len(d.BudgetLimits) > 0 {
			return len(d.BudgetLimits)
		}
		return len(d.Categories)
	case wizard.StepRenameRules:
		return len(d.RenameRules)
	case wizard.StepCategorizationRules:
		return len(d.CategorizationRules)
	case wizard.StepDashboard:
		return len(d.CardOrder)
	}
	return 0
}

func (a *App) moveCursor(delta int, kind wizard.StepKind, d wizard.Draft) {
	n := a.listLen(kind, d)
	a.cursor += delta
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a App) updateStep(msg tea.KeyMsg) (App, tea.Cmd) {
	d := a.sess.Draft()
	kind := a.flow.Current(d)
	key := msg.String()

	if kind == wizard.StepProfile {
		return a.updateProfile(msg, d)
	}
	if a.pickingSource {
		return a.updateSourcePicker(key, kind, d)
	}

	switch key {
	case "q":
		return a.quit()
	case "j", "down":
		a.moveCursor(1, kind, d)
		return a, nil
	case "k", "up":
		a.moveCursor(-1, kind, d)
		return a, nil
	case "enter":
		if kind == wizard.StepReview {
			return a.submit()
		}
		return a.advance(kind), nil
	case "esc", "shift+tab":
		return a.back()
	case "tab":
		return a.skip(), nil
	}

	switch kind {
	case wizard.StepBanks:
		return a.updateBanks(key, d)
	case wizard.StepCards:
		return a.updateCards(key, d)
	case wizard.StepDisplayMode:
		return a.updateDisplayMode(key, d)
	case wizard.StepRecurring:
		return a.updateRecurring(key, d)
	case wizard.StepCategories:
		return a.updateCategories(key, d)
	case wizard.StepRenameRules:
		return a.updateRenameRules(key, d)
	case wizard.StepCategorizationRules:
		return a.updateCategorizationRules(key, d)
	case wizard.StepDashboard:
		return a.updateDashboard(key, d)
	case wizard.StepReview:
		return a.updateReview(key)
	}
	return a, nil
}

func (a App) advance(kind wizard.StepKind) App {
	err := a.sess.Advance()
	if errors.Is(err, wizard.ErrStepIncomplete) {
		switch kind {
		case wizard.StepProfile:
			a.setNotice("Enter a profile name to continue")
		case wizard.StepBanks:
			a.setNotice("Select at least one account to continue")
		}
		a.noticeErr = true
	}
	return a
}

func (a App) skip() App {
	if err := a.sess.Skip(); errors.Is(err, wizard.ErrNotSkippable) {
		a.setNotice("This step can't be skipped")
	}
	return a
}

func (a App) back() (App, tea.Cmd) {
	if a.sess.Back() == wizard.BackModeSelection {
		a.modeForm = newModeForm(a.modeChoice)
		if a.width > 0 {
			a.modeForm = a.modeForm.WithWidth(a.contentWidth() - 4)
		}
		return a, a.modeForm.Init()
	}
	return a, nil
}

func (a App) submit() (App, tea.Cmd) {
	a.busy = "Submitting configuration"
	return a, tea.Batch(a.spinner.Tick, submitCmd(a.ctx, a.sess, a.onSubmit))
}

// ─── Profile ────────────────────────────────────────────────────

func (a App) updateProfile(msg tea.KeyMsg, d wizard.Draft) (App, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return a.advance(wizard.StepProfile), nil
	case "esc", "shift+tab":
		return a.back()
	case "ctrl+t":
		if d.Mode == wizard.ModeEdit {
			return a, nil
		}
		a.pickingTemplate = true
		a.cursor = 0
		return a, nil
	}
	var cmd tea.Cmd
	a.nameInput, cmd = a.nameInput.Update(msg)
	if v := a.nameInput.Value(); v != d.ProfileName {
		a.sess.Dispatch(wizard.SetProfileName{Name: v})
	}
	return a, cmd
}

// ─── Banks ──────────────────────────────────────────────────────

func (a App) updateBanks(key string, d wizard.Draft) (App, tea.Cmd) {
	switch key {
	case " ", "x":
		if a.cursor < len(a.banks) {
			a.sess.Dispatch(wizard.ToggleBankTemplate{Template: a.banks[a.cursor]})
		}
	case "r":
		if a.catalogErr != nil {
			a.loaded = false
			a.catalogErr = nil
			return a, loadCatalogCmd(a.ctx, a.sess)
		}
	}
	return a, nil
}

// ─── Cards ──────────────────────────────────────────────────────

func creditCards(d wizard.Draft) []wizard.TemplateRef {
	var out []wizard.TemplateRef
	for _, t := range d.SelectedBankTemplates {
		if t.IsCreditCard() {
			out = append(out, t)
		}
	}
	return out
}

func (a App) updateCards(key string, d wizard.Draft) (App, tea.Cmd) {
	cards := creditCards(d)
	if a.cursor >= len(cards) {
		return a, nil
	}
	card := cards[a.cursor]
	cfg := d.CardConfigs[card.ID]
	patch := func(p wizard.CardConfigPatch) {
		a.sess.Dispatch(wizard.SetCardConfig{ID: card.ID, Patch: p})
	}

	switch key {
	case "c":
		return a.openPrompt("Closing day", dayString(cfg.ClosingDay), "1-31", func(v string) (pending, error) {
			day, err := parseDay(v)
			if err != nil {
				return pending{}, err
			}
			patch(wizard.CardConfigPatch{ClosingDay: day})
			return pending{}, nil
		})
	case "d":
		return a.openPrompt("Due day", dayString(cfg.DueDay), "1-31", func(v string) (pending, error) {
			day, err := parseDay(v)
			if err != nil {
				return pending{}, err
			}
			patch(wizard.CardConfigPatch{DueDay: day})
			return pending{}, nil
		})
	case "l":
		return a.openPrompt("Credit limit", string(cfg.CreditLimit), "e.g. 5.000,00", func(v string) (pending, error) {
			n, err := parseAmount(v)
			if err != nil {
				return pending{}, err
			}
			patch(wizard.CardConfigPatch{CreditLimit: &n})
			return pending{}, nil
		})
	case "n":
		return a.openPrompt("Display name", cfg.DisplayName, card.BankName, func(v string) (pending, error) {
			v = strings.TrimSpace(v)
			patch(wizard.CardConfigPatch{DisplayName: &v})
			return pending{}, nil
		})
	}
	return a, nil
}

func dayString(d *int) string {
	if d == nil {
		return ""
	}
	return fmt.Sprint(*d)
}

// ─── Display mode ───────────────────────────────────────────────

var displayModes = []wizard.DisplayMode{wizard.DisplayInvoice, wizard.DisplayTransaction}

func (a App) updateDisplayMode(key string, d wizard.Draft) (App, tea.Cmd) {
	switch key {
	case " ", "x", "left", "right", "h", "l":
		next := wizard.DisplayTransaction
		if d.CCDisplayMode == wizard.DisplayTransaction {
			next = wizard.DisplayInvoice
		}
		a.sess.Dispatch(wizard.SetCCDisplayMode{Mode: next})
	case "1":
		a.sess.Dispatch(wizard.SetCCDisplayMode{Mode: wizard.DisplayInvoice})
	case "2":
		a.sess.Dispatch(wizard.SetCCDisplayMode{Mode: wizard.DisplayTransaction})
	}
	return a, nil
}

// ─── Sources ────────────────────────────────────────────────────

func (a App) updateSourcePicker(key string, kind wizard.StepKind, d wizard.Draft) (App, tea.Cmd) {
	opts := a.recurringSources()
	if kind == wizard.StepCategories {
		opts = a.categorySources()
	}

	switch key {
	case "j", "down":
		a.moveCursor(1, kind, d)
	case "k", "up":
		a.moveCursor(-1, kind, d)
	case "tab":
		return a.skip(), nil
	case "esc", "shift+tab":
		if (kind == wizard.StepRecurring && d.RecurringSource != wizard.RecurringNone) ||
			(kind == wizard.StepCategories && d.CategorySource != wizard.CategoryNone) {
			a.pickingSource = false
			a.cursor = 0
			return a, nil
		}
		return a.back()
	case "enter":
		if a.cursor >= len(opts) {
			return a, nil
		}
		opt := opts[a.cursor]
		a.pickingSource = false
		a.cursor = 0
		if kind == wizard.StepRecurring {
			return a.selectRecurringSource(wizard.RecurringSource(opt.value))
		}
		return a.selectCategorySource(wizard.CategorySource(opt.value))
	}
	return a, nil
}

func (a App) selectRecurringSource(src wizard.RecurringSource) (App, tea.Cmd) {
	switch src {
	case wizard.RecurringSmart:
		a.busy = "Analyzing your transactions"
		return a, tea.Batch(a.spinner.Tick, recurringSourceCmd(a.ctx, a.sess, src))
	case wizard.RecurringClone:
		placeholder := "profile id"
		if len(a.profiles) > 0 {
			placeholder = fmt.Sprintf("profile id, e.g. %d", a.profiles[0].ID)
		}
		return a.openPrompt("Copy recurring items from profile", "", placeholder, func(v string) (pending, error) {
			id, err := parseProfileID(v)
			if err != nil {
				return pending{}, err
			}
			return pending{label: "Copying recurring items", cmd: cloneRecurringCmd(a.ctx, a.sess, id)}, nil
		})
	}
	if err := a.sess.SelectRecurringSource(a.ctx, src); err != nil {
		a.setError(err)
	}
	return a, nil
}

func (a App) selectCategorySource(src wizard.CategorySource) (App, tea.Cmd) {
	if src == wizard.CategorySmart {
		a.busy = "Analyzing your spending"
		return a, tea.Batch(a.spinner.Tick, categorySourceCmd(a.ctx, a.sess, src))
	}
	if err := a.sess.SelectCategorySource(a.ctx, src); err != nil {
		a.setError(err)
	}
	return a, nil
}

// ─── Recurring ──────────────────────────────────────────────────

func (a App) updateRecurring(key string, d wizard.Draft) (App, tea.Cmd) {
	items := d.RecurringItems
	update := func(i int, p wizard.RecurringItemPatch) {
		a.sess.Dispatch(wizard.UpdateRecurringItem{Index: i, Patch: p})
	}

	switch key {
	case "o":
		a.pickingSource = true
		a.cursor = 0
		return a, nil
	case "a":
		return a.openPrompt("New recurring item", "", "e.g. Rent", func(v string) (pending, error) {
			v = strings.TrimSpace(v)
			if v == "" {
				return pending{}, errors.New("enter a name")
			}
			a.sess.Dispatch(wizard.AddRecurringItem{Item: wizard.RecurringItem{
				Name:     v,
				Type:     wizard.TypeFixed,
				Included: true,
			}})
			return pending{}, nil
		})
	}

	if a.cursor >= len(items) {
		return a, nil
	}
	i := a.cursor
	item := items[i]

	switch key {
	case " ":
		a.sess.Dispatch(wizard.ToggleRecurringItem{Index: i})
	case "x", "delete":
		a.sess.Dispatch(wizard.RemoveRecurringItem{Index: i})
		if a.cursor > 0 && a.cursor >= len(items)-1 {
			a.cursor--
		}
	case "t":
		next := nextRecurringType(effectiveType(item))
		update(i, wizard.RecurringItemPatch{Type: &next})
	case "e":
		return a.openPrompt("Amount for "+item.Name, string(item.Amount), "e.g. 1.500,00", func(v string) (pending, error) {
			n, err := parseAmount(v)
			if err != nil {
				return pending{}, err
			}
			update(i, wizard.RecurringItemPatch{Amount: &n})
			return pending{}, nil
		})
	case "r":
		return a.openPrompt("Rename", item.Name, "", func(v string) (pending, error) {
			v = strings.TrimSpace(v)
			if v == "" {
				return pending{}, errors.New("enter a name")
			}
			update(i, wizard.RecurringItemPatch{Name: &v})
			return pending{}, nil
		})
	case "d":
		return a.openPrompt("Due day for "+item.Name, dayString(item.DueDay), "1-31, blank for none", func(v string) (pending, error) {
			day, err := parseDay(v)
			if err != nil {
				return pending{}, err
			}
			if day == nil {
				update(i, wizard.RecurringItemPatch{ClearDue: true})
			} else {
				update(i, wizard.RecurringItemPatch{DueDay: day})
			}
			return pending{}, nil
		})
	}
	return a, nil
}

func effectiveType(r wizard.RecurringItem) wizard.RecurringType {
	if r.Type != "" {
		return r.Type
	}
	if r.TemplateType != "" {
		return r.TemplateType
	}
	return wizard.TypeFixed
}

func nextRecurringType(t wizard.RecurringType) wizard.RecurringType {
	for i, rt := range wizard.RecurringTypes {
		if rt == t {
			return wizard.RecurringTypes[(i+1)%len(wizard.RecurringTypes)]
		}
	}
	return wizard.RecurringTypes[0]
}

// ─── Categories and targets ─────────────────────────────────────

func (a App) updateCategories(key string, d wizard.Draft) (App, tea.Cmd) {
	switch key {
	case "o":
		a.pickingSource = true
		a.cursor = 0
		return a, nil
	case "v":
		return a.openPrompt("Savings target %", fmt.Sprint(d.SavingsTargetPct), "0-100", func(v string) (pending, error) {
			pct, err := parsePercent(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.SetSavingsTarget{Pct: pct})
			return pending{}, nil
		})
	case "i":
		return a.openPrompt("Investment target %", fmt.Sprint(d.InvestmentTargetPct), "0-100", func(v string) (pending, error) {
			pct, err := parsePercent(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.SetInvestmentTarget{Pct: pct})
			return pending{}, nil
		})
	case "a":
		return a.openPrompt("Allocation", "", "e.g. Fixed income = 60", func(v string) (pending, error) {
			name, pct, err := parsePair(v)
			if err != nil {
				return pending{}, err
			}
			if _, err := parsePercent(pct); err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.AddAllocation{Allocation: wizard.Allocation{
				Name:       name,
				Percentage: wizard.Number(strings.TrimSuffix(pct, "%")),
			}})
			return pending{}, nil
		})
	case "z":
		if n := len(d.InvestmentAllocation); n > 0 {
			a.sess.Dispatch(wizard.RemoveAllocation{Index: n - 1})
		}
		return a, nil
	case "e":
		if a.cursor >= len(d.BudgetLimits) {
			return a, nil
		}
		i := a.cursor
		b := d.BudgetLimits[i]
		return a.openPrompt("Monthly limit for "+b.Category, string(b.SuggestedLimit), "e.g. 800", func(v string) (pending, error) {
			n, err := parseAmount(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.UpdateBudgetLimit{Index: i, Limit: n})
			return pending{}, nil
		})
	}
	return a, nil
}

// ─── Rules ──────────────────────────────────────────────────────

func (a App) updateRenameRules(key string, d wizard.Draft) (App, tea.Cmd) {
	switch key {
	case "a":
		return a.openPrompt("Rename rule", "", "keyword = display name", func(v string) (pending, error) {
			kw, name, err := parsePair(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.AddRenameRule{Rule: wizard.RenameRule{Keyword: kw, DisplayName: name}})
			return pending{}, nil
		})
	}
	if a.cursor >= len(d.RenameRules) {
		return a, nil
	}
	i := a.cursor
	r := d.RenameRules[i]
	switch key {
	case "e":
		return a.openPrompt("Rename rule", r.Keyword+" = "+r.DisplayName, "keyword = display name", func(v string) (pending, error) {
			kw, name, err := parsePair(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.UpdateRenameRule{Index: i, Rule: wizard.RenameRule{Keyword: kw, DisplayName: name}})
			return pending{}, nil
		})
	case "x", "delete":
		a.sess.Dispatch(wizard.RemoveRenameRule{Index: i})
		if a.cursor > 0 && a.cursor >= len(d.RenameRules)-1 {
			a.cursor--
		}
	}
	return a, nil
}

func (a App) updateCategorizationRules(key string, d wizard.Draft) (App, tea.Cmd) {
	switch key {
	case "a":
		return a.openPrompt("Categorization rule", "", "keyword = category", func(v string) (pending, error) {
			kw, cat, err := parsePair(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.AddCategorizationRule{Rule: wizard.CategorizationRule{
				Keyword:      kw,
				CategoryName: cat,
				Priority:     len(d.CategorizationRules) + 1,
			}})
			return pending{}, nil
		})
	}
	if a.cursor >= len(d.CategorizationRules) {
		return a, nil
	}
	i := a.cursor
	r := d.CategorizationRules[i]
	switch key {
	case "e":
		return a.openPrompt("Categorization rule", r.Keyword+" = "+r.CategoryName, "keyword = category", func(v string) (pending, error) {
			kw, cat, err := parsePair(v)
			if err != nil {
				return pending{}, err
			}
			a.sess.Dispatch(wizard.UpdateCategorizationRule{Index: i, Rule: wizard.CategorizationRule{
				Keyword:      kw,
				CategoryName: cat,
				Priority:     r.Priority,
			}})
			return pending{}, nil
		})
	case "+", "=":
		r.Priority++
		a.sess.Dispatch(wizard.UpdateCategorizationRule{Index: i, Rule: r})
	case "-":
		if r.Priority > 0 {
			r.Priority--
			a.sess.Dispatch(wizard.UpdateCategorizationRule{Index: i, Rule: r})
		}
	case "x", "delete":
		a.sess.Dispatch(wizard.RemoveCategorizationRule{Index: i})
		if a.cursor > 0 && a.cursor >= len(d.CategorizationRules)-1 {
			a.cursor--
		}
	}
	return a, nil
}

// ─── Dashboard ──────────────────────────────────────────────────

func (a App) updateDashboard(key string, d wizard.Draft) (App, tea.Cmd) {
	if a.cursor >= len(d.CardOrder) {
		return a, nil
	}
	switch key {
	case " ", "x":
		a.sess.Dispatch(wizard.ToggleHiddenCard{ID: d.CardOrder[a.cursor]})
	case "K", "shift+up":
		if a.cursor > 0 {
			a.sess.Dispatch(wizard.MoveCard{Index: a.cursor, Direction: -1})
			a.cursor--
		}
	case "J", "shift+down":
		if a.cursor < len(d.CardOrder)-1 {
			a.sess.Dispatch(wizard.MoveCard{Index: a.cursor, Direction: 1})
			a.cursor++
		}
	}
	return a, nil
}

// ─── Review ─────────────────────────────────────────────────────

func (a App) updateReview(key string) (App, tea.Cmd) {
	switch key {
	case "s":
		return a.submit()
	case "w":
		return a.openPrompt("Save as template", "", "template name", func(v string) (pending, error) {
			if strings.TrimSpace(v) == "" {
				return pending{}, wizard.ErrTemplateName
			}
			return pending{label: "Saving template", cmd: saveTemplateCmd(a.ctx, a.sess, v)}, nil
		})
	}
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		a.jumpTo(int(key[0] - '0'))
	}
	return a, nil
}
