package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/cli"
	"github.com/theirongolddev/budgetwiz/internal/dashboard"
	"github.com/theirongolddev/budgetwiz/internal/tui/components"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	"github.com/charmbracelet/lipgloss"
)

func mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(theme.Active.TextMuted)
}

func cursorMark(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(theme.Active.AccentBright).Bold(true).Render("› ")
	}
	return "  "
}

// rowMark is the plain cursor marker used inside table cells.
func rowMark(on bool) string {
	if on {
		return "›"
	}
	return " "
}

func checkMark(on bool) string {
	t := theme.Active
	if on {
		return lipgloss.NewStyle().Foreground(t.Status(true)).Render("[x] ")
	}
	return lipgloss.NewStyle().Foreground(t.Status(false)).Render("[ ] ")
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.done {
		return a.viewDone()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  budgetwiz needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height
	d := a.sess.Draft()
	kind := a.currentStep()

	// 1. Header: title, step trail, progress
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	rowStyle := lipgloss.NewStyle().Background(t.Surface).Width(cw)

	title := titleStyle.Render(" ◈ budgetwiz") + subStyle.Render(" · "+modeLabel(d.Mode))
	header := rowStyle.Render(title) + "\n" +
		components.RenderStepBar(a.stepLabels(), d.Step, cw) + "\n" +
		rowStyle.Render(" "+components.StepProgress(d.Step, a.flow.Total(), cw-2))

	// 2. Status bar
	right := ""
	if a.busy != "" {
		right = a.spinner.View() + " " + a.busy
	}
	statusBar := components.RenderStatusBar(cw, a.keyHints(kind), right)

	// 3. Content zone
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	body := a.renderStep(kind, d, cw)
	if a.prompt.active {
		body += "\n\n" + lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(a.prompt.label+": ") + a.prompt.input.View()
	}
	if a.notice != "" {
		color := t.Green
		if a.noticeErr {
			color = t.Red
		}
		body += "\n\n" + lipgloss.NewStyle().Foreground(color).Render(a.notice)
	}
	if err := a.sess.StepErr(kind); err != nil {
		body += "\n" + lipgloss.NewStyle().Foreground(t.Orange).Render("! "+err.Error())
	}

	content := components.ContentCard(kind.String(), body, cw)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func modeLabel(m wizard.Mode) string {
	switch m {
	case wizard.ModeEdit:
		return "reconfiguring profile"
	case wizard.ModeTemplate:
		return "from template"
	}
	return "new profile"
}

func (a App) keyHints(kind wizard.StepKind) []components.KeyHint {
	if a.prompt.active {
		return []components.KeyHint{{Key: "enter", Desc: "confirm"}, {Key: "esc", Desc: "cancel"}}
	}
	if kind == wizard.StepModeSelection {
		return []components.KeyHint{{Key: "enter", Desc: "choose"}, {Key: "esc", Desc: "back"}}
	}
	if a.pickingSource {
		return []components.KeyHint{{Key: "enter", Desc: "use source"}, {Key: "tab", Desc: "skip"}, {Key: "esc", Desc: "back"}}
	}

	var hints []components.KeyHint
	switch kind {
	case wizard.StepProfile:
		hints = append(hints, components.KeyHint{Key: "^t", Desc: "template"})
	case wizard.StepBanks:
		hints = append(hints, components.KeyHint{Key: "space", Desc: "toggle"})
	case wizard.StepCards:
		hints = append(hints, components.KeyHint{Key: "c/d/l/n", Desc: "edit"})
	case wizard.StepDisplayMode:
		hints = append(hints, components.KeyHint{Key: "space", Desc: "switch"})
	case wizard.StepRecurring:
		hints = append(hints,
			components.KeyHint{Key: "space", Desc: "include"},
			components.KeyHint{Key: "a", Desc: "add"},
			components.KeyHint{Key: "e", Desc: "amount"},
			components.KeyHint{Key: "o", Desc: "source"})
	case wizard.StepCategories:
		hints = append(hints,
			components.KeyHint{Key: "e", Desc: "limit"},
			components.KeyHint{Key: "v/i", Desc: "targets"},
			components.KeyHint{Key: "o", Desc: "source"})
	case wizard.StepRenameRules, wizard.StepCategorizationRules:
		hints = append(hints,
			components.KeyHint{Key: "a", Desc: "add"},
			components.KeyHint{Key: "e", Desc: "edit"},
			components.KeyHint{Key: "x", Desc: "remove"})
	case wizard.StepDashboard:
		hints = append(hints,
			components.KeyHint{Key: "J/K", Desc: "move"},
			components.KeyHint{Key: "space", Desc: "hide"})
	case wizard.StepReview:
		return append(hints,
			components.KeyHint{Key: "enter", Desc: "submit"},
			components.KeyHint{Key: "w", Desc: "save template"},
			components.KeyHint{Key: "1-9", Desc: "edit step"},
			components.KeyHint{Key: "esc", Desc: "back"})
	}
	hints = append(hints, components.KeyHint{Key: "enter", Desc: "next"})
	if a.flow.Skippable(a.sess.Draft().Step) {
		hints = append(hints, components.KeyHint{Key: "tab", Desc: "skip"})
	}
	return append(hints, components.KeyHint{Key: "esc", Desc: "back"}, components.KeyHint{Key: "?", Desc: "help"})
}

func (a App) renderStep(kind wizard.StepKind, d wizard.Draft, w int) string {
	inner := components.CardInnerWidth(w)
	switch kind {
	case wizard.StepModeSelection:
		if a.pickingTemplate {
			return a.renderTemplatePicker(inner)
		}
		if a.modeForm != nil {
			return a.modeForm.View()
		}
		return a.spinner.View() + mutedStyle().Render(" "+a.busy)
	case wizard.StepProfile:
		return a.renderProfile(d)
	case wizard.StepBanks:
		return a.renderBanks(d, inner)
	case wizard.StepCards:
		return a.renderCards(d, inner)
	case wizard.StepDisplayMode:
		return a.renderDisplayMode(d)
	case wizard.StepRecurring:
		if a.pickingSource {
			return a.renderSourcePicker("Where should recurring items come from?", a.recurringSources())
		}
		return a.renderRecurring(d, inner)
	case wizard.StepCategories:
		if a.pickingSource {
			return a.renderSourcePicker("Where should categories and budgets come from?", a.categorySources())
		}
		return a.renderCategories(d, inner)
	case wizard.StepRenameRules:
		return a.renderRenameRules(d, inner)
	case wizard.StepCategorizationRules:
		return a.renderCategorizationRules(d, inner)
	case wizard.StepDashboard:
		return a.renderDashboard(d)
	case wizard.StepReview:
		return a.renderReview(d, w)
	}
	return ""
}

func (a App) renderProfile(d wizard.Draft) string {
	var b strings.Builder
	if d.Mode == wizard.ModeEdit {
		b.WriteString(mutedStyle().Render("Profile name (leave as is to keep it)"))
	} else {
		b.WriteString(mutedStyle().Render("What should this profile be called?"))
	}
	b.WriteString("\n\n  ")
	b.WriteString(a.nameInput.View())
	if d.LoadedTemplateID != nil {
		b.WriteString("\n\n")
		b.WriteString(mutedStyle().Render(fmt.Sprintf("Using template #%d", *d.LoadedTemplateID)))
	}
	return b.String()
}

func (a App) renderBanks(d wizard.Draft, w int) string {
	if !a.loaded {
		return a.spinner.View() + mutedStyle().Render(" Loading banks...")
	}
	if a.catalogErr != nil && len(a.banks) == 0 {
		return mutedStyle().Render("Could not load the bank list. Press r to retry.")
	}
	t := theme.Active
	bankStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(mutedStyle().Render(fmt.Sprintf("Select your accounts (%d selected)", len(d.SelectedBankTemplates))))
	b.WriteString("\n")
	prev := ""
	for i, tpl := range a.banks {
		if !strings.EqualFold(tpl.BankName, prev) {
			b.WriteString("\n" + bankStyle.Render(tpl.BankName) + "\n")
			prev = tpl.BankName
		}
		label := "Checking account"
		meta := ""
		if tpl.IsCreditCard() {
			label = "Credit card"
			meta = fmt.Sprintf("  closes %s · due %s", cli.FormatDay(tpl.DefaultClosingDay), cli.FormatDay(tpl.DefaultDueDay))
		}
		if tpl.DisplayName != "" {
			label = tpl.DisplayName
		}
		b.WriteString(cursorMark(i == a.cursor) + checkMark(d.IsSelected(tpl.ID)) +
			cli.Truncate(label, w/2) + dimStyle.Render(meta) + "\n")
	}
	return b.String()
}

func (a App) renderCards(d wizard.Draft, w int) string {
	cards := creditCards(d)
	if len(cards) == 0 {
		return mutedStyle().Render("No credit cards selected. Press enter to continue.")
	}
	rows := make([][]string, len(cards))
	for i, c := range cards {
		cfg := d.CardConfigs[c.ID]
		limit := "-"
		if v, ok := cfg.CreditLimit.Decimal(); ok {
			limit = cli.FormatBRL(v.InexactFloat64())
		}
		name := cfg.DisplayName
		if name == "" {
			name = c.BankName
		}
		rows[i] = []string{
			rowMark(i == a.cursor) + " " + cli.Truncate(name, w/3),
			cli.FormatDay(cfg.ClosingDay),
			cli.FormatDay(cfg.DueDay),
			limit,
		}
	}
	return cli.RenderTable(cli.Table{
		Headers:    []string{"Card", "Closes", "Due", "Limit"},
		Rows:       rows,
		RightAlign: []int{3},
	})
}

func (a App) renderDisplayMode(d wizard.Draft) string {
	desc := map[wizard.DisplayMode]string{
		wizard.DisplayInvoice:     "Invoice: card spending counts in the month the bill is due",
		wizard.DisplayTransaction: "Transaction: card spending counts on the purchase date",
	}
	var b strings.Builder
	b.WriteString(mutedStyle().Render("How should credit card spending appear on the dashboard?"))
	b.WriteString("\n\n")
	for _, m := range displayModes {
		on := d.CCDisplayMode == m
		mark := "( ) "
		if on {
			mark = "(o) "
		}
		line := mark + desc[m]
		if on {
			line = lipgloss.NewStyle().Foreground(theme.Active.Accent).Render(line)
		}
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}

func (a App) renderSourcePicker(question string, opts []sourceOption) string {
	dimStyle := lipgloss.NewStyle().Foreground(theme.Active.TextDim)
	var b strings.Builder
	b.WriteString(mutedStyle().Render(question))
	b.WriteString("\n\n")
	for i, o := range opts {
		b.WriteString(cursorMark(i == a.cursor) + o.label + dimStyle.Render("  "+o.desc) + "\n")
	}
	return b.String()
}

func (a App) renderRecurring(d wizard.Draft, w int) string {
	if len(d.RecurringItems) == 0 {
		msg := "No recurring items. Press a to add one or o to pick another source."
		if d.RecurringSource == wizard.RecurringSmart {
			msg = "Nothing recurring was detected. Press a to add items by hand."
		}
		return mutedStyle().Render(msg)
	}
	rows := make([][]string, len(d.RecurringItems))
	total := 0.0
	for i, r := range d.RecurringItems {
		amount := r.Amount
		if !amount.IsSet() {
			amount = r.DefaultLimit
		}
		if r.Included && effectiveType(r) != wizard.TypeIncome {
			total += amount.Float()
		}
		mark := "[ ]"
		if r.Included {
			mark = "[x]"
		}
		rows[i] = []string{
			rowMark(i == a.cursor) + " " + mark + " " + cli.Truncate(r.Name, w/3),
			string(effectiveType(r)),
			cli.FormatBRL(amount.Float()),
			cli.FormatDay(r.DueDay),
		}
	}
	return cli.RenderTable(cli.Table{
		Headers:    []string{"Item", "Type", "Amount", "Due"},
		Rows:       rows,
		RightAlign: []int{2},
	}) + "\n" + mutedStyle().Render("Monthly outflow of included items: "+cli.FormatBRL(total))
}

func (a App) renderCategories(d wizard.Draft, w int) string {
	var b strings.Builder
	switch {
	case len(d.BudgetLimits) > 0:
		rows := make([][]string, len(d.BudgetLimits))
		for i, l := range d.BudgetLimits {
			avg := "-"
			if l.AvgMonthly.IsSet() {
				avg = cli.FormatBRL(l.AvgMonthly.Float())
			}
			rows[i] = []string{
				rowMark(i == a.cursor) + " " + cli.Truncate(l.Category, w/3),
				avg,
				cli.FormatBRL(l.SuggestedLimit.Float()),
			}
		}
		b.WriteString(cli.RenderTable(cli.Table{
			Headers:    []string{"Category", "Avg/month", "Limit"},
			Rows:       rows,
			RightAlign: []int{1, 2},
		}))
	case len(d.Categories) > 0:
		for i, c := range d.Categories {
			b.WriteString(cursorMark(i == a.cursor) + c.Name + "\n")
		}
	default:
		b.WriteString(mutedStyle().Render("No categories. Press o to pick a source."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(cli.RenderKV("Targets", [][2]string{
		{"Savings", cli.FormatPercent(d.SavingsTargetPct)},
		{"Investments", cli.FormatPercent(d.InvestmentTargetPct)},
	}))
	if len(d.InvestmentAllocation) > 0 {
		total := 0.0
		b.WriteString("\n")
		for _, al := range d.InvestmentAllocation {
			total += al.Percentage.Float()
			b.WriteString(fmt.Sprintf("  %s %s\n", cli.Truncate(al.Name, 24), cli.FormatPercent(al.Percentage.Float())))
		}
		b.WriteString("  " + components.AllocationBar(total, 24) + "\n")
		b.WriteString(mutedStyle().Render("  a add allocation · z remove last"))
	}
	return b.String()
}

func (a App) renderRenameRules(d wizard.Draft, w int) string {
	if len(d.RenameRules) == 0 {
		return mutedStyle().Render("No rename rules. Press a to add one, e.g. UBER *TRIP = Uber.")
	}
	var b strings.Builder
	for i, r := range d.RenameRules {
		b.WriteString(fmt.Sprintf("%s%s → %s\n", cursorMark(i == a.cursor), cli.Truncate(r.Keyword, w/3), r.DisplayName))
	}
	return b.String()
}

func (a App) renderCategorizationRules(d wizard.Draft, w int) string {
	if len(d.CategorizationRules) == 0 {
		return mutedStyle().Render("No categorization rules. Press a to add one, e.g. IFOOD = Food.")
	}
	rows := make([][]string, len(d.CategorizationRules))
	for i, r := range d.CategorizationRules {
		rows[i] = []string{
			rowMark(i == a.cursor) + " " + cli.Truncate(r.Keyword, w/3),
			r.CategoryName,
			fmt.Sprint(r.Priority),
		}
	}
	return cli.RenderTable(cli.Table{
		Headers:    []string{"Keyword", "Category", "Priority"},
		Rows:       rows,
		RightAlign: []int{2},
	}) + "\n" + mutedStyle().Render("+/- change priority")
}

func (a App) renderDashboard(d wizard.Draft) string {
	labels := dashboard.DefaultLabels()
	dimStyle := lipgloss.NewStyle().Foreground(theme.Active.TextDim).Strikethrough(true)
	var b strings.Builder
	b.WriteString(mutedStyle().Render("Order and visibility of the dashboard cards"))
	b.WriteString("\n\n")
	for i, id := range d.CardOrder {
		label := id
		if l, ok := labels[id]; ok {
			label = l
		}
		if d.IsHidden(id) {
			label = dimStyle.Render(label) + mutedStyle().Render(" (hidden)")
		}
		b.WriteString(fmt.Sprintf("%s%d. %s\n", cursorMark(i == a.cursor), i+1, label))
	}
	return b.String()
}

func (a App) renderReview(d wizard.Draft, w int) string {
	p := wizard.Compile(d)

	monthly := 0.0
	for _, r := range p.RecurringTemplates {
		if r.Type != wizard.TypeIncome {
			monthly += r.Amount
		}
	}
	budget := 0.0
	for _, c := range p.Categories {
		budget += c.Limit
	}

	metrics := []components.Metric{
		{Label: "Accounts", Value: fmt.Sprint(len(p.BankAccounts)), Delta: string(p.CCDisplayMode)},
		{Label: "Recurring", Value: fmt.Sprint(len(p.RecurringTemplates)), Delta: cli.FormatBRL(monthly) + "/mo"},
		{Label: "Categories", Value: fmt.Sprint(len(p.Categories)), Delta: cli.FormatBRL(budget) + " budget"},
		{Label: "Targets", Value: cli.FormatPercent(p.SavingsTargetPct) + " / " + cli.FormatPercent(p.InvestmentTargetPct), Delta: "savings / invest"},
	}

	var b strings.Builder
	name := p.ProfileName
	if name == "" {
		name = "(unchanged)"
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Active.TextPrimary).Bold(true).Render(name))
	if p.ResetMode {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Active.Orange).Render("  replaces the current configuration"))
	}
	b.WriteString("\n")
	b.WriteString(components.MetricCardRow(metrics, components.CardInnerWidth(w)))
	b.WriteString("\n")

	steps := a.flow.Steps()
	for i, k := range steps[:len(steps)-1] {
		b.WriteString(mutedStyle().Render(fmt.Sprintf("  %d %-10s", i+1, k.String())))
		b.WriteString(reviewLine(k, p))
		b.WriteString("\n")
	}

	if err := a.sess.SubmitErr(); err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Active.Red).Render("Submission failed: " + err.Error()))
		b.WriteString("\n")
		b.WriteString(mutedStyle().Render("Your answers are kept. Press enter to try again."))
	}
	return b.String()
}

func reviewLine(k wizard.StepKind, p wizard.SubmissionPayload) string {
	switch k {
	case wizard.StepProfile:
		return p.ProfileName
	case wizard.StepBanks:
		return fmt.Sprintf("%d accounts", len(p.BankAccounts))
	case wizard.StepCards:
		n := 0
		for _, acct := range p.BankAccounts {
			if acct.AccountType == wizard.AccountCreditCard {
				n++
			}
		}
		return fmt.Sprintf("%d credit cards", n)
	case wizard.StepDisplayMode:
		return string(p.CCDisplayMode)
	case wizard.StepRecurring:
		return fmt.Sprintf("%d recurring items", len(p.RecurringTemplates))
	case wizard.StepCategories:
		return fmt.Sprintf("%d categories, %d allocations", len(p.Categories), len(p.InvestmentAllocation))
	case wizard.StepRenameRules:
		return fmt.Sprintf("%d rename rules", len(p.RenameRules))
	case wizard.StepCategorizationRules:
		return fmt.Sprintf("%d categorization rules", len(p.CategorizationRules))
	case wizard.StepDashboard:
		return fmt.Sprintf("%d cards, %d hidden", len(p.MetricasConfig.CardOrder), len(p.MetricasConfig.HiddenCards))
	}
	return ""
}

func (a App) viewDone() string {
	t := theme.Active
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(t.Green).Bold(true).Render("✓ Profile configured"))
	b.WriteString("\n\n")
	if a.submitted != nil {
		b.WriteString(cli.RenderKV("", [][2]string{
			{"Accounts", fmt.Sprint(len(a.submitted.BankAccounts))},
			{"Recurring items", fmt.Sprint(len(a.submitted.RecurringTemplates))},
			{"Categories", fmt.Sprint(len(a.submitted.Categories))},
		}))
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle().Render("Press any key to exit"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"enter", "Next step / submit on review"},
			{"esc", "Previous step"},
			{"tab", "Skip an optional step"},
			{"j k", "Move through lists"},
			{"1-9", "Jump to a step from review"},
		}},
		{"Editing", []struct{ key, desc string }{
			{"space", "Toggle selection"},
			{"a e x", "Add / edit / remove"},
			{"o", "Change recurring or category source"},
			{"J K", "Move dashboard card"},
			{"w", "Save as template (review)"},
		}},
		{"General", []struct{ key, desc string }{
			{"?", "Toggle help"},
			{"q ^c", "Quit without saving"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n" + sectionStyle.Render(s.name) + "\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Layout helpers ─────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
