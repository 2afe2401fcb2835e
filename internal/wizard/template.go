package wizard

import "time"

// TemplateData is the template-portable subset of a Draft. Bank accounts
// are deliberately absent: templates are reused across profiles that bank
// with different institutions.
type TemplateData struct {
	CCDisplayMode        DisplayMode          `json:"cc_display_mode,omitempty"`
	RecurringItems       []RecurringItem      `json:"recurring_items,omitempty"`
	Categories           []Category           `json:"categories,omitempty"`
	BudgetLimits         []BudgetLimit        `json:"budget_limits,omitempty"`
	SavingsTargetPct     *float64             `json:"savings_target_pct,omitempty"`
	InvestmentTargetPct  *float64             `json:"investment_target_pct,omitempty"`
	InvestmentAllocation []Allocation         `json:"investment_allocation,omitempty"`
	RenameRules          []RenameRule         `json:"rename_rules,omitempty"`
	CategorizationRules  []CategorizationRule `json:"categorization_rules,omitempty"`
	CardOrder            []string             `json:"card_order,omitempty"`
	HiddenCards          []string             `json:"hidden_cards,omitempty"`
}

// StoredTemplate is a named template saved on the server.
type StoredTemplate struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	TemplateData TemplateData `json:"template_data"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// ExportRequest is the body of the export-setup call.
type ExportRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	TemplateData TemplateData `json:"template_data"`
}

// ExistingConfig is the setup-state snapshot of an already provisioned
// profile.
type ExistingConfig struct {
	ProfileName          string               `json:"profile_name"`
	BankAccounts         []BankAccount        `json:"bank_accounts"`
	CCDisplayMode        DisplayMode          `json:"cc_display_mode"`
	RecurringTemplates   []RecurringItem      `json:"recurring_templates"`
	Categories           []PayloadCategory    `json:"categories"`
	SavingsTargetPct     *float64             `json:"savings_target_pct"`
	InvestmentTargetPct  *float64             `json:"investment_target_pct"`
	InvestmentAllocation []Allocation         `json:"investment_allocation"`
	RenameRules          []RenameRule         `json:"rename_rules"`
	CategorizationRules  []CategorizationRule `json:"categorization_rules"`
	MetricasConfig       *MetricasConfig      `json:"metricas_config"`
}

// ExportTemplateData extracts the template-portable fields of d.
func ExportTemplateData(d Draft) TemplateData {
	savings := d.SavingsTargetPct
	investment := d.InvestmentTargetPct
	return TemplateData{
		CCDisplayMode:        d.CCDisplayMode,
		RecurringItems:       cloneSlice(d.RecurringItems),
		Categories:           cloneSlice(d.Categories),
		BudgetLimits:         cloneSlice(d.BudgetLimits),
		SavingsTargetPct:     &savings,
		InvestmentTargetPct:  &investment,
		InvestmentAllocation: cloneSlice(d.InvestmentAllocation),
		RenameRules:          cloneSlice(d.RenameRules),
		CategorizationRules:  cloneSlice(d.CategorizationRules),
		CardOrder:            cloneSlice(d.CardOrder),
		HiddenCards:          cloneSlice(d.HiddenCards),
	}
}

// loadTemplate replaces the template-portable fields of d with data.
// Profile name, bank selection, and card configs are kept as they are.
func (a Accumulator) loadTemplate(d Draft, id int64, data TemplateData) Draft {
	next := d.clone()
	next.Mode = ModeTemplate
	next.ShowModeSelection = false
	next.LoadedTemplateID = &id
	next.Step = 1

	next.CCDisplayMode = displayModeOr(data.CCDisplayMode)

	next.RecurringItems = cloneSlice(data.RecurringItems)
	next.RecurringSource = RecurringNone
	if len(next.RecurringItems) > 0 {
		next.RecurringSource = RecurringExisting
	}

	next.Categories = cloneSlice(data.Categories)
	next.BudgetLimits = cloneSlice(data.BudgetLimits)
	next.CategorySource = CategoryNone
	if len(next.Categories) > 0 || len(next.BudgetLimits) > 0 {
		next.CategorySource = CategoryExisting
	}
	next.rememberLoaded()

	next.SavingsTargetPct = floatOr(data.SavingsTargetPct, a.opts.SavingsTargetPct)
	next.InvestmentTargetPct = floatOr(data.InvestmentTargetPct, a.opts.InvestmentTargetPct)
	next.InvestmentAllocation = cloneSlice(data.InvestmentAllocation)
	next.RenameRules = cloneSlice(data.RenameRules)
	next.CategorizationRules = cloneSlice(data.CategorizationRules)
	next.CardOrder = a.cardOrderOr(data.CardOrder)
	next.HiddenCards = stringsOrEmpty(data.HiddenCards)
	return next
}

// loadExistingConfig replaces the whole draft with an existing profile's
// configuration, bank accounts included, and switches to edit mode.
func (a Accumulator) loadExistingConfig(cfg ExistingConfig) Draft {
	next := a.Initial(ModeEdit)
	next.ProfileName = cfg.ProfileName
	next.CCDisplayMode = displayModeOr(cfg.CCDisplayMode)

	for _, acct := range cfg.BankAccounts {
		if next.IsSelected(acct.BankTemplateID) {
			continue
		}
		tpl := TemplateRef{
			ID:                acct.BankTemplateID,
			BankName:          acct.DisplayName,
			AccountType:       acct.AccountType,
			DefaultClosingDay: acct.ClosingDay,
			DefaultDueDay:     acct.DueDay,
			DisplayName:       acct.DisplayName,
		}
		next.SelectedBankTemplates = append(next.SelectedBankTemplates, tpl)
		if tpl.IsCreditCard() {
			cc := defaultCardConfig(tpl)
			if acct.CreditLimit != nil {
				cc.CreditLimit = NumberFromFloat(*acct.CreditLimit)
			}
			next.CardConfigs[tpl.ID] = cc
		}
	}

	next.RecurringSource = RecurringExisting
	next.RecurringItems = make([]RecurringItem, len(cfg.RecurringTemplates))
	for i, r := range cfg.RecurringTemplates {
		r.Included = true
		next.RecurringItems[i] = r
	}

	// Every existing category becomes a budget limit row, zero limits
	// included, so compiling the draft back does not drop any of them.
	next.CategorySource = CategoryExisting
	next.Categories = make([]Category, len(cfg.Categories))
	next.BudgetLimits = make([]BudgetLimit, len(cfg.Categories))
	for i, c := range cfg.Categories {
		next.Categories[i] = Category{Name: c.Name, Type: c.Type, DueDay: c.DueDay}
		next.BudgetLimits[i] = BudgetLimit{
			Category:       c.Name,
			Type:           c.Type,
			SuggestedLimit: NumberFromFloat(c.Limit),
			DueDay:         c.DueDay,
		}
	}
	next.rememberLoaded()

	next.SavingsTargetPct = floatOr(cfg.SavingsTargetPct, a.opts.SavingsTargetPct)
	next.InvestmentTargetPct = floatOr(cfg.InvestmentTargetPct, a.opts.InvestmentTargetPct)
	next.InvestmentAllocation = cloneSlice(cfg.InvestmentAllocation)
	next.RenameRules = cloneSlice(cfg.RenameRules)
	next.CategorizationRules = cloneSlice(cfg.CategorizationRules)

	if cfg.MetricasConfig != nil {
		next.CardOrder = a.cardOrderOr(cfg.MetricasConfig.CardOrder)
		next.HiddenCards = stringsOrEmpty(cfg.MetricasConfig.HiddenCards)
	}
	return next
}

func (a Accumulator) cardOrderOr(order []string) []string {
	if len(order) == 0 {
		return cloneSlice(a.opts.FallbackCardOrder)
	}
	return cloneSlice(order)
}

func displayModeOr(m DisplayMode) DisplayMode {
	if m == DisplayTransaction {
		return DisplayTransaction
	}
	return DisplayInvoice
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return cloneSlice(s)
}

// rememberLoaded snapshots the freshly loaded lists so the existing
// source can bring them back after the user switches away.
func (d *Draft) rememberLoaded() {
	d.RecurringFilled = false
	d.CategoriesFilled = false
	d.LoadedRecurring = cloneSlice(d.RecurringItems)
	d.LoadedCategories = cloneSlice(d.Categories)
	d.LoadedBudgetLimits = cloneSlice(d.BudgetLimits)
}
