package wizard

import "strings"

// SubmissionPayload is the body accepted by the profile setup endpoint.
type SubmissionPayload struct {
	ProfileName          string               `json:"profile_name,omitempty"`
	BankAccounts         []BankAccount        `json:"bank_accounts"`
	CCDisplayMode        DisplayMode          `json:"cc_display_mode"`
	RecurringTemplates   []PayloadRecurring   `json:"recurring_templates"`
	Categories           []PayloadCategory    `json:"categories"`
	SavingsTargetPct     float64              `json:"savings_target_pct"`
	InvestmentTargetPct  float64              `json:"investment_target_pct"`
	InvestmentAllocation []PayloadAllocation  `json:"investment_allocation"`
	RenameRules          []RenameRule         `json:"rename_rules"`
	CategorizationRules  []CategorizationRule `json:"categorization_rules"`
	MetricasConfig       MetricasConfig       `json:"metricas_config"`
	ResetMode            bool                 `json:"reset_mode"`
}

// BankAccount is one account to provision. The setup-state snapshot uses
// the same shape.
type BankAccount struct {
	BankTemplateID int64       `json:"bank_template_id"`
	DisplayName    string      `json:"display_name"`
	AccountType    AccountType `json:"account_type"`
	ClosingDay     *int        `json:"closing_day"`
	DueDay         *int        `json:"due_day"`
	CreditLimit    *float64    `json:"credit_limit"`
}

// PayloadRecurring is a recurring template as submitted.
type PayloadRecurring struct {
	Name   string        `json:"name"`
	Type   RecurringType `json:"type"`
	Amount float64       `json:"amount"`
	DueDay *int          `json:"due_day"`
}

// PayloadCategory is a category with its monthly limit as submitted.
type PayloadCategory struct {
	Name   string        `json:"name"`
	Type   RecurringType `json:"type"`
	Limit  float64       `json:"limit"`
	DueDay *int          `json:"due_day"`
}

// PayloadAllocation is an investment allocation slice as submitted.
type PayloadAllocation struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// MetricasConfig is the dashboard card layout.
type MetricasConfig struct {
	CardOrder   []string `json:"card_order"`
	HiddenCards []string `json:"hidden_cards"`
}

// Compile renders d as a submission payload. It is pure and total:
// missing optional fields degrade to their defaults, malformed rules are
// dropped, and unparseable numbers become zero. No cross-field checks are
// made.
func Compile(d Draft) SubmissionPayload {
	return SubmissionPayload{
		ProfileName:          strings.TrimSpace(d.ProfileName),
		BankAccounts:         compileBankAccounts(d),
		CCDisplayMode:        displayModeOr(d.CCDisplayMode),
		RecurringTemplates:   compileRecurring(d.RecurringItems),
		Categories:           compileCategories(d.BudgetLimits, d.Categories),
		SavingsTargetPct:     d.SavingsTargetPct,
		InvestmentTargetPct:  d.InvestmentTargetPct,
		InvestmentAllocation: compileAllocation(d.InvestmentAllocation),
		RenameRules:          compileRenameRules(d.RenameRules),
		CategorizationRules:  compileCategorizationRules(d.CategorizationRules),
		MetricasConfig: MetricasConfig{
			CardOrder:   stringsOrEmpty(d.CardOrder),
			HiddenCards: stringsOrEmpty(d.HiddenCards),
		},
		ResetMode: d.Mode == ModeEdit,
	}
}

func compileBankAccounts(d Draft) []BankAccount {
	out := make([]BankAccount, 0, len(d.SelectedBankTemplates))
	for _, tpl := range d.SelectedBankTemplates {
		cc, hasCard := d.CardConfigs[tpl.ID]

		acct := BankAccount{
			BankTemplateID: tpl.ID,
			DisplayName:    firstNonEmpty(cc.DisplayName, tpl.DisplayName, tpl.BankName),
			AccountType:    tpl.AccountType,
			ClosingDay:     firstDay(cc.ClosingDay, tpl.DefaultClosingDay),
			DueDay:         firstDay(cc.DueDay, tpl.DefaultDueDay),
		}
		if hasCard {
			if v, ok := cc.CreditLimit.Decimal(); ok {
				f := v.InexactFloat64()
				acct.CreditLimit = &f
			}
		}
		out = append(out, acct)
	}
	return out
}

func compileRecurring(items []RecurringItem) []PayloadRecurring {
	out := make([]PayloadRecurring, 0, len(items))
	for _, r := range items {
		if !r.Included {
			continue
		}
		typ := r.Type
		if typ == "" {
			typ = r.TemplateType
		}
		if typ == "" {
			typ = TypeFixed
		}
		amount := r.Amount
		if !amount.IsSet() {
			amount = r.DefaultLimit
		}
		out = append(out, PayloadRecurring{
			Name:   r.Name,
			Type:   typ,
			Amount: amount.Float(),
			DueDay: copyDay(r.DueDay),
		})
	}
	return out
}

// compileCategories derives categories from the budget limits when there
// are any, and from the bare category list otherwise. The two are never
// merged.
func compileCategories(limits []BudgetLimit, cats []Category) []PayloadCategory {
	if len(limits) > 0 {
		out := make([]PayloadCategory, 0, len(limits))
		for _, b := range limits {
			out = append(out, PayloadCategory{
				Name:   b.Category,
				Type:   categoryType(b.Type),
				Limit:  b.SuggestedLimit.Float(),
				DueDay: copyDay(b.DueDay),
			})
		}
		return out
	}

	out := make([]PayloadCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, PayloadCategory{
			Name:   c.Name,
			Type:   categoryType(c.Type),
			Limit:  0,
			DueDay: copyDay(c.DueDay),
		})
	}
	return out
}

func compileAllocation(alloc []Allocation) []PayloadAllocation {
	out := make([]PayloadAllocation, 0, len(alloc))
	for _, a := range alloc {
		out = append(out, PayloadAllocation{
			Name:       a.Name,
			Percentage: a.Percentage.Float(),
		})
	}
	return out
}

func compileRenameRules(rules []RenameRule) []RenameRule {
	out := make([]RenameRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.Keyword) == "" || strings.TrimSpace(r.DisplayName) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func compileCategorizationRules(rules []CategorizationRule) []CategorizationRule {
	out := make([]CategorizationRule, 0, len(rules))
	for _, r := range rules {
		if strings.TrimSpace(r.Keyword) == "" || strings.TrimSpace(r.CategoryName) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}

func categoryType(t RecurringType) RecurringType {
	if t == "" {
		return TypeVariable
	}
	return t
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstDay(days ...*int) *int {
	for _, d := range days {
		if d != nil {
			return copyDay(d)
		}
	}
	return nil
}

func copyDay(d *int) *int {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
