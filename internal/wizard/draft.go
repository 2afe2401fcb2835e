// Package wizard implements the profile configuration wizard: the draft
// accumulator, the step flow, source resolution for recurring items and
// categories, payload compilation, and template persistence.
package wizard

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Mode describes why the wizard was opened.
type Mode string

const (
	ModeNew      Mode = "new"
	ModeEdit     Mode = "edit"
	ModeTemplate Mode = "template"
)

// AccountType is the kind of bank account a template provisions.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountCreditCard AccountType = "credit_card"
)

// DisplayMode controls how credit card spending is shown on the dashboard.
type DisplayMode string

const (
	DisplayInvoice     DisplayMode = "invoice"
	DisplayTransaction DisplayMode = "transaction"
)

// RecurringSource records where the recurring item list came from.
type RecurringSource string

const (
	RecurringNone     RecurringSource = "none"
	RecurringSmart    RecurringSource = "smart"
	RecurringClone    RecurringSource = "clone"
	RecurringBlank    RecurringSource = "blank"
	RecurringExisting RecurringSource = "existing"
)

// CategorySource records where the category and budget lists came from.
type CategorySource string

const (
	CategoryNone     CategorySource = "none"
	CategorySmart    CategorySource = "smart"
	CategoryDefault  CategorySource = "default"
	CategoryBlank    CategorySource = "blank"
	CategoryExisting CategorySource = "existing"
)

// RecurringType classifies a recurring line.
type RecurringType string

const (
	TypeFixed      RecurringType = "Fixo"
	TypeVariable   RecurringType = "Variavel"
	TypeIncome     RecurringType = "Income"
	TypeInvestment RecurringType = "Investimento"
)

// RecurringTypes lists the recurring types in display order.
var RecurringTypes = []RecurringType{TypeFixed, TypeVariable, TypeIncome, TypeInvestment}

// TemplateRef is a bank template from the bank-templates catalog.
type TemplateRef struct {
	ID                int64       `json:"id"`
	BankName          string      `json:"bank_name"`
	AccountType       AccountType `json:"account_type"`
	DefaultClosingDay *int        `json:"default_closing_day"`
	DefaultDueDay     *int        `json:"default_due_day"`
	DisplayName       string      `json:"display_name,omitempty"`
}

// IsCreditCard reports whether the template provisions a credit card.
func (t TemplateRef) IsCreditCard() bool {
	return t.AccountType == AccountCreditCard
}

// CardConfig holds the per-card settings for a selected credit card template.
type CardConfig struct {
	ClosingDay  *int   `json:"closing_day"`
	DueDay      *int   `json:"due_day"`
	CreditLimit Number `json:"credit_limit"`
	DisplayName string `json:"display_name"`
}

// CardConfigPatch carries the fields to merge into a CardConfig.
// Nil fields are left untouched.
type CardConfigPatch struct {
	ClosingDay  *int
	DueDay      *int
	CreditLimit *Number
	DisplayName *string
}

// RecurringItem is a recurring income or expense line.
type RecurringItem struct {
	Name         string        `json:"name"`
	Type         RecurringType `json:"type,omitempty"`
	TemplateType RecurringType `json:"template_type,omitempty"`
	Amount       Number        `json:"amount,omitempty"`
	DefaultLimit Number        `json:"default_limit,omitempty"`
	DueDay       *int          `json:"due_day,omitempty"`
	Frequency    string        `json:"frequency,omitempty"`
	Confidence   *float64      `json:"confidence,omitempty"`
	Included     bool          `json:"included"`
}

// RecurringItemPatch carries the fields to merge into a RecurringItem.
type RecurringItemPatch struct {
	Name      *string
	Type      *RecurringType
	Amount    *Number
	DueDay    *int
	ClearDue  bool
	Frequency *string
	Included  *bool
}

// Category is a spending category. On the wire it may be a bare name or an
// object.
type Category struct {
	Name   string        `json:"name"`
	Type   RecurringType `json:"type,omitempty"`
	DueDay *int          `json:"due_day,omitempty"`
}

// UnmarshalJSON accepts either "name" or {"name": ...}.
func (c *Category) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		*c = Category{Name: name}
		return nil
	}
	type plain Category
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*c = Category(p)
	return nil
}

// BudgetLimit is a per-category monthly limit suggestion.
type BudgetLimit struct {
	Category       string        `json:"category"`
	Type           RecurringType `json:"type,omitempty"`
	AvgMonthly     Number        `json:"avg_monthly,omitempty"`
	SuggestedLimit Number        `json:"suggested_limit"`
	DueDay         *int          `json:"due_day,omitempty"`
}

// Allocation is one slice of the investment allocation.
type Allocation struct {
	Name       string `json:"name"`
	Percentage Number `json:"percentage"`
}

// RenameRule rewrites transaction descriptions containing Keyword.
type RenameRule struct {
	Keyword     string `json:"keyword"`
	DisplayName string `json:"display_name"`
}

// CategorizationRule assigns transactions containing Keyword to a category.
type CategorizationRule struct {
	Keyword      string `json:"keyword"`
	CategoryName string `json:"category_name"`
	Priority     int    `json:"priority"`
}

// Draft is the complete in-progress configuration for one wizard session.
// It is only ever changed through Accumulator.Transition.
type Draft struct {
	Step              int
	Mode              Mode
	ShowModeSelection bool
	LoadedTemplateID  *int64

	ProfileName string

	SelectedBankTemplates []TemplateRef
	CardConfigs           map[int64]CardConfig
	CCDisplayMode         DisplayMode

	RecurringSource RecurringSource
	RecurringItems  []RecurringItem

	CategorySource CategorySource
	Categories     []Category
	BudgetLimits   []BudgetLimit

	SavingsTargetPct     float64
	InvestmentTargetPct  float64
	InvestmentAllocation []Allocation

	RenameRules         []RenameRule
	CategorizationRules []CategorizationRule

	CardOrder   []string
	HiddenCards []string

	// RecurringFilled and CategoriesFilled record that the current smart
	// selection has already been populated from the analysis.
	RecurringFilled  bool
	CategoriesFilled bool

	// The lists as last loaded from an existing configuration or template.
	// Selecting the existing source restores them.
	LoadedRecurring    []RecurringItem
	LoadedCategories   []Category
	LoadedBudgetLimits []BudgetLimit
}

// IsSelected reports whether the bank template with id is selected.
func (d Draft) IsSelected(id int64) bool {
	for _, t := range d.SelectedBankTemplates {
		if t.ID == id {
			return true
		}
	}
	return false
}

// IsHidden reports whether the metric card id is hidden.
func (d Draft) IsHidden(id string) bool {
	for _, h := range d.HiddenCards {
		if h == id {
			return true
		}
	}
	return false
}

// clone returns a deep copy so transitions never alias their input.
// Pointer fields point at values that are never written through.
func (d Draft) clone() Draft {
	c := d
	c.SelectedBankTemplates = cloneSlice(d.SelectedBankTemplates)
	c.CardConfigs = make(map[int64]CardConfig, len(d.CardConfigs))
	for k, v := range d.CardConfigs {
		c.CardConfigs[k] = v
	}
	c.RecurringItems = cloneSlice(d.RecurringItems)
	c.Categories = cloneSlice(d.Categories)
	c.BudgetLimits = cloneSlice(d.BudgetLimits)
	c.InvestmentAllocation = cloneSlice(d.InvestmentAllocation)
	c.RenameRules = cloneSlice(d.RenameRules)
	c.CategorizationRules = cloneSlice(d.CategorizationRules)
	c.CardOrder = cloneSlice(d.CardOrder)
	c.HiddenCards = cloneSlice(d.HiddenCards)
	c.LoadedRecurring = cloneSlice(d.LoadedRecurring)
	c.LoadedCategories = cloneSlice(d.LoadedCategories)
	c.LoadedBudgetLimits = cloneSlice(d.LoadedBudgetLimits)
	return c
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Number is a numeric field kept in the textual form it was entered or
// received in. It decodes from JSON numbers and strings alike so values can
// round-trip between user input and the API without losing what was typed.
type Number string

// NumberFromFloat formats f as a Number.
func NumberFromFloat(f float64) Number {
	return Number(decimal.NewFromFloat(f).String())
}

// IsSet reports whether the field holds anything other than whitespace.
func (n Number) IsSet() bool {
	return strings.TrimSpace(string(n)) != ""
}

// Decimal parses the number. Both "1234.56" and "1.234,56" are accepted,
// as are a leading currency symbol and surrounding spaces.
func (n Number) Decimal() (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(n))
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return decimal.Zero, false
	}
	if strings.Contains(s, ",") {
		// Decimal comma: dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Float coerces the number to float64. Unparseable input is 0.
func (n Number) Float() float64 {
	d, ok := n.Decimal()
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}

// UnmarshalJSON accepts numbers, strings, and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*n = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
	default:
		*n = Number(b)
	}
	return nil
}

// MarshalJSON writes parseable values as JSON numbers, unset values as
// null, and anything else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.IsSet() {
		return []byte("null"), nil
	}
	if d, ok := n.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(n))
}
