package wizard

// DefaultCardOrder returns the dashboard metric cards in their stock order.
func DefaultCardOrder() []string {
	return []string{
		"balance",
		"income",
		"expenses",
		"credit_card",
		"savings",
		"investments",
		"budget",
		"recurring",
	}
}

// Options are the constants the accumulator would otherwise read from
// package globals. Tests vary them freely.
type Options struct {
	TotalSteps          int
	FallbackCardOrder   []string
	SavingsTargetPct    float64
	InvestmentTargetPct float64
}

// DefaultOptions returns the options for the full ten-step wizard.
func DefaultOptions() Options {
	return Options{
		TotalSteps:          len(fullSteps),
		FallbackCardOrder:   DefaultCardOrder(),
		SavingsTargetPct:    20,
		InvestmentTargetPct: 10,
	}
}

// Accumulator owns the wizard's transition function.
type Accumulator struct {
	opts Options
}

// NewAccumulator returns an accumulator using opts, filling zero fields
// from DefaultOptions.
func NewAccumulator(opts Options) Accumulator {
	def := DefaultOptions()
	if opts.TotalSteps < 1 {
		opts.TotalSteps = def.TotalSteps
	}
	if len(opts.FallbackCardOrder) == 0 {
		opts.FallbackCardOrder = def.FallbackCardOrder
	}
	opts.FallbackCardOrder = cloneSlice(opts.FallbackCardOrder)
	return Accumulator{opts: opts}
}

// Options returns the accumulator's options.
func (a Accumulator) Options() Options {
	o := a.opts
	o.FallbackCardOrder = cloneSlice(a.opts.FallbackCardOrder)
	return o
}

// Initial returns the empty draft a wizard session starts from.
func (a Accumulator) Initial(mode Mode) Draft {
	if mode == "" {
		mode = ModeNew
	}
	return Draft{
		Step:                1,
		Mode:                mode,
		CardConfigs:         map[int64]CardConfig{},
		CCDisplayMode:       DisplayInvoice,
		RecurringSource:     RecurringNone,
		CategorySource:      CategoryNone,
		SavingsTargetPct:    a.opts.SavingsTargetPct,
		InvestmentTargetPct: a.opts.InvestmentTargetPct,
		CardOrder:           cloneSlice(a.opts.FallbackCardOrder),
		HiddenCards:         []string{},
	}
}

// Transition returns the draft that results from applying act to d.
// It never modifies d and never panics; unknown or malformed actions
// return d unchanged.
func (a Accumulator) Transition(d Draft, act Action) Draft {
	switch act := act.(type) {
	case SetStep:
		return a.withStep(d, act.Step)
	case NextStep:
		return a.withStep(d, d.Step+1)
	case PrevStep:
		return a.withStep(d, d.Step-1)

	case SetProfileName:
		next := d.clone()
		next.ProfileName = act.Name
		return next
	case SetCCDisplayMode:
		if act.Mode != DisplayInvoice && act.Mode != DisplayTransaction {
			return d
		}
		next := d.clone()
		next.CCDisplayMode = act.Mode
		return next
	case SetSavingsTarget:
		next := d.clone()
		next.SavingsTargetPct = act.Pct
		return next
	case SetInvestmentTarget:
		next := d.clone()
		next.InvestmentTargetPct = act.Pct
		return next
	case SetMode:
		next := d.clone()
		next.Mode = act.Mode
		return next
	case SetShowModeSelection:
		next := d.clone()
		next.ShowModeSelection = act.Show
		return next

	case ToggleBankTemplate:
		return toggleBankTemplate(d, act.Template)
	case SetCardConfig:
		return setCardConfig(d, act.ID, act.Patch)

	case SetRecurringSource:
		return setRecurringSource(d, act.Source)
	case SetCategorySource:
		return setCategorySource(d, act.Source)
	case AnalysisArrived:
		return analysisArrived(d, act.Analysis, act.Part)
	case RecurringCloned:
		return recurringCloned(d, act.Items)

	case ToggleRecurringItem:
		if !validIndex(act.Index, len(d.RecurringItems)) {
			return d
		}
		next := d.clone()
		next.RecurringItems[act.Index].Included = !next.RecurringItems[act.Index].Included
		return next
	case UpdateRecurringItem:
		if !validIndex(act.Index, len(d.RecurringItems)) {
			return d
		}
		next := d.clone()
		next.RecurringItems[act.Index] = act.Patch.apply(next.RecurringItems[act.Index])
		return next
	case AddRecurringItem:
		next := d.clone()
		next.RecurringItems = append(next.RecurringItems, act.Item)
		return next
	case RemoveRecurringItem:
		if !validIndex(act.Index, len(d.RecurringItems)) {
			return d
		}
		next := d.clone()
		next.RecurringItems = removeAt(next.RecurringItems, act.Index)
		return next

	case UpdateBudgetLimit:
		if !validIndex(act.Index, len(d.BudgetLimits)) {
			return d
		}
		next := d.clone()
		next.BudgetLimits[act.Index].SuggestedLimit = act.Limit
		return next

	case AddAllocation:
		next := d.clone()
		next.InvestmentAllocation = append(next.InvestmentAllocation, act.Allocation)
		return next
	case RemoveAllocation:
		if !validIndex(act.Index, len(d.InvestmentAllocation)) {
			return d
		}
		next := d.clone()
		next.InvestmentAllocation = removeAt(next.InvestmentAllocation, act.Index)
		return next
	case UpdateAllocation:
		if !validIndex(act.Index, len(d.InvestmentAllocation)) {
			return d
		}
		next := d.clone()
		next.InvestmentAllocation[act.Index] = act.Allocation
		return next

	case AddRenameRule:
		next := d.clone()
		next.RenameRules = append(next.RenameRules, act.Rule)
		return next
	case RemoveRenameRule:
		if !validIndex(act.Index, len(d.RenameRules)) {
			return d
		}
		next := d.clone()
		next.RenameRules = removeAt(next.RenameRules, act.Index)
		return next
	case UpdateRenameRule:
		if !validIndex(act.Index, len(d.RenameRules)) {
			return d
		}
		next := d.clone()
		next.RenameRules[act.Index] = act.Rule
		return next

	case AddCategorizationRule:
		next := d.clone()
		next.CategorizationRules = append(next.CategorizationRules, act.Rule)
		return next
	case RemoveCategorizationRule:
		if !validIndex(act.Index, len(d.CategorizationRules)) {
			return d
		}
		next := d.clone()
		next.CategorizationRules = removeAt(next.CategorizationRules, act.Index)
		return next
	case UpdateCategorizationRule:
		if !validIndex(act.Index, len(d.CategorizationRules)) {
			return d
		}
		next := d.clone()
		next.CategorizationRules[act.Index] = act.Rule
		return next

	case MoveCard:
		return moveCard(d, act.Index, act.Direction)
	case ToggleHiddenCard:
		next := d.clone()
		next.HiddenCards = toggleString(next.HiddenCards, act.ID)
		return next

	case LoadTemplate:
		return a.loadTemplate(d, act.ID, act.Data)
	case LoadExistingConfig:
		return a.loadExistingConfig(act.Config)
	case Reset:
		return a.Initial(d.Mode)
	}
	return d
}

func (a Accumulator) withStep(d Draft, step int) Draft {
	step = clamp(step, 1, a.opts.TotalSteps)
	if step == d.Step {
		return d
	}
	next := d.clone()
	next.Step = step
	return next
}

func toggleBankTemplate(d Draft, tpl TemplateRef) Draft {
	next := d.clone()
	if d.IsSelected(tpl.ID) {
		kept := next.SelectedBankTemplates[:0]
		for _, t := range next.SelectedBankTemplates {
			if t.ID != tpl.ID {
				kept = append(kept, t)
			}
		}
		next.SelectedBankTemplates = kept
		delete(next.CardConfigs, tpl.ID)
		return next
	}

	next.SelectedBankTemplates = append(next.SelectedBankTemplates, tpl)
	if tpl.IsCreditCard() {
		next.CardConfigs[tpl.ID] = defaultCardConfig(tpl)
	}
	return next
}

func defaultCardConfig(tpl TemplateRef) CardConfig {
	closing := 1
	if tpl.DefaultClosingDay != nil {
		closing = *tpl.DefaultClosingDay
	}
	due := 10
	if tpl.DefaultDueDay != nil {
		due = *tpl.DefaultDueDay
	}
	name := tpl.DisplayName
	if name == "" {
		name = tpl.BankName
	}
	return CardConfig{
		ClosingDay:  &closing,
		DueDay:      &due,
		DisplayName: name,
	}
}

func setCardConfig(d Draft, id int64, p CardConfigPatch) Draft {
	cfg, ok := d.CardConfigs[id]
	if !ok {
		return d
	}
	if p.ClosingDay != nil {
		v := *p.ClosingDay
		cfg.ClosingDay = &v
	}
	if p.DueDay != nil {
		v := *p.DueDay
		cfg.DueDay = &v
	}
	if p.CreditLimit != nil {
		cfg.CreditLimit = *p.CreditLimit
	}
	if p.DisplayName != nil {
		cfg.DisplayName = *p.DisplayName
	}
	next := d.clone()
	next.CardConfigs[id] = cfg
	return next
}

func (p RecurringItemPatch) apply(r RecurringItem) RecurringItem {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.ClearDue {
		r.DueDay = nil
	} else if p.DueDay != nil {
		v := *p.DueDay
		r.DueDay = &v
	}
	if p.Frequency != nil {
		r.Frequency = *p.Frequency
	}
	if p.Included != nil {
		r.Included = *p.Included
	}
	return r
}

func moveCard(d Draft, index, direction int) Draft {
	if direction != -1 && direction != 1 {
		return d
	}
	target := index + direction
	if !validIndex(index, len(d.CardOrder)) || !validIndex(target, len(d.CardOrder)) {
		return d
	}
	next := d.clone()
	next.CardOrder[index], next.CardOrder[target] = next.CardOrder[target], next.CardOrder[index]
	return next
}

func toggleString(set []string, v string) []string {
	for i, s := range set {
		if s == v {
			return removeAt(set, i)
		}
	}
	return append(set, v)
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}

func validIndex(i, n int) bool {
	return i >= 0 && i < n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
