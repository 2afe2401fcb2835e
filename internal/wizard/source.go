package wizard

// Analysis is the response of the setup analysis endpoint: suggestions
// derived from the profile's imported transactions.
type Analysis struct {
	RecurringItems []RecurringItem `json:"recurring_items"`
	BudgetAnalysis []BudgetLimit   `json:"budget_analysis"`
	Categories     []Category      `json:"categories"`
}

// setRecurringSource switches the recurring sub-flow to src. Switching
// discards whatever the previous source produced and existing restores the
// loaded list. Reselecting the current source keeps the user's edits,
// except blank, which always empties the list.
func setRecurringSource(d Draft, src RecurringSource) Draft {
	switch src {
	case RecurringNone, RecurringSmart, RecurringClone, RecurringBlank, RecurringExisting:
	default:
		return d
	}
	if d.RecurringSource == src && src != RecurringBlank {
		return d
	}
	next := d.clone()
	next.RecurringSource = src
	next.RecurringFilled = false
	switch src {
	case RecurringSmart, RecurringClone, RecurringBlank:
		next.RecurringItems = []RecurringItem{}
	case RecurringExisting:
		next.RecurringItems = make([]RecurringItem, len(d.LoadedRecurring))
		copy(next.RecurringItems, d.LoadedRecurring)
	}
	return next
}

// setCategorySource switches the categories/budget sub-flow to src, with
// the same rules as setRecurringSource.
func setCategorySource(d Draft, src CategorySource) Draft {
	switch src {
	case CategoryNone, CategorySmart, CategoryDefault, CategoryBlank, CategoryExisting:
	default:
		return d
	}
	if d.CategorySource == src && src != CategoryBlank {
		return d
	}
	next := d.clone()
	next.CategorySource = src
	next.CategoriesFilled = false
	switch src {
	case CategorySmart, CategoryDefault, CategoryBlank:
		next.Categories = []Category{}
		next.BudgetLimits = []BudgetLimit{}
	case CategoryExisting:
		next.Categories = make([]Category, len(d.LoadedCategories))
		copy(next.Categories, d.LoadedCategories)
		next.BudgetLimits = make([]BudgetLimit, len(d.LoadedBudgetLimits))
		copy(next.BudgetLimits, d.LoadedBudgetLimits)
	}
	return next
}

// analysisArrived applies the populate-once rule: a list is filled from
// the analysis only when its source is still smart, it is still empty,
// and this smart selection has not been filled before. Late, duplicate,
// and refetched responses fall through, so a list the user emptied stays
// empty.
func analysisArrived(d Draft, a Analysis, part AnalysisPart) Draft {
	fillRecurring := part != AnalysisCategories &&
		d.RecurringSource == RecurringSmart &&
		!d.RecurringFilled &&
		len(d.RecurringItems) == 0 &&
		len(a.RecurringItems) > 0
	fillCategories := part != AnalysisRecurring &&
		d.CategorySource == CategorySmart &&
		!d.CategoriesFilled &&
		len(d.Categories) == 0 &&
		len(d.BudgetLimits) == 0 &&
		(len(a.Categories) > 0 || len(a.BudgetAnalysis) > 0)

	if !fillRecurring && !fillCategories {
		return d
	}

	next := d.clone()
	if fillRecurring {
		next.RecurringFilled = true
		next.RecurringItems = make([]RecurringItem, len(a.RecurringItems))
		for i, r := range a.RecurringItems {
			r.Included = true
			next.RecurringItems[i] = r
		}
	}
	if fillCategories {
		next.CategoriesFilled = true
		next.Categories = cloneSlice(a.Categories)
		next.BudgetLimits = cloneSlice(a.BudgetAnalysis)
	}
	return next
}

// recurringCloned replaces the recurring list wholesale with another
// profile's templates, all included.
func recurringCloned(d Draft, items []RecurringItem) Draft {
	if d.RecurringSource != RecurringClone {
		return d
	}
	next := d.clone()
	next.RecurringItems = make([]RecurringItem, len(items))
	for i, r := range items {
		r.Included = true
		next.RecurringItems[i] = r
	}
	return next
}
