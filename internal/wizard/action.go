package wizard

// Action is a discrete change applied to a Draft by Accumulator.Transition.
// The set of actions is closed; anything else is ignored.
type Action interface {
	action()
}

// Step navigation.
type (
	SetStep  struct{ Step int }
	NextStep struct{}
	PrevStep struct{}
)

// Direct field replacement.
type (
	SetProfileName       struct{ Name string }
	SetCCDisplayMode     struct{ Mode DisplayMode }
	SetSavingsTarget     struct{ Pct float64 }
	SetInvestmentTarget  struct{ Pct float64 }
	SetMode              struct{ Mode Mode }
	SetShowModeSelection struct{ Show bool }
)

// Bank and card configuration.
type (
	ToggleBankTemplate struct{ Template TemplateRef }
	SetCardConfig      struct {
		ID    int64
		Patch CardConfigPatch
	}
)

// Source resolution.
type (
	SetRecurringSource struct{ Source RecurringSource }
	SetCategorySource  struct{ Source CategorySource }

	// AnalysisArrived delivers a setup analysis response. It only fills
	// lists whose source is still smart, which are still empty, and which
	// the current smart selection has not filled yet. Part limits the
	// delivery to one sub-flow; the zero value targets both.
	AnalysisArrived struct {
		Analysis Analysis
		Part     AnalysisPart
	}

	// RecurringCloned delivers another profile's recurring templates.
	// It is dropped unless the recurring source is still clone.
	RecurringCloned struct{ Items []RecurringItem }
)

// AnalysisPart selects which sub-flow an analysis delivery may fill.
type AnalysisPart int

const (
	AnalysisAll AnalysisPart = iota
	AnalysisRecurring
	AnalysisCategories
)

// Positional list mutators. Indices refer to the list at dispatch time.
type (
	ToggleRecurringItem struct{ Index int }
	UpdateRecurringItem struct {
		Index int
		Patch RecurringItemPatch
	}
	AddRecurringItem    struct{ Item RecurringItem }
	RemoveRecurringItem struct{ Index int }

	UpdateBudgetLimit struct {
		Index int
		Limit Number
	}

	AddAllocation    struct{ Allocation Allocation }
	RemoveAllocation struct{ Index int }
	UpdateAllocation struct {
		Index      int
		Allocation Allocation
	}

	AddRenameRule    struct{ Rule RenameRule }
	RemoveRenameRule struct{ Index int }
	UpdateRenameRule struct {
		Index int
		Rule  RenameRule
	}

	AddCategorizationRule    struct{ Rule CategorizationRule }
	RemoveCategorizationRule struct{ Index int }
	UpdateCategorizationRule struct {
		Index int
		Rule  CategorizationRule
	}
)

// Dashboard cards.
type (
	MoveCard struct {
		Index     int
		Direction int // -1 or +1
	}
	ToggleHiddenCard struct{ ID string }
)

// Bulk loads.
type (
	LoadTemplate struct {
		ID   int64
		Data TemplateData
	}
	LoadExistingConfig struct{ Config ExistingConfig }
	Reset              struct{}
)

func (SetStep) action()                  {}
func (NextStep) action()                 {}
func (PrevStep) action()                 {}
func (SetProfileName) action()           {}
func (SetCCDisplayMode) action()         {}
func (SetSavingsTarget) action()         {}
func (SetInvestmentTarget) action()      {}
func (SetMode) action()                  {}
func (SetShowModeSelection) action()     {}
func (ToggleBankTemplate) action()       {}
func (SetCardConfig) action()            {}
func (SetRecurringSource) action()       {}
func (SetCategorySource) action()        {}
func (AnalysisArrived) action()          {}
func (RecurringCloned) action()          {}
func (ToggleRecurringItem) action()      {}
func (UpdateRecurringItem) action()      {}
func (AddRecurringItem) action()         {}
func (RemoveRecurringItem) action()      {}
func (UpdateBudgetLimit) action()        {}
func (AddAllocation) action()            {}
func (RemoveAllocation) action()         {}
func (UpdateAllocation) action()         {}
func (AddRenameRule) action()            {}
func (RemoveRenameRule) action()         {}
func (UpdateRenameRule) action()         {}
func (AddCategorizationRule) action()    {}
func (RemoveCategorizationRule) action() {}
func (UpdateCategorizationRule) action() {}
func (MoveCard) action()                 {}
func (ToggleHiddenCard) action()         {}
func (LoadTemplate) action()             {}
func (LoadExistingConfig) action()       {}
func (Reset) action()                    {}
