package wizard

import "strings"

// StepKind identifies a wizard screen independently of its position.
type StepKind int

const (
	StepModeSelection StepKind = iota // pseudo-step shown before step 1
	StepProfile
	StepBanks
	StepCards
	StepDisplayMode
	StepRecurring
	StepCategories
	StepRenameRules
	StepCategorizationRules
	StepDashboard
	StepReview
)

var stepLabels = map[StepKind]string{
	StepModeSelection:       "Mode",
	StepProfile:             "Profile",
	StepBanks:               "Banks",
	StepCards:               "Cards",
	StepDisplayMode:         "Display",
	StepRecurring:           "Recurring",
	StepCategories:          "Budget",
	StepRenameRules:         "Rename",
	StepCategorizationRules: "Rules",
	StepDashboard:           "Dashboard",
	StepReview:              "Review",
}

// String returns the short label used in the progress header.
func (k StepKind) String() string {
	if l, ok := stepLabels[k]; ok {
		return l
	}
	return "?"
}

// Variant selects which steps a wizard shows.
type Variant string

const (
	VariantFull    Variant = "full"
	VariantReduced Variant = "reduced"
)

// ParseVariant maps a config value to a Variant, defaulting to full.
func ParseVariant(s string) Variant {
	if strings.EqualFold(strings.TrimSpace(s), string(VariantReduced)) {
		return VariantReduced
	}
	return VariantFull
}

var fullSteps = []StepKind{
	StepProfile,
	StepBanks,
	StepCards,
	StepDisplayMode,
	StepRecurring,
	StepCategories,
	StepRenameRules,
	StepCategorizationRules,
	StepDashboard,
	StepReview,
}

var reducedSteps = []StepKind{
	StepProfile,
	StepBanks,
	StepCards,
	StepDisplayMode,
	StepRecurring,
	StepCategories,
	StepDashboard,
	StepReview,
}

// BackTarget says where "back" leads from the current step.
type BackTarget int

const (
	BackNone BackTarget = iota
	BackPrevious
	BackModeSelection
)

// Flow is the ordered step sequence of one wizard variant and the rules
// for moving through it.
type Flow struct {
	steps []StepKind
}

// NewFlow returns the flow for v.
func NewFlow(v Variant) Flow {
	if v == VariantReduced {
		return Flow{steps: reducedSteps}
	}
	return Flow{steps: fullSteps}
}

// Total is the number of real steps.
func (f Flow) Total() int { return len(f.steps) }

// Steps returns the step kinds in order.
func (f Flow) Steps() []StepKind { return cloneSlice(f.steps) }

// Kind returns the step shown at 1-based position step, clamped.
func (f Flow) Kind(step int) StepKind {
	return f.steps[clamp(step, 1, len(f.steps))-1]
}

// Position returns the 1-based position of kind, or 0 if this variant
// does not show it.
func (f Flow) Position(kind StepKind) int {
	for i, k := range f.steps {
		if k == kind {
			return i + 1
		}
	}
	return 0
}

// Current returns the kind of screen d is on, including mode selection.
func (f Flow) Current(d Draft) StepKind {
	if d.ShowModeSelection {
		return StepModeSelection
	}
	return f.Kind(d.Step)
}

// CanAdvance reports whether d satisfies the current step's precondition.
func (f Flow) CanAdvance(d Draft) bool {
	if d.ShowModeSelection {
		return false
	}
	switch f.Kind(d.Step) {
	case StepProfile:
		return d.Mode == ModeEdit || strings.TrimSpace(d.ProfileName) != ""
	case StepBanks:
		return d.Mode == ModeEdit || d.Mode == ModeTemplate || len(d.SelectedBankTemplates) > 0
	}
	return true
}

// Skippable reports whether the user may skip the step at position step.
func (f Flow) Skippable(step int) bool {
	switch f.Kind(step) {
	case StepRecurring, StepCategories, StepRenameRules, StepCategorizationRules:
		return true
	}
	return false
}

// IsReview reports whether position step is the terminal review step.
func (f Flow) IsReview(step int) bool {
	return f.Kind(step) == StepReview
}

// Back says where going back from d leads.
func (f Flow) Back(d Draft) BackTarget {
	if d.ShowModeSelection {
		return BackNone
	}
	if d.Step <= 1 {
		if d.Mode == ModeEdit {
			return BackModeSelection
		}
		return BackNone
	}
	return BackPrevious
}

// EntersPrefetch reports whether moving from position from to position to
// lands on the step that starts the background analysis fetch.
func (f Flow) EntersPrefetch(from, to int) bool {
	return from != to && f.Kind(to) == StepDisplayMode
}
