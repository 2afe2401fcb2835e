package wizard

import (
	"reflect"
	"testing"
)

func sampleAnalysis() Analysis {
	return Analysis{
		RecurringItems: []RecurringItem{
			{Name: "Netflix", TemplateType: TypeFixed, Amount: "55.90"},
			{Name: "Salary", TemplateType: TypeIncome, Amount: "8000"},
		},
		BudgetAnalysis: []BudgetLimit{
			{Category: "Food", AvgMonthly: "812.40", SuggestedLimit: "900"},
		},
		Categories: []Category{{Name: "Food"}, {Name: "Transport"}},
	}
}

func TestStaleAnalysisIgnoredAfterSwitchingToBlank(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		SetRecurringSource{Source: RecurringSmart},
		SetRecurringSource{Source: RecurringBlank},
		AnalysisArrived{Analysis: sampleAnalysis()},
	)
	if d.RecurringSource != RecurringBlank {
		t.Fatalf("RecurringSource = %q, want blank", d.RecurringSource)
	}
	if len(d.RecurringItems) != 0 {
		t.Fatalf("RecurringItems = %+v, want empty", d.RecurringItems)
	}
}

func TestAnalysisPopulatesOnce(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		SetRecurringSource{Source: RecurringSmart},
		SetCategorySource{Source: CategorySmart},
		AnalysisArrived{Analysis: sampleAnalysis()},
	)
	if len(d.RecurringItems) != 2 {
		t.Fatalf("RecurringItems len = %d, want 2", len(d.RecurringItems))
	}
	for _, r := range d.RecurringItems {
		if !r.Included {
			t.Fatalf("suggested item %q not included", r.Name)
		}
	}
	if len(d.Categories) != 2 || len(d.BudgetLimits) != 1 {
		t.Fatalf("categories/limits = %d/%d, want 2/1", len(d.Categories), len(d.BudgetLimits))
	}

	// User edits, then a duplicate response arrives.
	d = a.Transition(d, ToggleRecurringItem{Index: 0})
	edited := d
	d = a.Transition(d, AnalysisArrived{Analysis: Analysis{
		RecurringItems: []RecurringItem{{Name: "Other"}},
		Categories:     []Category{{Name: "Other"}},
	}})
	if !reflect.DeepEqual(d, edited) {
		t.Fatal("duplicate analysis response overwrote user edits")
	}
}

func TestAnalysisIgnoredWithoutSmartSource(t *testing.T) {
	a := newTestAccumulator()
	d := a.Initial(ModeNew)
	if got := a.Transition(d, AnalysisArrived{Analysis: sampleAnalysis()}); !reflect.DeepEqual(got, d) {
		t.Fatal("analysis populated a draft with no smart source")
	}
}

func TestReselectingSource(t *testing.T) {
	a := newTestAccumulator()
	rent := AddRecurringItem{Item: RecurringItem{Name: "Rent", Included: true}}

	d := apply(a, a.Initial(ModeNew),
		SetRecurringSource{Source: RecurringClone},
		RecurringCloned{Items: []RecurringItem{{Name: "Gym"}}},
		SetRecurringSource{Source: RecurringClone},
	)
	if len(d.RecurringItems) != 1 {
		t.Fatalf("RecurringItems = %+v, want cloned Gym kept", d.RecurringItems)
	}

	// Blank always means an empty list, even when it is already selected.
	d = apply(a, d, SetRecurringSource{Source: RecurringBlank}, rent, SetRecurringSource{Source: RecurringBlank})
	if len(d.RecurringItems) != 0 {
		t.Fatalf("RecurringItems = %+v, want empty after reselecting blank", d.RecurringItems)
	}

	d.CategorySource = CategoryBlank
	d.BudgetLimits = []BudgetLimit{{Category: "Food", SuggestedLimit: "100"}}
	d = a.Transition(d, SetCategorySource{Source: CategoryBlank})
	if len(d.BudgetLimits) != 0 {
		t.Fatalf("BudgetLimits = %+v, want empty after reselecting blank", d.BudgetLimits)
	}
}

func TestEmptiedSmartListNotRefilled(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		SetRecurringSource{Source: RecurringSmart},
		AnalysisArrived{Analysis: sampleAnalysis(), Part: AnalysisRecurring},
		RemoveRecurringItem{Index: 0},
		RemoveRecurringItem{Index: 0},
	)
	if len(d.RecurringItems) != 0 || !d.RecurringFilled {
		t.Fatalf("items/filled = %d/%v, want 0/true", len(d.RecurringItems), d.RecurringFilled)
	}

	d = apply(a, d,
		SetCategorySource{Source: CategorySmart},
		AnalysisArrived{Analysis: sampleAnalysis()},
	)
	if len(d.RecurringItems) != 0 {
		t.Fatalf("emptied recurring list refilled with %d items", len(d.RecurringItems))
	}
	if len(d.Categories) != 2 {
		t.Fatalf("Categories len = %d, want 2", len(d.Categories))
	}

	// A fresh smart selection fills again.
	d = apply(a, d,
		SetRecurringSource{Source: RecurringBlank},
		SetRecurringSource{Source: RecurringSmart},
		AnalysisArrived{Analysis: sampleAnalysis()},
	)
	if len(d.RecurringItems) != 2 {
		t.Fatalf("RecurringItems len = %d after reselecting smart, want 2", len(d.RecurringItems))
	}
}

func TestAnalysisPartLimitsDelivery(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		SetRecurringSource{Source: RecurringSmart},
		SetCategorySource{Source: CategorySmart},
		AnalysisArrived{Analysis: sampleAnalysis(), Part: AnalysisCategories},
	)
	if len(d.RecurringItems) != 0 || d.RecurringFilled {
		t.Fatalf("category delivery filled recurring items: %+v", d.RecurringItems)
	}
	if len(d.Categories) != 2 || len(d.BudgetLimits) != 1 {
		t.Fatalf("categories/limits = %d/%d, want 2/1", len(d.Categories), len(d.BudgetLimits))
	}
}

func TestExistingSourceRestoresLoadedLists(t *testing.T) {
	a := newTestAccumulator()
	d := a.Transition(a.Initial(ModeNew), LoadExistingConfig{Config: ExistingConfig{
		ProfileName:        "Casa",
		RecurringTemplates: []RecurringItem{{Name: "Rent", Amount: "1500"}},
		Categories:         []PayloadCategory{{Name: "Food", Limit: 900}},
	}})

	d = apply(a, d,
		SetRecurringSource{Source: RecurringSmart},
		SetCategorySource{Source: CategorySmart},
		AnalysisArrived{Analysis: sampleAnalysis()},
		SetRecurringSource{Source: RecurringExisting},
		SetCategorySource{Source: CategoryExisting},
	)
	if d.RecurringSource != RecurringExisting || len(d.RecurringItems) != 1 || d.RecurringItems[0].Name != "Rent" {
		t.Fatalf("source=%s items=%+v, want existing [Rent]", d.RecurringSource, d.RecurringItems)
	}
	if len(d.Categories) != 1 || d.Categories[0].Name != "Food" || len(d.BudgetLimits) != 1 {
		t.Fatalf("categories=%+v limits=%+v, want the loaded Food row", d.Categories, d.BudgetLimits)
	}

	// Edits to the restored list don't leak into the snapshot.
	d = a.Transition(d, RemoveRecurringItem{Index: 0})
	if len(d.LoadedRecurring) != 1 {
		t.Fatal("removing a restored item changed the loaded snapshot")
	}
}

func TestCategorySourceSwitchClearsBothLists(t *testing.T) {
	a := newTestAccumulator()
	d := a.Initial(ModeNew)
	d.CategorySource = CategoryExisting
	d.Categories = []Category{{Name: "Food"}}
	d.BudgetLimits = []BudgetLimit{{Category: "Food", SuggestedLimit: "100"}}

	d = a.Transition(d, SetCategorySource{Source: CategoryDefault})
	if len(d.Categories) != 0 || len(d.BudgetLimits) != 0 {
		t.Fatalf("categories/limits = %v/%v, want both cleared", d.Categories, d.BudgetLimits)
	}
	if got := a.Transition(d, SetCategorySource{Source: "bogus"}); !reflect.DeepEqual(got, d) {
		t.Fatal("unknown category source changed the draft")
	}
}

func TestRecurringClonedRequiresCloneSource(t *testing.T) {
	a := newTestAccumulator()
	items := []RecurringItem{{Name: "Rent", Amount: "1500"}}

	d := a.Transition(a.Initial(ModeNew), RecurringCloned{Items: items})
	if len(d.RecurringItems) != 0 {
		t.Fatal("clone response applied without clone source")
	}

	d = apply(a, d, SetRecurringSource{Source: RecurringClone}, RecurringCloned{Items: items})
	if len(d.RecurringItems) != 1 || !d.RecurringItems[0].Included {
		t.Fatalf("RecurringItems = %+v, want Rent included", d.RecurringItems)
	}
	if items[0].Included {
		t.Fatal("RecurringCloned modified the caller's slice")
	}
}
