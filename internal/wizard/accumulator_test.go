package wizard

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

func intp(v int) *int { return &v }

func creditCard(id int64, closing, due *int) TemplateRef {
	return TemplateRef{
		ID:                id,
		BankName:          "Nubank",
		AccountType:       AccountCreditCard,
		DefaultClosingDay: closing,
		DefaultDueDay:     due,
	}
}

func checking(id int64) TemplateRef {
	return TemplateRef{ID: id, BankName: "Itau", AccountType: AccountChecking}
}

func newTestAccumulator() Accumulator {
	return NewAccumulator(DefaultOptions())
}

func apply(a Accumulator, d Draft, acts ...Action) Draft {
	for _, act := range acts {
		d = a.Transition(d, act)
	}
	return d
}

func TestInitialDraft(t *testing.T) {
	a := newTestAccumulator()
	d := a.Initial(ModeNew)

	if d.Step != 1 {
		t.Fatalf("Step = %d, want 1", d.Step)
	}
	if d.CCDisplayMode != DisplayInvoice {
		t.Fatalf("CCDisplayMode = %q, want invoice", d.CCDisplayMode)
	}
	if d.RecurringSource != RecurringNone || d.CategorySource != CategoryNone {
		t.Fatalf("sources = %q/%q, want none/none", d.RecurringSource, d.CategorySource)
	}
	if !reflect.DeepEqual(d.CardOrder, DefaultCardOrder()) {
		t.Fatalf("CardOrder = %v, want %v", d.CardOrder, DefaultCardOrder())
	}
	if d.HiddenCards == nil || len(d.HiddenCards) != 0 {
		t.Fatalf("HiddenCards = %#v, want empty non-nil", d.HiddenCards)
	}
	if d.SavingsTargetPct != 20 || d.InvestmentTargetPct != 10 {
		t.Fatalf("targets = %v/%v, want 20/10", d.SavingsTargetPct, d.InvestmentTargetPct)
	}
}

func TestInjectedOptions(t *testing.T) {
	a := NewAccumulator(Options{
		TotalSteps:        3,
		FallbackCardOrder: []string{"x", "y"},
		SavingsTargetPct:  5,
	})
	d := a.Initial(ModeNew)
	if !reflect.DeepEqual(d.CardOrder, []string{"x", "y"}) {
		t.Fatalf("CardOrder = %v, want [x y]", d.CardOrder)
	}
	if d.SavingsTargetPct != 5 {
		t.Fatalf("SavingsTargetPct = %v, want 5", d.SavingsTargetPct)
	}

	d = apply(a, d, NextStep{}, NextStep{}, NextStep{}, NextStep{})
	if d.Step != 3 {
		t.Fatalf("Step = %d after advancing past the end, want 3", d.Step)
	}
}

func TestToggleBankTemplateKeepsCardConfigsInSync(t *testing.T) {
	a := newTestAccumulator()
	pool := []TemplateRef{
		creditCard(1, intp(5), intp(15)),
		creditCard(2, nil, nil),
		checking(3),
		checking(4),
		creditCard(5, intp(28), nil),
	}

	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		d := a.Initial(ModeNew)
		for i := 0; i < 40; i++ {
			d = a.Transition(d, ToggleBankTemplate{Template: pool[rng.Intn(len(pool))]})

			var want []int64
			for _, tpl := range d.SelectedBankTemplates {
				if tpl.IsCreditCard() {
					want = append(want, tpl.ID)
				}
			}
			var got []int64
			for id := range d.CardConfigs {
				got = append(got, id)
			}
			sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
			sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
			if !reflect.DeepEqual(got, want) {
				t.Fatalf("run %d step %d: card config keys = %v, want %v", run, i, got, want)
			}
		}
	}
}

func TestToggleBankTemplateDefaults(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		ToggleBankTemplate{Template: creditCard(1, nil, nil)},
		ToggleBankTemplate{Template: creditCard(2, intp(3), intp(12))},
	)

	cc := d.CardConfigs[1]
	if *cc.ClosingDay != 1 || *cc.DueDay != 10 {
		t.Fatalf("card 1 days = %d/%d, want 1/10", *cc.ClosingDay, *cc.DueDay)
	}
	if cc.DisplayName != "Nubank" {
		t.Fatalf("card 1 display name = %q, want Nubank", cc.DisplayName)
	}
	cc = d.CardConfigs[2]
	if *cc.ClosingDay != 3 || *cc.DueDay != 12 {
		t.Fatalf("card 2 days = %d/%d, want 3/12", *cc.ClosingDay, *cc.DueDay)
	}
}

func TestTransitionDoesNotAliasInput(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		ToggleBankTemplate{Template: creditCard(1, nil, nil)},
		AddRecurringItem{Item: RecurringItem{Name: "Rent"}},
	)
	before := d.clone()

	name := "Card"
	_ = apply(a, d,
		SetCardConfig{ID: 1, Patch: CardConfigPatch{DisplayName: &name}},
		ToggleRecurringItem{Index: 0},
		MoveCard{Index: 0, Direction: 1},
		ToggleHiddenCard{ID: "balance"},
		ToggleBankTemplate{Template: creditCard(1, nil, nil)},
	)

	if !reflect.DeepEqual(d, before) {
		t.Fatal("input draft was modified by Transition")
	}
}

func TestUnknownActionIsIdentity(t *testing.T) {
	a := newTestAccumulator()
	d := a.Initial(ModeNew)
	var act Action
	if got := a.Transition(d, act); !reflect.DeepEqual(got, d) {
		t.Fatal("nil action changed the draft")
	}
	if got := a.Transition(d, SetCCDisplayMode{Mode: "weekly"}); !reflect.DeepEqual(got, d) {
		t.Fatal("invalid display mode changed the draft")
	}
	if got := a.Transition(d, SetCardConfig{ID: 99}); !reflect.DeepEqual(got, d) {
		t.Fatal("SetCardConfig for an unselected id changed the draft")
	}
}

func TestToggleHiddenCardIdempotent(t *testing.T) {
	a := newTestAccumulator()
	tests := []struct {
		name   string
		hidden []string
		id     string
	}{
		{"empty", []string{}, "balance"},
		{"other hidden", []string{"income"}, "balance"},
		{"already hidden", []string{"income", "balance"}, "balance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := a.Initial(ModeNew)
			d.HiddenCards = tt.hidden
			got := apply(a, d, ToggleHiddenCard{ID: tt.id}, ToggleHiddenCard{ID: tt.id})

			want := append([]string{}, tt.hidden...)
			sort.Strings(want)
			have := append([]string{}, got.HiddenCards...)
			sort.Strings(have)
			if !reflect.DeepEqual(have, want) {
				t.Fatalf("HiddenCards = %v, want %v", got.HiddenCards, tt.hidden)
			}
		})
	}
}

func TestMoveCardBoundaries(t *testing.T) {
	a := newTestAccumulator()
	d := a.Initial(ModeNew)
	last := len(d.CardOrder) - 1

	tests := []struct {
		name string
		act  MoveCard
	}{
		{"first up", MoveCard{Index: 0, Direction: -1}},
		{"last down", MoveCard{Index: last, Direction: 1}},
		{"out of range", MoveCard{Index: last + 3, Direction: -1}},
		{"bad direction", MoveCard{Index: 2, Direction: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.Transition(d, tt.act)
			if !reflect.DeepEqual(got.CardOrder, d.CardOrder) {
				t.Fatalf("CardOrder = %v, want unchanged %v", got.CardOrder, d.CardOrder)
			}
		})
	}

	got := a.Transition(d, MoveCard{Index: 1, Direction: -1})
	if got.CardOrder[0] != "income" || got.CardOrder[1] != "balance" {
		t.Fatalf("CardOrder[:2] = %v, want [income balance]", got.CardOrder[:2])
	}
}

func TestStepBoundaries(t *testing.T) {
	a := newTestAccumulator()
	d := a.Initial(ModeNew)

	if got := a.Transition(d, PrevStep{}); got.Step != 1 {
		t.Fatalf("PrevStep at first step: Step = %d, want 1", got.Step)
	}

	total := a.Options().TotalSteps
	d = a.Transition(d, SetStep{Step: total})
	if got := a.Transition(d, NextStep{}); got.Step != total {
		t.Fatalf("NextStep at last step: Step = %d, want %d", got.Step, total)
	}
	if got := a.Transition(d, SetStep{Step: -4}); got.Step != 1 {
		t.Fatalf("SetStep(-4): Step = %d, want 1", got.Step)
	}
}

func TestRecurringItemEdits(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		AddRecurringItem{Item: RecurringItem{Name: "Rent", Amount: "1500", DueDay: intp(5), Included: true}},
		AddRecurringItem{Item: RecurringItem{Name: "Gym", Included: true}},
	)

	amount := Number("1.650,00")
	typ := TypeFixed
	d = a.Transition(d, UpdateRecurringItem{Index: 0, Patch: RecurringItemPatch{
		Amount:   &amount,
		Type:     &typ,
		ClearDue: true,
	}})
	if d.RecurringItems[0].Amount != amount || d.RecurringItems[0].DueDay != nil {
		t.Fatalf("item 0 = %+v, want amount %q and no due day", d.RecurringItems[0], amount)
	}

	d = a.Transition(d, ToggleRecurringItem{Index: 1})
	if d.RecurringItems[1].Included {
		t.Fatal("item 1 still included after toggle")
	}

	d = a.Transition(d, RemoveRecurringItem{Index: 0})
	if len(d.RecurringItems) != 1 || d.RecurringItems[0].Name != "Gym" {
		t.Fatalf("RecurringItems = %+v, want only Gym", d.RecurringItems)
	}

	if got := a.Transition(d, RemoveRecurringItem{Index: 5}); !reflect.DeepEqual(got, d) {
		t.Fatal("out-of-range remove changed the draft")
	}
}

func TestRuleAndAllocationEdits(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeNew),
		AddRenameRule{Rule: RenameRule{Keyword: "UBER"}},
		UpdateRenameRule{Index: 0, Rule: RenameRule{Keyword: "UBER", DisplayName: "Uber"}},
		AddCategorizationRule{Rule: CategorizationRule{Keyword: "IFOOD", CategoryName: "Food"}},
		AddCategorizationRule{Rule: CategorizationRule{Keyword: "SHELL", CategoryName: "Fuel"}},
		RemoveCategorizationRule{Index: 0},
		AddAllocation{Allocation: Allocation{Name: "Stocks", Percentage: "60"}},
		AddAllocation{Allocation: Allocation{Name: "Bonds", Percentage: "40"}},
		UpdateAllocation{Index: 1, Allocation: Allocation{Name: "Bonds", Percentage: "30"}},
		RemoveAllocation{Index: 0},
	)

	if d.RenameRules[0].DisplayName != "Uber" {
		t.Fatalf("RenameRules = %+v", d.RenameRules)
	}
	if len(d.CategorizationRules) != 1 || d.CategorizationRules[0].Keyword != "SHELL" {
		t.Fatalf("CategorizationRules = %+v, want only SHELL", d.CategorizationRules)
	}
	if len(d.InvestmentAllocation) != 1 || d.InvestmentAllocation[0].Percentage != "30" {
		t.Fatalf("InvestmentAllocation = %+v, want Bonds 30", d.InvestmentAllocation)
	}
}

func TestResetKeepsMode(t *testing.T) {
	a := newTestAccumulator()
	d := apply(a, a.Initial(ModeEdit),
		SetProfileName{Name: "Casa"},
		ToggleBankTemplate{Template: checking(3)},
		SetStep{Step: 4},
		Reset{},
	)
	if d.Mode != ModeEdit || d.Step != 1 || d.ProfileName != "" || len(d.SelectedBankTemplates) != 0 {
		t.Fatalf("after Reset: %+v", d)
	}
}
