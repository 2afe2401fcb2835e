package dashboard

import "github.com/theirongolddev/budgetwiz/internal/wizard"

// DefaultLabels returns display names for the stock metric cards.
func DefaultLabels() map[string]string {
	return map[string]string{
		"balance":     "Balance",
		"income":      "Income",
		"expenses":    "Expenses",
		"credit_card": "Credit card",
		"savings":     "Savings",
		"investments": "Investments",
		"budget":      "Budget",
		"recurring":   "Recurring",
	}
}

// Editor edits a card layout through the wizard's transition function and
// schedules every change on a Persister.
type Editor struct {
	acc    wizard.Accumulator
	draft  wizard.Draft
	p      *Persister
	labels map[string]string
}

// NewEditor starts an editor from cfg. An empty card order falls back to
// opts.FallbackCardOrder.
func NewEditor(cfg wizard.MetricasConfig, p *Persister, opts wizard.Options, labels map[string]string) *Editor {
	if labels == nil {
		labels = DefaultLabels()
	}
	e := &Editor{acc: wizard.NewAccumulator(opts), p: p, labels: labels}
	e.Reset(cfg)
	return e
}

// Reset replaces the layout with cfg without scheduling a write.
func (e *Editor) Reset(cfg wizard.MetricasConfig) {
	e.draft = e.acc.Transition(e.acc.Initial(wizard.ModeEdit), wizard.LoadExistingConfig{
		Config: wizard.ExistingConfig{MetricasConfig: &cfg},
	})
}

// Move swaps the card at index with its neighbour in direction (-1 or +1).
func (e *Editor) Move(index, direction int) error {
	return e.apply(wizard.MoveCard{Index: index, Direction: direction})
}

// ToggleHidden shows or hides the card id.
func (e *Editor) ToggleHidden(id string) error {
	return e.apply(wizard.ToggleHiddenCard{ID: id})
}

func (e *Editor) apply(act wizard.Action) error {
	next := e.acc.Transition(e.draft, act)
	if sameLayout(next, e.draft) {
		return nil
	}
	e.draft = next
	return e.p.Schedule(e.Config())
}

// Config returns the current layout.
func (e *Editor) Config() wizard.MetricasConfig {
	return wizard.Compile(e.draft).MetricasConfig
}

// Order returns the card ids in display order.
func (e *Editor) Order() []string {
	return e.Config().CardOrder
}

// Hidden reports whether card id is hidden.
func (e *Editor) Hidden(id string) bool {
	return e.draft.IsHidden(id)
}

// Label returns the display name of card id.
func (e *Editor) Label(id string) string {
	if l, ok := e.labels[id]; ok {
		return l
	}
	return id
}

func sameLayout(a, b wizard.Draft) bool {
	if len(a.CardOrder) != len(b.CardOrder) || len(a.HiddenCards) != len(b.HiddenCards) {
		return false
	}
	for i := range a.CardOrder {
		if a.CardOrder[i] != b.CardOrder[i] {
			return false
		}
	}
	for i := range a.HiddenCards {
		if a.HiddenCards[i] != b.HiddenCards[i] {
			return false
		}
	}
	return true
}
