package dashboard

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/theirongolddev/budgetwiz/internal/wizard"
)

func TestEditorFallsBackToDefaultOrder(t *testing.T) {
	e := NewEditor(wizard.MetricasConfig{}, NewPersister(&recordingSaver{}, 7, time.Hour, nil), wizard.DefaultOptions(), nil)
	if !reflect.DeepEqual(e.Order(), wizard.DefaultCardOrder()) {
		t.Fatalf("Order = %v, want default", e.Order())
	}
	if e.Label("credit_card") != "Credit card" || e.Label("custom") != "custom" {
		t.Fatal("labels not resolved")
	}
}

func TestEditorSchedulesChanges(t *testing.T) {
	s := &recordingSaver{}
	p := NewPersister(s, 7, time.Hour, nil)
	e := NewEditor(wizard.MetricasConfig{CardOrder: []string{"a", "b", "c"}}, p, wizard.DefaultOptions(), nil)

	if err := e.Move(0, -1); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if p.Pending() {
		t.Fatal("no-op move scheduled a write")
	}

	_ = e.Move(0, 1)
	_ = e.Move(1, 1)
	_ = e.ToggleHidden("c")
	if !e.Hidden("c") {
		t.Fatal("c not hidden")
	}
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := s.snapshot()
	if len(got) != 1 {
		t.Fatalf("saves = %d, want 1", len(got))
	}
	want := wizard.MetricasConfig{CardOrder: []string{"b", "c", "a"}, HiddenCards: []string{"c"}}
	if !reflect.DeepEqual(got[0].cfg, want) {
		t.Fatalf("saved %+v, want %+v", got[0].cfg, want)
	}
}

func TestEditorResetDoesNotSchedule(t *testing.T) {
	p := NewPersister(&recordingSaver{}, 7, time.Hour, nil)
	e := NewEditor(wizard.MetricasConfig{CardOrder: []string{"a", "b"}}, p, wizard.DefaultOptions(), nil)

	e.Reset(wizard.MetricasConfig{CardOrder: []string{"x", "y"}, HiddenCards: []string{"y"}})
	if p.Pending() {
		t.Fatal("Reset scheduled a write")
	}
	if !reflect.DeepEqual(e.Order(), []string{"x", "y"}) || !e.Hidden("y") {
		t.Fatalf("Order = %v hidden(y) = %v", e.Order(), e.Hidden("y"))
	}
}
