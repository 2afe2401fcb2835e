package dashboard

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/theirongolddev/budgetwiz/internal/wizard"
)

type saved struct {
	profile int64
	cfg     wizard.MetricasConfig
}

type recordingSaver struct {
	mu    sync.Mutex
	saves []saved
	err   error
}

func (r *recordingSaver) SaveCardOrder(_ context.Context, profileID int64, cfg wizard.MetricasConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, saved{profileID, cfg})
	return r.err
}

func (r *recordingSaver) snapshot() []saved {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]saved(nil), r.saves...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func order(ids ...string) wizard.MetricasConfig {
	return wizard.MetricasConfig{CardOrder: ids, HiddenCards: []string{}}
}

func TestPersisterCoalescesToLastWrite(t *testing.T) {
	s := &recordingSaver{}
	p := NewPersister(s, 7, 30*time.Millisecond, nil)
	defer func() { _ = p.Close(context.Background()) }()

	for _, cfg := range []wizard.MetricasConfig{order("a", "b"), order("b", "a"), order("c", "b", "a")} {
		if err := p.Schedule(cfg); err != nil {
			t.Fatalf("Schedule: %v", err)
		}
	}

	waitFor(t, func() bool { return len(s.snapshot()) == 1 })
	time.Sleep(80 * time.Millisecond)

	got := s.snapshot()
	if len(got) != 1 {
		t.Fatalf("saves = %d, want 1", len(got))
	}
	if got[0].profile != 7 || !reflect.DeepEqual(got[0].cfg.CardOrder, []string{"c", "b", "a"}) {
		t.Fatalf("saved %+v, want last layout for profile 7", got[0])
	}
	if p.Pending() {
		t.Fatal("still pending after write")
	}
}

func TestPersisterCloseFlushes(t *testing.T) {
	s := &recordingSaver{}
	p := NewPersister(s, 7, time.Hour, nil)

	if err := p.Schedule(order("x")); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := p.Schedule(order("y")); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got := s.snapshot()
	if len(got) != 1 || got[0].cfg.CardOrder[0] != "y" {
		t.Fatalf("saves = %+v, want one save of y", got)
	}
	if err := p.Schedule(order("z")); !errors.Is(err, ErrClosed) {
		t.Fatalf("Schedule after close: err = %v, want ErrClosed", err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if len(s.snapshot()) != 1 {
		t.Fatal("second Close wrote again")
	}
}

func TestPersisterFlushWithNothingPending(t *testing.T) {
	s := &recordingSaver{}
	p := NewPersister(s, 7, time.Hour, nil)
	if err := p.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if p.Writes() != 0 {
		t.Fatalf("Writes = %d, want 0", p.Writes())
	}
}

func TestPersisterSetProfileFlushesOldProfile(t *testing.T) {
	s := &recordingSaver{}
	p := NewPersister(s, 7, time.Hour, nil)
	ctx := context.Background()

	_ = p.Schedule(order("a"))
	if err := p.SetProfile(ctx, 8); err != nil {
		t.Fatalf("SetProfile: %v", err)
	}
	_ = p.Schedule(order("b"))
	_ = p.Close(ctx)

	got := s.snapshot()
	if len(got) != 2 || got[0].profile != 7 || got[1].profile != 8 {
		t.Fatalf("saves = %+v, want profile 7 then 8", got)
	}
}

func TestPersisterRecordsError(t *testing.T) {
	s := &recordingSaver{err: errors.New("502")}
	p := NewPersister(s, 7, time.Hour, nil)
	_ = p.Schedule(order("a"))
	if err := p.Flush(context.Background()); err == nil {
		t.Fatal("expected flush error")
	}
	if p.Err() == nil {
		t.Fatal("Err() = nil after failed write")
	}
}

func TestPersisterCopiesLayout(t *testing.T) {
	s := &recordingSaver{}
	p := NewPersister(s, 7, time.Hour, nil)
	cfg := order("a", "b")
	_ = p.Schedule(cfg)
	cfg.CardOrder[0] = "mutated"
	_ = p.Flush(context.Background())

	if got := s.snapshot()[0].cfg.CardOrder[0]; got != "a" {
		t.Fatalf("saved first card = %q, want a", got)
	}
}
