// Package dashboard manages the dashboard metric card layout and its
// debounced persistence.
package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/theirongolddev/budgetwiz/internal/wizard"
)

// ErrClosed is returned when scheduling on a closed persister.
var ErrClosed = errors.New("dashboard: persister closed")

const (
	defaultDelay = 400 * time.Millisecond
	writeTimeout = 10 * time.Second
)

// Saver writes a profile's card layout.
type Saver interface {
	SaveCardOrder(ctx context.Context, profileID int64, cfg wizard.MetricasConfig) error
}

type pendingWrite struct {
	profile int64
	cfg     wizard.MetricasConfig
}

// Persister coalesces rapid layout changes into one trailing write. The
// last scheduled layout always wins, and Flush or Close writes whatever is
// still pending.
type Persister struct {
	saver Saver
	delay time.Duration
	log   *slog.Logger

	// writeMu serializes saves so an older layout never lands after a
	// newer one.
	writeMu sync.Mutex

	mu      sync.Mutex
	profile int64
	timer   *time.Timer
	pending *pendingWrite
	lastErr error
	writes  int
	closed  bool
}

// NewPersister returns a persister writing profileID's layout through
// saver after delay of inactivity.
func NewPersister(saver Saver, profileID int64, delay time.Duration, logger *slog.Logger) *Persister {
	if delay <= 0 {
		delay = defaultDelay
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Persister{
		saver:   saver,
		delay:   delay,
		log:     logger,
		profile: profileID,
	}
}

// Schedule records cfg as the layout to write and restarts the delay.
func (p *Persister) Schedule(cfg wizard.MetricasConfig) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	p.pending = &pendingWrite{profile: p.profile, cfg: copyConfig(cfg)}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(p.delay, p.fire)
	return nil
}

// Pending reports whether a write is waiting for its delay.
func (p *Persister) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending != nil
}

// Err returns the error of the last write, if it failed.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Writes returns how many writes reached the saver.
func (p *Persister) Writes() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writes
}

// Flush cancels the timer and writes the pending layout now.
func (p *Persister) Flush(ctx context.Context) error {
	p.mu.Lock()
	p.stopTimerLocked()
	p.mu.Unlock()
	return p.writePending(ctx)
}

// SetProfile flushes the current profile's pending layout and switches
// subsequent writes to profileID.
func (p *Persister) SetProfile(ctx context.Context, profileID int64) error {
	err := p.Flush(ctx)
	p.mu.Lock()
	p.profile = profileID
	p.mu.Unlock()
	return err
}

// Close flushes and stops accepting new layouts. It is safe to call more
// than once.
func (p *Persister) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.stopTimerLocked()
	p.mu.Unlock()
	return p.writePending(ctx)
}

func (p *Persister) stopTimerLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Persister) fire() {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = p.writePending(ctx)
}

func (p *Persister) writePending(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	w := p.pending
	p.pending = nil
	p.mu.Unlock()
	if w == nil {
		return nil
	}

	err := p.saver.SaveCardOrder(ctx, w.profile, w.cfg)

	p.mu.Lock()
	p.writes++
	p.lastErr = err
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("saving card order", "profile_id", w.profile, "err", err)
		return err
	}
	p.log.Debug("saved card order", "profile_id", w.profile, "cards", len(w.cfg.CardOrder))
	return nil
}

func copyConfig(cfg wizard.MetricasConfig) wizard.MetricasConfig {
	return wizard.MetricasConfig{
		CardOrder:   append([]string{}, cfg.CardOrder...),
		HiddenCards: append([]string{}, cfg.HiddenCards...),
	}
}
