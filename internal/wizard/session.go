package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrStepIncomplete means the current step's precondition is not met.
	ErrStepIncomplete = errors.New("wizard: step incomplete")
	// ErrNotSkippable means the current step cannot be skipped.
	ErrNotSkippable = errors.New("wizard: step cannot be skipped")
	// ErrSessionClosed means the session was cancelled or submitted.
	ErrSessionClosed = errors.New("wizard: session closed")
	// ErrTemplateName means a template was saved without a name.
	ErrTemplateName = errors.New("wizard: template name required")
	// ErrNotReview means submit was attempted before the review step.
	ErrNotReview = errors.New("wizard: submit is only available on the review step")
)

// Backend is the remote service the wizard reads from and submits to.
type Backend interface {
	BankTemplates(ctx context.Context) ([]TemplateRef, error)
	AnalyzeSetup(ctx context.Context, profileID int64) (Analysis, error)
	RecurringTemplates(ctx context.Context, profileID int64) ([]RecurringItem, error)
	SetupState(ctx context.Context, profileID int64) (ExistingConfig, error)
	SetupTemplates(ctx context.Context) ([]StoredTemplate, error)
	ExportSetup(ctx context.Context, profileID int64, req ExportRequest) (StoredTemplate, error)
	SubmitSetup(ctx context.Context, profileID int64, p SubmissionPayload) error
}

// Invalidator drops every cached view of a profile. It is called after a
// successful submission.
type Invalidator interface {
	InvalidateProfile(ctx context.Context, profileID int64) error
}

// ModeChoice is an option on the mode-selection screen.
type ModeChoice int

const (
	ChooseReconfigure ModeChoice = iota
	ChooseStartNew
	ChooseLoadTemplate
	ChooseCancel
)

func (c ModeChoice) String() string {
	switch c {
	case ChooseReconfigure:
		return "Reconfigure existing profile"
	case ChooseStartNew:
		return "Start from scratch"
	case ChooseLoadTemplate:
		return "Load a saved template"
	case ChooseCancel:
		return "Cancel"
	}
	return "?"
}

// SessionConfig configures a Session.
type SessionConfig struct {
	ProfileID int64
	Variant   Variant
	Options   Options

	// Configured opens the session on the mode-selection screen in edit
	// context, for profiles that have been set up before.
	Configured bool

	Backend     Backend
	Invalidator Invalidator
	Logger      *slog.Logger
}

// Session is one run of the wizard. It owns the draft and serializes every
// change to it; network calls happen outside the lock so the user can keep
// navigating while they are in flight.
type Session struct {
	id      string
	profile int64
	acc     Accumulator
	flow    Flow
	backend Backend
	inval   Invalidator
	log     *slog.Logger

	mu        sync.Mutex
	draft     Draft
	stepErrs  map[StepKind]error
	submitErr error
	closed    bool

	analysisCalls singleflight.Group
	analysisMu    sync.Mutex
	analysis      *Analysis

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSession starts a wizard session.
func NewSession(cfg SessionConfig) *Session {
	flow := NewFlow(cfg.Variant)
	opts := cfg.Options
	opts.TotalSteps = flow.Total()
	acc := NewAccumulator(opts)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	logger = logger.With("session_id", id, "profile_id", cfg.ProfileID)

	draft := acc.Initial(ModeNew)
	if cfg.Configured {
		draft = acc.Transition(draft, SetMode{Mode: ModeEdit})
		draft = acc.Transition(draft, SetShowModeSelection{Show: true})
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:       id,
		profile:  cfg.ProfileID,
		acc:      acc,
		flow:     flow,
		backend:  cfg.Backend,
		inval:    cfg.Invalidator,
		log:      logger,
		draft:    draft,
		stepErrs: make(map[StepKind]error),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// ProfileID returns the profile being configured.
func (s *Session) ProfileID() int64 { return s.profile }

// Flow returns the session's step flow.
func (s *Session) Flow() Flow { return s.flow }

// Draft returns a snapshot of the current draft.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

// Current returns the screen the session is on.
func (s *Session) Current() StepKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.Current(s.draft)
}

// Closed reports whether the session was cancelled or submitted.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Dispatch applies act to the draft and returns the result. Once the
// session is closed the draft no longer changes.
func (s *Session) Dispatch(act Action) Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.draft = s.acc.Transition(s.draft, act)
	}
	return s.draft.clone()
}

// StepErr returns the last fetch error recorded for kind, if any.
func (s *Session) StepErr(kind StepKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepErrs[kind]
}

// SubmitErr returns the last submission error, if any.
func (s *Session) SubmitErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitErr
}

func (s *Session) setStepErr(kind StepKind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.stepErrs, kind)
		return
	}
	s.stepErrs[kind] = err
}

// Advance moves to the next step if the current one is complete. Landing
// on the display-mode step starts a background analysis fetch.
func (s *Session) Advance() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !s.flow.CanAdvance(s.draft) {
		return ErrStepIncomplete
	}
	s.stepLocked(NextStep{})
	return nil
}

// Skip moves past an optional step without checking it.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.draft.ShowModeSelection || !s.flow.Skippable(s.draft.Step) {
		return ErrNotSkippable
	}
	s.stepLocked(NextStep{})
	return nil
}

// GoTo jumps to position step, as the review screen's edit links do.
func (s *Session) GoTo(step int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stepLocked(SetStep{Step: step})
}

func (s *Session) stepLocked(act Action) {
	from := s.draft.Step
	s.draft = s.acc.Transition(s.draft, act)
	if s.flow.EntersPrefetch(from, s.draft.Step) {
		s.prefetchLocked()
	}
}

// Back goes back one step, or to mode selection from the first step of an
// edit session.
func (s *Session) Back() BackTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return BackNone
	}
	target := s.flow.Back(s.draft)
	switch target {
	case BackPrevious:
		s.draft = s.acc.Transition(s.draft, PrevStep{})
	case BackModeSelection:
		s.draft = s.acc.Transition(s.draft, SetShowModeSelection{Show: true})
	}
	return target
}

// ChooseMode applies a mode-selection choice. Loading a template is done
// with ApplyTemplate once the user has picked one.
func (s *Session) ChooseMode(ctx context.Context, choice ModeChoice) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	switch choice {
	case ChooseReconfigure:
		cfg, err := s.backend.SetupState(ctx, s.profile)
		if err != nil {
			s.log.Warn("loading setup state", "err", err)
			s.setStepErr(StepModeSelection, err)
			return fmt.Errorf("wizard: loading existing configuration: %w", err)
		}
		s.setStepErr(StepModeSelection, nil)
		s.Dispatch(LoadExistingConfig{Config: cfg})
		s.log.Info("loaded existing configuration",
			"accounts", len(cfg.BankAccounts),
			"recurring", len(cfg.RecurringTemplates))
	case ChooseStartNew:
		s.Dispatch(SetMode{Mode: ModeNew})
		s.Dispatch(Reset{})
	case ChooseLoadTemplate:
		s.Dispatch(SetMode{Mode: ModeTemplate})
	case ChooseCancel:
		s.Close()
	}
	return nil
}

// Templates lists the saved setup templates.
func (s *Session) Templates(ctx context.Context) ([]StoredTemplate, error) {
	tpls, err := s.backend.SetupTemplates(ctx)
	if err != nil {
		s.setStepErr(StepModeSelection, err)
		return nil, fmt.Errorf("wizard: listing templates: %w", err)
	}
	return tpls, nil
}

// ApplyTemplate loads a saved template into the draft.
func (s *Session) ApplyTemplate(t StoredTemplate) Draft {
	s.log.Info("applying template", "template_id", t.ID, "name", t.Name)
	return s.Dispatch(LoadTemplate{ID: t.ID, Data: t.TemplateData})
}

// Catalog fetches the bank template catalog and the saved templates
// concurrently.
func (s *Session) Catalog(ctx context.Context) ([]TemplateRef, []StoredTemplate, error) {
	var (
		banks []TemplateRef
		tpls  []StoredTemplate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		banks, err = s.backend.BankTemplates(gctx)
		if err != nil {
			s.setStepErr(StepBanks, err)
			return fmt.Errorf("wizard: loading bank templates: %w", err)
		}
		s.setStepErr(StepBanks, nil)
		return nil
	})
	g.Go(func() error {
		var err error
		tpls, err = s.backend.SetupTemplates(gctx)
		if err != nil {
			s.setStepErr(StepModeSelection, err)
			return fmt.Errorf("wizard: listing templates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return banks, tpls, err
	}
	return banks, tpls, nil
}

// Analysis returns the setup analysis for the profile. The first
// successful response is kept for the rest of the session; concurrent
// callers share one request. Failures are not cached.
func (s *Session) Analysis(ctx context.Context) (Analysis, error) {
	s.analysisMu.Lock()
	if s.analysis != nil {
		a := *s.analysis
		s.analysisMu.Unlock()
		return a, nil
	}
	s.analysisMu.Unlock()

	ch := s.analysisCalls.DoChan("analysis", func() (any, error) {
		a, err := s.backend.AnalyzeSetup(s.ctx, s.profile)
		if err != nil {
			return nil, err
		}
		s.analysisMu.Lock()
		s.analysis = &a
		s.analysisMu.Unlock()
		return a, nil
	})

	select {
	case <-ctx.Done():
		return Analysis{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Analysis{}, fmt.Errorf("wizard: analyzing setup: %w", res.Err)
		}
		return res.Val.(Analysis), nil
	}
}

// prefetchLocked warms the analysis in the background. Its arrival goes
// through the same populate-once guard as an explicit smart selection.
func (s *Session) prefetchLocked() {
	if s.backend == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		a, err := s.Analysis(s.ctx)
		if err != nil {
			s.log.Debug("analysis prefetch failed", "err", err)
			return
		}
		s.Dispatch(AnalysisArrived{Analysis: a})
	}()
	s.log.Debug("analysis prefetch started")
}

// SelectRecurringSource switches the recurring items source. Selecting
// smart blocks until the analysis arrives (or ctx ends) and then fills the
// list if it is still empty and smart is still selected. Use
// CloneRecurring for the clone source.
func (s *Session) SelectRecurringSource(ctx context.Context, src RecurringSource) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	s.Dispatch(SetRecurringSource{Source: src})
	if src != RecurringSmart {
		s.setStepErr(StepRecurring, nil)
		return nil
	}
	a, err := s.Analysis(ctx)
	if err != nil {
		s.setStepErr(StepRecurring, err)
		return err
	}
	s.setStepErr(StepRecurring, nil)
	s.Dispatch(AnalysisArrived{Analysis: a, Part: AnalysisRecurring})
	return nil
}

// CloneRecurring replaces the recurring list with another profile's
// recurring templates.
func (s *Session) CloneRecurring(ctx context.Context, fromProfile int64) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	s.Dispatch(SetRecurringSource{Source: RecurringClone})
	items, err := s.backend.RecurringTemplates(ctx, fromProfile)
	if err != nil {
		s.setStepErr(StepRecurring, err)
		return fmt.Errorf("wizard: cloning recurring items from profile %d: %w", fromProfile, err)
	}
	s.setStepErr(StepRecurring, nil)
	s.Dispatch(RecurringCloned{Items: items})
	s.log.Info("cloned recurring items", "from_profile", fromProfile, "items", len(items))
	return nil
}

// SelectCategorySource switches the categories/budget source. Only smart
// fetches anything.
func (s *Session) SelectCategorySource(ctx context.Context, src CategorySource) error {
	if s.Closed() {
		return ErrSessionClosed
	}
	s.Dispatch(SetCategorySource{Source: src})
	if src != CategorySmart {
		s.setStepErr(StepCategories, nil)
		return nil
	}
	a, err := s.Analysis(ctx)
	if err != nil {
		s.setStepErr(StepCategories, err)
		return err
	}
	s.setStepErr(StepCategories, nil)
	s.Dispatch(AnalysisArrived{Analysis: a, Part: AnalysisCategories})
	return nil
}

// SaveTemplate exports the template-portable part of the draft under name.
func (s *Session) SaveTemplate(ctx context.Context, name, description string) (StoredTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return StoredTemplate{}, ErrTemplateName
	}
	req := ExportRequest{
		Name:         name,
		Description:  strings.TrimSpace(description),
		TemplateData: ExportTemplateData(s.Draft()),
	}
	t, err := s.backend.ExportSetup(ctx, s.profile, req)
	if err != nil {
		return StoredTemplate{}, fmt.Errorf("wizard: saving template %q: %w", name, err)
	}
	s.log.Info("saved template", "template_id", t.ID, "name", t.Name)
	return t, nil
}

// Payload compiles the current draft.
func (s *Session) Payload() SubmissionPayload {
	return Compile(s.Draft())
}

// Submit compiles the draft and sends it to the provisioning endpoint.
// On failure the draft is kept and the error is remembered for the review
// step; on success cached views of the profile are invalidated and the
// session closes.
func (s *Session) Submit(ctx context.Context) (SubmissionPayload, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return SubmissionPayload{}, ErrSessionClosed
	}
	if !s.flow.IsReview(s.draft.Step) || s.draft.ShowModeSelection {
		s.mu.Unlock()
		return SubmissionPayload{}, ErrNotReview
	}
	payload := Compile(s.draft)
	s.mu.Unlock()

	if err := s.backend.SubmitSetup(ctx, s.profile, payload); err != nil {
		s.mu.Lock()
		s.submitErr = err
		s.mu.Unlock()
		s.log.Error("setup submission failed", "err", err)
		return payload, fmt.Errorf("wizard: submitting setup: %w", err)
	}

	s.mu.Lock()
	s.submitErr = nil
	s.mu.Unlock()
	s.log.Info("setup submitted",
		"accounts", len(payload.BankAccounts),
		"recurring", len(payload.RecurringTemplates),
		"categories", len(payload.Categories),
		"reset_mode", payload.ResetMode)

	if s.inval != nil {
		if err := s.inval.InvalidateProfile(ctx, s.profile); err != nil {
			s.log.Warn("invalidating cached profile views", "err", err)
		}
	}
	s.Close()
	return payload, nil
}

// Close tears the session down. In-flight background fetches are
// cancelled and waited for; their results are discarded.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.log.Debug("session closed")
}
