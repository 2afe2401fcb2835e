package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/theirongolddev/budgetwiz/internal/wizard"
)

// View kinds stored in the local cache. Catalog-wide views use profile 0.
const (
	KindBankTemplates      = "bank-templates"
	KindSetupTemplates     = "setup-templates"
	KindSetupState         = "setup-state"
	KindRecurringTemplates = "recurring-templates"
)

const cloneCacheSize = 32

var (
	_ Upstream           = (*Client)(nil)
	_ Upstream           = (*CachedBackend)(nil)
	_ wizard.Invalidator = (*CachedBackend)(nil)
)

// ViewStore persists raw API responses keyed by profile and kind.
type ViewStore interface {
	GetView(ctx context.Context, profileID int64, kind string, maxAge time.Duration) ([]byte, bool, error)
	PutView(ctx context.Context, profileID int64, kind string, payload []byte) error
	DeleteView(ctx context.Context, profileID int64, kind string) error
	InvalidateProfile(ctx context.Context, profileID int64) error
}

// Upstream is the remote service wrapped by CachedBackend.
type Upstream interface {
	wizard.Backend
	SaveCardOrder(ctx context.Context, profileID int64, cfg wizard.MetricasConfig) error
}

// CachedBackend serves slow-changing views from a local store and keeps
// recently cloned recurring lists in memory. Analysis and submissions
// always go to the server.
type CachedBackend struct {
	next   Upstream
	views  ViewStore
	ttl    time.Duration
	clones *lru.Cache[int64, []wizard.RecurringItem]
	log    *slog.Logger
}

// NewCachedBackend wraps next. views may be nil to disable the persistent
// cache; ttl of zero or less never expires entries.
func NewCachedBackend(next Upstream, views ViewStore, ttl time.Duration, logger *slog.Logger) *CachedBackend {
	clones, _ := lru.New[int64, []wizard.RecurringItem](cloneCacheSize)
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CachedBackend{
		next:   next,
		views:  views,
		ttl:    ttl,
		clones: clones,
		log:    logger,
	}
}

// BankTemplates returns the bank template catalog.
func (b *CachedBackend) BankTemplates(ctx context.Context) ([]wizard.TemplateRef, error) {
	return cachedView(ctx, b, 0, KindBankTemplates, b.next.BankTemplates)
}

// AnalyzeSetup always asks the server; the wizard session memoizes it.
func (b *CachedBackend) AnalyzeSetup(ctx context.Context, profileID int64) (wizard.Analysis, error) {
	return b.next.AnalyzeSetup(ctx, profileID)
}

// RecurringTemplates returns another profile's recurring templates.
func (b *CachedBackend) RecurringTemplates(ctx context.Context, profileID int64) ([]wizard.RecurringItem, error) {
	if items, ok := b.clones.Get(profileID); ok {
		return cloneItems(items), nil
	}
	items, err := cachedView(ctx, b, profileID, KindRecurringTemplates, func(ctx context.Context) ([]wizard.RecurringItem, error) {
		return b.next.RecurringTemplates(ctx, profileID)
	})
	if err != nil {
		return nil, err
	}
	b.clones.Add(profileID, cloneItems(items))
	return items, nil
}

// SetupState returns the configuration snapshot of a provisioned profile.
func (b *CachedBackend) SetupState(ctx context.Context, profileID int64) (wizard.ExistingConfig, error) {
	return cachedView(ctx, b, profileID, KindSetupState, func(ctx context.Context) (wizard.ExistingConfig, error) {
		return b.next.SetupState(ctx, profileID)
	})
}

// SetupTemplates lists saved setup templates.
func (b *CachedBackend) SetupTemplates(ctx context.Context) ([]wizard.StoredTemplate, error) {
	return cachedView(ctx, b, 0, KindSetupTemplates, b.next.SetupTemplates)
}

// ExportSetup saves a template and drops the cached template list.
func (b *CachedBackend) ExportSetup(ctx context.Context, profileID int64, req wizard.ExportRequest) (wizard.StoredTemplate, error) {
	t, err := b.next.ExportSetup(ctx, profileID, req)
	if err != nil {
		return t, err
	}
	if b.views != nil {
		if err := b.views.DeleteView(ctx, 0, KindSetupTemplates); err != nil {
			b.log.Warn("dropping cached template list", "err", err)
		}
	}
	return t, nil
}

// SubmitSetup forwards the payload. Callers invalidate the profile on
// success through InvalidateProfile.
func (b *CachedBackend) SubmitSetup(ctx context.Context, profileID int64, p wizard.SubmissionPayload) error {
	return b.next.SubmitSetup(ctx, profileID, p)
}

// SaveCardOrder persists the dashboard layout and drops the profile's
// cached setup state, which embeds it.
func (b *CachedBackend) SaveCardOrder(ctx context.Context, profileID int64, cfg wizard.MetricasConfig) error {
	if err := b.next.SaveCardOrder(ctx, profileID, cfg); err != nil {
		return err
	}
	if b.views != nil {
		if err := b.views.DeleteView(ctx, profileID, KindSetupState); err != nil {
			b.log.Warn("dropping cached setup state", "profile_id", profileID, "err", err)
		}
	}
	return nil
}

// InvalidateProfile drops every cached view of profileID.
func (b *CachedBackend) InvalidateProfile(ctx context.Context, profileID int64) error {
	b.clones.Remove(profileID)
	if b.views == nil {
		return nil
	}
	if err := b.views.InvalidateProfile(ctx, profileID); err != nil {
		return fmt.Errorf("api: invalidating profile %d: %w", profileID, err)
	}
	b.log.Debug("invalidated cached views", "profile_id", profileID)
	return nil
}

// cachedView returns the stored view when it is fresh and decodes, and
// otherwise fetches and stores it. Store failures never fail the call.
func cachedView[T any](ctx context.Context, b *CachedBackend, profileID int64, kind string, fetch func(context.Context) (T, error)) (T, error) {
	if b.views != nil {
		raw, ok, err := b.views.GetView(ctx, profileID, kind, b.ttl)
		if err != nil {
			b.log.Warn("reading cached view", "kind", kind, "profile_id", profileID, "err", err)
		}
		if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				b.log.Debug("cache hit", "kind", kind, "profile_id", profileID)
				return v, nil
			}
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		return v, err
	}

	if b.views != nil {
		raw, err := json.Marshal(v)
		if err == nil {
			err = b.views.PutView(ctx, profileID, kind, raw)
		}
		if err != nil {
			b.log.Warn("storing cached view", "kind", kind, "profile_id", profileID, "err", err)
		}
	}
	return v, nil
}

func cloneItems(items []wizard.RecurringItem) []wizard.RecurringItem {
	if items == nil {
		return nil
	}
	out := make([]wizard.RecurringItem, len(items))
	copy(out, items)
	return out
}
