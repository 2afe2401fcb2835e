// Package api provides a client for the budgeting service's profile setup
// endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/budgetwiz/internal/wizard"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
	maxErrorBody   = 512
	userAgent      = "budgetwiz/1.0"
)

var (
	// ErrUnauthorized indicates the API token is missing, expired, or invalid.
	ErrUnauthorized = errors.New("api: unauthorized (token expired or invalid)")
	// ErrNotFound indicates the profile or resource does not exist.
	ErrNotFound = errors.New("api: not found")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("api: rate limited")
	// ErrNoBaseURL indicates the client was built without a base URL.
	ErrNoBaseURL = errors.New("api: base URL not configured")
)

// StatusError is returned for non-2xx responses that have no sentinel.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to the budgeting service REST API.
type Client struct {
	baseURL *url.URL
	token   string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates a client for baseURL. token may be empty for services
// that do not require one.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("api: parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api: base URL %q must be http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: u,
		token:   strings.TrimSpace(token),
		timeout: timeout,
		http:    &http.Client{},
	}, nil
}

// BankTemplates returns the bank template catalog.
func (c *Client) BankTemplates(ctx context.Context) ([]wizard.TemplateRef, error) {
	var out []wizard.TemplateRef
	if err := c.do(ctx, http.MethodGet, "bank-templates", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("api: fetching bank templates: %w", err)
	}
	return out, nil
}

// AnalyzeSetup returns setup suggestions derived from the profile's
// imported transactions.
func (c *Client) AnalyzeSetup(ctx context.Context, profileID int64) (wizard.Analysis, error) {
	q := url.Values{"profile_id": {strconv.FormatInt(profileID, 10)}}
	var out wizard.Analysis
	if err := c.do(ctx, http.MethodGet, "analytics/analyze-setup", q, nil, &out); err != nil {
		return wizard.Analysis{}, fmt.Errorf("api: analyzing setup: %w", err)
	}
	return out, nil
}

// RecurringTemplates returns another profile's recurring templates.
func (c *Client) RecurringTemplates(ctx context.Context, profileID int64) ([]wizard.RecurringItem, error) {
	var out []wizard.RecurringItem
	if err := c.do(ctx, http.MethodGet, profilePath(profileID, "recurring-templates"), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("api: fetching recurring templates: %w", err)
	}
	return out, nil
}

// SetupState returns the current configuration of a provisioned profile.
func (c *Client) SetupState(ctx context.Context, profileID int64) (wizard.ExistingConfig, error) {
	var out wizard.ExistingConfig
	if err := c.do(ctx, http.MethodGet, profilePath(profileID, "setup-state"), nil, nil, &out); err != nil {
		return wizard.ExistingConfig{}, fmt.Errorf("api: fetching setup state: %w", err)
	}
	return out, nil
}

// SetupTemplates lists saved setup templates.
func (c *Client) SetupTemplates(ctx context.Context) ([]wizard.StoredTemplate, error) {
	var out []wizard.StoredTemplate
	if err := c.do(ctx, http.MethodGet, "setup-templates", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("api: listing setup templates: %w", err)
	}
	return out, nil
}

// ExportSetup saves a setup template built from the given profile's draft.
func (c *Client) ExportSetup(ctx context.Context, profileID int64, req wizard.ExportRequest) (wizard.StoredTemplate, error) {
	var out wizard.StoredTemplate
	if err := c.do(ctx, http.MethodPost, profilePath(profileID, "export-setup"), nil, req, &out); err != nil {
		return wizard.StoredTemplate{}, fmt.Errorf("api: exporting setup: %w", err)
	}
	return out, nil
}

// SubmitSetup provisions the profile from a compiled payload. The call is
// atomic on the server side.
func (c *Client) SubmitSetup(ctx context.Context, profileID int64, p wizard.SubmissionPayload) error {
	if err := c.do(ctx, http.MethodPost, profilePath(profileID, "setup"), nil, p, nil); err != nil {
		return fmt.Errorf("api: submitting setup: %w", err)
	}
	return nil
}

// SaveCardOrder persists the dashboard card layout.
func (c *Client) SaveCardOrder(ctx context.Context, profileID int64, cfg wizard.MetricasConfig) error {
	if err := c.do(ctx, http.MethodPut, profilePath(profileID, "metricas-config"), nil, cfg, nil); err != nil {
		return fmt.Errorf("api: saving card order: %w", err)
	}
	return nil
}

// Profiles lists the profiles visible to the token.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := c.do(ctx, http.MethodGet, "profiles", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("api: listing profiles: %w", err)
	}
	return out, nil
}

func profilePath(profileID int64, rest string) string {
	return "profiles/" + strconv.FormatInt(profileID, 10) + "/" + rest
}

// do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(excerpt))}
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if err := decodeBody(raw, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

// decodeBody decodes raw into out, unwrapping a {"data": ...} envelope when
// the service sends one.
func decodeBody(raw []byte, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err == nil && isEnvelope(env) {
			raw = env["data"]
		}
	}
	return json.Unmarshal(raw, out)
}

func isEnvelope(obj map[string]json.RawMessage) bool {
	if _, ok := obj["data"]; !ok {
		return false
	}
	for k := range obj {
		switch k {
		case "data", "meta", "success", "message":
		default:
			return false
		}
	}
	return true
}
