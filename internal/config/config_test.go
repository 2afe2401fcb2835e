package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Wizard.Variant != "full" || cfg.Wizard.CardOrderDebounceMs != 400 || !cfg.Cache.Enabled {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[api]
base_url = "https://budget.example.com/api"
timeout_sec = 5

[profile]
id = 42

[wizard]
variant = "reduced"
fallback_card_order = ["income", "balance"]

[cache]
enabled = false
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.API.BaseURL != "https://budget.example.com/api" || cfg.API.Timeout() != 5*time.Second {
		t.Fatalf("api = %+v", cfg.API)
	}
	if cfg.Profile.ID != 42 || cfg.Wizard.Variant != "reduced" || len(cfg.Wizard.FallbackCardOrder) != 2 {
		t.Fatalf("profile/wizard = %+v/%+v", cfg.Profile, cfg.Wizard)
	}
	if cfg.Cache.Enabled {
		t.Fatal("cache still enabled")
	}
	// Untouched sections keep their defaults.
	if cfg.Wizard.SavingsTargetPct != 20 || cfg.Log.Level != "info" {
		t.Fatalf("defaults lost: wizard %+v log %+v", cfg.Wizard, cfg.Log)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\nbase_url ="), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := DefaultConfig()
	cfg.Profile.ID = 9
	cfg.Appearance.Theme = "flexoki-light"

	if err := SaveFile(path, cfg); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Profile.ID != 9 || got.Appearance.Theme != "flexoki-light" {
		t.Fatalf("round trip = %+v", got)
	}
}

func TestGetTokenPrefersEnv(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Token = "from-file"

	t.Setenv(TokenEnv, "")
	if got := GetToken(cfg); got != "from-file" {
		t.Fatalf("GetToken = %q, want from-file", got)
	}
	t.Setenv(TokenEnv, "from-env")
	if got := GetToken(cfg); got != "from-env" {
		t.Fatalf("GetToken = %q, want from-env", got)
	}
}

func TestDurations(t *testing.T) {
	if got := (WizardConfig{}).Debounce(); got != 400*time.Millisecond {
		t.Fatalf("zero Debounce = %v", got)
	}
	if got := (CacheConfig{TTLSec: -1}).TTL(); got != 0 {
		t.Fatalf("negative TTL = %v", got)
	}
}
