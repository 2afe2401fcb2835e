// Package config loads and saves the budgetwiz TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// TokenEnv overrides the API token from the config file.
const TokenEnv = "BUDGETWIZ_TOKEN"

// Config holds all budgetwiz configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	Profile    ProfileConfig    `toml:"profile"`
	Wizard     WizardConfig     `toml:"wizard"`
	Cache      CacheConfig      `toml:"cache"`
	Appearance AppearanceConfig `toml:"appearance"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig holds budgeting service connection settings.
type APIConfig struct {
	BaseURL    string `toml:"base_url"`
	Token      string `toml:"token,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ProfileConfig selects the profile the commands operate on.
type ProfileConfig struct {
	ID int64 `toml:"id"`
}

// WizardConfig holds setup wizard preferences.
type WizardConfig struct {
	Variant             string   `toml:"variant"`
	FallbackCardOrder   []string `toml:"fallback_card_order,omitempty"`
	SavingsTargetPct    float64  `toml:"savings_target_pct"`
	InvestmentTargetPct float64  `toml:"investment_target_pct"`
	CardOrderDebounceMs int      `toml:"card_order_debounce_ms"`
}

// CacheConfig holds local view cache settings.
type CacheConfig struct {
	Enabled bool `toml:"enabled"`
	TTLSec  int  `toml:"ttl_sec"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds log settings.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:    "http://localhost:8000/api",
			TimeoutSec: 15,
		},
		Wizard: WizardConfig{
			Variant:             "full",
			SavingsTargetPct:    20,
			InvestmentTargetPct: 10,
			CardOrderDebounceMs: 400,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTLSec:  3600,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Timeout returns the per-request API timeout.
func (c APIConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// TTL returns how long cached views stay fresh.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSec <= 0 {
		return 0
	}
	return time.Duration(c.TTLSec) * time.Second
}

// Debounce returns the card order write delay.
func (c WizardConfig) Debounce() time.Duration {
	if c.CardOrderDebounceMs <= 0 {
		return 400 * time.Millisecond
	}
	return time.Duration(c.CardOrderDebounceMs) * time.Millisecond
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetwiz")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetwiz")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the XDG-compliant cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetwiz")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "budgetwiz")
}

// Load reads the config file at ConfigPath, returning defaults if it
// doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config file at path, returning defaults if it
// doesn't exist.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to ConfigPath.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetToken returns the API token from env var or config, in that order.
func GetToken(cfg Config) string {
	if tok := strings.TrimSpace(os.Getenv(TokenEnv)); tok != "" {
		return tok
	}
	return cfg.API.Token
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
