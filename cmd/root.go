// Package cmd implements the budgetwiz CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/api"
	"github.com/theirongolddev/budgetwiz/internal/config"
	"github.com/theirongolddev/budgetwiz/internal/store"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	"github.com/spf13/cobra"
)

var (
	flagConfig  string
	flagProfile int64
	flagBaseURL string
	flagNoCache bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "budgetwiz",
	Short: "Budget profile setup wizard",
	Long:  "Set up a budgeting profile: bank accounts, recurring bills, category limits, rules and dashboard cards.",
	RunE:  runSetup,

	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().Int64VarP(&flagProfile, "profile", "p", 0, "Profile id (overrides [profile] id)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "API base URL (overrides [api] base_url)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the local view cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// env is the shared runtime every command builds from the config file.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	client  *api.Client
	cache   *store.Cache
	backend *api.CachedBackend

	logFile *os.File
}

// openEnv loads the config and connects the API client and view cache.
// When logToFile is set, logs go to a file in the cache directory so they
// don't tear the alt-screen.
func openEnv(logToFile bool) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}

	e := &env{cfg: cfg}

	var w io.Writer = os.Stderr
	if logToFile {
		f, err := openLogFile()
		if err != nil {
			w = io.Discard
		} else {
			e.logFile = f
			w = f
		}
	}
	e.logger = newLogger(cfg.Log, w)

	e.client, err = api.NewClient(cfg.API.BaseURL, config.GetToken(cfg), cfg.API.Timeout())
	if err != nil {
		e.Close()
		return nil, err
	}

	// The database also holds the submission journal, so it is opened even
	// when view caching is off.
	cache, err := store.Open(cachePath())
	if err != nil {
		e.logger.Warn("local store unavailable", "err", err)
		if !flagQuiet && !logToFile {
			fmt.Fprintf(os.Stderr, "  Cache unavailable, fetching everything live\n")
		}
	} else {
		e.cache = cache
	}

	// A nil *store.Cache must not reach the interface.
	var views api.ViewStore
	if e.cache != nil && cfg.Cache.Enabled && !flagNoCache {
		views = e.cache
	}
	e.backend = api.NewCachedBackend(e.client, views, cfg.Cache.TTL(), e.logger)
	return e, nil
}

// Close releases the cache and log file.
func (e *env) Close() {
	if e.cache != nil {
		_ = e.cache.Close()
	}
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// profileID resolves the profile from --profile or the config file.
func (e *env) profileID() (int64, error) {
	if flagProfile > 0 {
		return flagProfile, nil
	}
	if e.cfg.Profile.ID > 0 {
		return e.cfg.Profile.ID, nil
	}
	return 0, errors.New("no profile selected: pass --profile or set [profile] id in " + configPath())
}

// lookupProfile finds profileID in the service's profile list. The list is
// best-effort: when it can't be fetched the setup snapshot decides whether
// the profile was configured before.
func (e *env) lookupProfile(ctx context.Context, profileID int64) (api.Profile, []api.Profile) {
	profiles, err := e.client.Profiles(ctx)
	if err != nil {
		e.logger.Warn("listing profiles", "err", err)
		p := api.Profile{ID: profileID}
		if st, err := e.backend.SetupState(ctx, profileID); err == nil {
			p.Name = st.ProfileName
			p.Configured = len(st.BankAccounts) > 0
		}
		return p, nil
	}
	for _, p := range profiles {
		if p.ID == profileID {
			return p, profiles
		}
	}
	return api.Profile{ID: profileID}, profiles
}

// options builds the wizard constants from the config file.
func (e *env) options() wizard.Options {
	opts := wizard.DefaultOptions()
	if len(e.cfg.Wizard.FallbackCardOrder) > 0 {
		opts.FallbackCardOrder = e.cfg.Wizard.FallbackCardOrder
	}
	if e.cfg.Wizard.SavingsTargetPct > 0 {
		opts.SavingsTargetPct = e.cfg.Wizard.SavingsTargetPct
	}
	if e.cfg.Wizard.InvestmentTargetPct > 0 {
		opts.InvestmentTargetPct = e.cfg.Wizard.InvestmentTargetPct
	}
	return opts
}

func loadConfig() (config.Config, error) {
	if flagConfig != "" {
		return config.LoadFile(flagConfig)
	}
	return config.Load()
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.ConfigPath()
}

func cachePath() string {
	return filepath.Join(config.CacheDir(), "views.db")
}

func openLogFile() (*os.File, error) {
	dir := config.CacheDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "budgetwiz.log"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
}

// newLogger builds the slog logger described by the [log] section.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
