package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/budgetwiz/internal/cli"
	"github.com/theirongolddev/budgetwiz/internal/config"
	"github.com/theirongolddev/budgetwiz/internal/store"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE:  runConfigInit,
}

var (
	flagInitForce bool
	flagInitTheme string
)

func init() {
	configInitCmd.Flags().BoolVarP(&flagInitForce, "force", "f", false, "Overwrite an existing config file")
	configInitCmd.Flags().StringVar(&flagInitTheme, "theme", "", "Color theme ("+strings.Join(theme.Names(), ", ")+")")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}

	path := configPath()
	status := "using defaults (no config file)"
	if _, err := os.Stat(path); err == nil {
		status = "loaded"
	}

	fmt.Println()
	fmt.Print(cli.RenderKV("", [][2]string{
		{"Config file", path},
		{"Status", status},
	}))
	fmt.Println()

	token := "not configured"
	if t := config.GetToken(cfg); t != "" {
		token = maskToken(t)
	}
	fmt.Print(cli.RenderKV("[api]", [][2]string{
		{"Base URL", cfg.API.BaseURL},
		{"Token", token},
		{"Timeout", cfg.API.Timeout().String()},
	}))
	fmt.Println()

	profile := "not set"
	if flagProfile > 0 {
		profile = fmt.Sprintf("%d (from --profile)", flagProfile)
	} else if cfg.Profile.ID > 0 {
		profile = fmt.Sprint(cfg.Profile.ID)
	}
	fmt.Print(cli.RenderKV("[profile]", [][2]string{{"ID", profile}}))
	fmt.Println()

	fallback := "default"
	if len(cfg.Wizard.FallbackCardOrder) > 0 {
		fallback = strings.Join(cfg.Wizard.FallbackCardOrder, ", ")
	}
	fmt.Print(cli.RenderKV("[wizard]", [][2]string{
		{"Variant", cfg.Wizard.Variant},
		{"Savings target", cli.FormatPercent(cfg.Wizard.SavingsTargetPct)},
		{"Investment target", cli.FormatPercent(cfg.Wizard.InvestmentTargetPct)},
		{"Card order", fallback},
		{"Card save delay", cfg.Wizard.Debounce().String()},
	}))
	fmt.Println()

	cachePairs := [][2]string{
		{"Enabled", fmt.Sprint(cfg.Cache.Enabled && !flagNoCache)},
		{"TTL", cfg.Cache.TTL().String()},
		{"Path", cachePath()},
	}
	if c, err := store.Open(cachePath()); err == nil {
		if n, err := c.ViewCount(cmd.Context()); err == nil {
			cachePairs = append(cachePairs, [2]string{"Cached views", cli.FormatNumber(int64(n))})
		}
		_ = c.Close()
	}
	fmt.Print(cli.RenderKV("[cache]", cachePairs))
	fmt.Println()

	themeName := cfg.Appearance.Theme
	if !theme.Known(themeName) {
		themeName += " (unknown, using flexoki-dark)"
	}
	fmt.Print(cli.RenderKV("[appearance]", [][2]string{{"Theme", themeName}}))
	fmt.Println()

	fmt.Print(cli.RenderKV("[log]", [][2]string{
		{"Level", parseLevel(cfg.Log.Level).String()},
		{"Format", cfg.Log.Format},
	}))
	fmt.Println()
	return nil
}

func runConfigInit(_ *cobra.Command, _ []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !flagInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg := config.DefaultConfig()
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}
	if flagProfile > 0 {
		cfg.Profile.ID = flagProfile
	}
	if flagInitTheme != "" {
		if !theme.Known(flagInitTheme) {
			return fmt.Errorf("unknown theme %q (choose from %s)", flagInitTheme, strings.Join(theme.Names(), ", "))
		}
		cfg.Appearance.Theme = flagInitTheme
	}

	if err := config.SaveFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Printf("  Saved to %s\n", path)
	fmt.Printf("  Set the API token there or in %s.\n", config.TokenEnv)
	return nil
}

func maskToken(tok string) string {
	if len(tok) > 16 {
		return tok[:8] + "..." + tok[len(tok)-4:]
	}
	if len(tok) > 4 {
		return tok[:4] + "..."
	}
	return "****"
}
