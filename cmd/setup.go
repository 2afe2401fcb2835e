package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theirongolddev/budgetwiz/internal/api"
	"github.com/theirongolddev/budgetwiz/internal/cli"
	"github.com/theirongolddev/budgetwiz/internal/store"
	"github.com/theirongolddev/budgetwiz/internal/tui"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var flagVariant string

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run the interactive setup wizard",
	RunE:  runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&flagVariant, "variant", "", "Wizard variant: full or reduced (overrides [wizard] variant)")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(true)
	if err != nil {
		return err
	}
	defer e.Close()

	profileID, err := e.profileID()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	profile, profiles := e.lookupProfile(ctx, profileID)
	variant := e.cfg.Wizard.Variant
	if flagVariant != "" {
		variant = flagVariant
	}

	theme.SetActive(e.cfg.Appearance.Theme)
	// Force TrueColor so background fills render in the alt-screen.
	lipgloss.SetColorProfile(termenv.TrueColor)

	sess := wizard.NewSession(wizard.SessionConfig{
		ProfileID:   profileID,
		Variant:     wizard.ParseVariant(variant),
		Options:     e.options(),
		Configured:  profile.Configured,
		Backend:     e.backend,
		Invalidator: e.backend,
		Logger:      e.logger,
	})
	defer sess.Close()

	app := tui.NewApp(tui.Options{
		Session:  sess,
		Profiles: profileChoices(profiles, profileID),
		OnSubmit: func(p wizard.SubmissionPayload, err error) {
			e.journal(ctx, sess.ID(), profile, p, err)
		},
		Context: ctx,
	})

	final, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	a, ok := final.(tui.App)
	if !ok {
		return nil
	}
	payload, ok := a.Submitted()
	if !ok {
		fmt.Println("  Setup cancelled, nothing was changed.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SETUP COMPLETE"))
	fmt.Println()
	fmt.Print(cli.RenderKV("", summaryPairs(profile, payload)))
	fmt.Println()
	return nil
}

// journal records a submission attempt in the local store. Journal
// failures are logged and never surface to the wizard.
func (e *env) journal(ctx context.Context, sessionID string, profile api.Profile, p wizard.SubmissionPayload, submitErr error) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		e.logger.Warn("encoding submission", "err", err)
	}
	name := p.ProfileName
	if name == "" {
		name = profile.Name
	}
	s := store.Submission{
		SessionID:   sessionID,
		ProfileID:   profile.ID,
		ProfileName: name,
		ResetMode:   p.ResetMode,
		Accounts:    len(p.BankAccounts),
		Recurring:   len(p.RecurringTemplates),
		Categories:  len(p.Categories),
		Payload:     raw,
	}
	if submitErr != nil {
		s.Error = submitErr.Error()
	}
	if _, err := e.cache.RecordSubmission(ctx, s); err != nil {
		e.logger.Warn("journaling submission", "err", err)
	}
}

func profileChoices(profiles []api.Profile, current int64) []tui.ProfileChoice {
	var out []tui.ProfileChoice
	for _, p := range profiles {
		if p.ID == current {
			continue
		}
		out = append(out, tui.ProfileChoice{ID: p.ID, Name: p.Name})
	}
	return out
}

func summaryPairs(profile api.Profile, p wizard.SubmissionPayload) [][2]string {
	name := p.ProfileName
	if name == "" {
		name = profile.Name
	}
	mode := "additive"
	if p.ResetMode {
		mode = "reset"
	}

	var monthly float64
	for _, r := range p.RecurringTemplates {
		if r.Type != wizard.TypeIncome {
			monthly += r.Amount
		}
	}

	return [][2]string{
		{"Profile", fmt.Sprintf("%s (#%d)", name, profile.ID)},
		{"Mode", mode},
		{"Accounts", cli.FormatNumber(int64(len(p.BankAccounts)))},
		{"Recurring", fmt.Sprintf("%d items, %s/month out", len(p.RecurringTemplates), cli.FormatBRL(monthly))},
		{"Categories", cli.FormatNumber(int64(len(p.Categories)))},
		{"Savings", cli.FormatPercent(p.SavingsTargetPct)},
		{"Investment", cli.FormatPercent(p.InvestmentTargetPct)},
		{"Rules", fmt.Sprintf("%d rename, %d categorization", len(p.RenameRules), len(p.CategorizationRules))},
	}
}
