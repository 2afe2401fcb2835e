package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/budgetwiz/internal/api"
	"github.com/theirongolddev/budgetwiz/internal/dashboard"
	"github.com/theirongolddev/budgetwiz/internal/tui"
	"github.com/theirongolddev/budgetwiz/internal/tui/theme"
	"github.com/theirongolddev/budgetwiz/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Reorder and hide dashboard cards",
	RunE:  runCards,
}

func init() {
	rootCmd.AddCommand(cardsCmd)
}

func runCards(cmd *cobra.Command, _ []string) error {
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

	layout, err := e.cardLayout(ctx, profileID)
	if err != nil {
		return err
	}
	profile, profiles := e.lookupProfile(ctx, profileID)
	current := tui.ProfileChoice{ID: profileID, Name: profile.Name}
	if current.Name == "" {
		current.Name = fmt.Sprintf("profile #%d", profileID)
	}

	saver := dashboard.NewPersister(e.backend, profileID, e.cfg.Wizard.Debounce(), e.logger)
	editor := dashboard.NewEditor(layout, saver, e.options(), nil)

	theme.SetActive(e.cfg.Appearance.Theme)
	lipgloss.SetColorProfile(termenv.TrueColor)

	model := tui.NewCardsModel(tui.CardsOptions{
		Editor:   editor,
		Saver:    saver,
		Profile:  current,
		Profiles: cardProfiles(profiles, current),
		Load:     e.cardLayout,
		Context:  ctx,
	})
	_, runErr := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(runErr, tea.ErrProgramKilled) {
		runErr = nil
	}

	// Flush the last layout even when the program failed.
	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	closeErr := saver.Close(flushCtx)

	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("saving card layout: %w", closeErr)
	}
	if saver.Writes() > 0 {
		fmt.Println("  Card layout saved.")
	}
	return nil
}

// cardLayout fetches a profile's current dashboard card layout.
func (e *env) cardLayout(ctx context.Context, profileID int64) (wizard.MetricasConfig, error) {
	existing, err := e.backend.SetupState(ctx, profileID)
	if err != nil {
		return wizard.MetricasConfig{}, err
	}
	if existing.MetricasConfig == nil {
		return wizard.MetricasConfig{}, nil
	}
	return *existing.MetricasConfig, nil
}

// cardProfiles lists the profiles the card editor can switch between,
// always including current.
func cardProfiles(profiles []api.Profile, current tui.ProfileChoice) []tui.ProfileChoice {
	out := []tui.ProfileChoice{current}
	for _, p := range profiles {
		if p.ID == current.ID {
			continue
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("profile #%d", p.ID)
		}
		out = append(out, tui.ProfileChoice{ID: p.ID, Name: name})
	}
	return out
}
