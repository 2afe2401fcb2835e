package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/theirongolddev/budgetwiz/internal/cli"

	"github.com/spf13/cobra"
)

var (
	flagHistoryLimit int
	flagHistoryAll   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past setup submissions recorded on this machine",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "l", 20, "Number of submissions to show (0 for all)")
	historyCmd.Flags().BoolVarP(&flagHistoryAll, "all", "a", false, "Show every profile, not just the selected one")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.cache == nil {
		return errors.New("local store unavailable, no history to show")
	}

	var profileID int64
	if !flagHistoryAll {
		if profileID, err = e.profileID(); err != nil {
			return err
		}
	}

	subs, err := e.cache.ListSubmissions(cmd.Context(), profileID, flagHistoryLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if len(subs) == 0 {
		fmt.Println("  No submissions recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		status := "ok"
		if !s.Succeeded() {
			status = cli.Truncate(s.Error, 36)
		}
		mode := "additive"
		if s.ResetMode {
			mode = "reset"
		}
		rows = append(rows, []string{
			cli.FormatAgo(s.SubmittedAt),
			cli.Truncate(s.ProfileName, 20) + " #" + strconv.FormatInt(s.ProfileID, 10),
			mode,
			cli.FormatNumber(int64(s.Accounts)),
			cli.FormatNumber(int64(s.Recurring)),
			cli.FormatNumber(int64(s.Categories)),
			status,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Submissions",
		Headers:    []string{"When", "Profile", "Mode", "Accounts", "Recurring", "Categories", "Result"},
		Rows:       rows,
		RightAlign: []int{3, 4, 5},
	}))
	fmt.Println()
	return nil
}
