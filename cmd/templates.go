package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/theirongolddev/budgetwiz/internal/cli"

	"github.com/spf13/cobra"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List saved setup templates",
	RunE:  runTemplates,
}

func init() {
	rootCmd.AddCommand(templatesCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	templates, err := e.backend.SetupTemplates(cmd.Context())
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		fmt.Println("  No saved templates. Save one from the wizard's review step.")
		return nil
	}

	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].UpdatedAt.After(templates[j].UpdatedAt)
	})

	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		data := t.TemplateData
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			cli.Truncate(t.Name, 24),
			cli.Truncate(t.Description, 32),
			cli.FormatNumber(int64(len(data.RecurringItems))),
			cli.FormatNumber(int64(len(data.Categories) + len(data.BudgetLimits))),
			cli.FormatNumber(int64(len(data.RenameRules) + len(data.CategorizationRules))),
			cli.FormatAgo(t.UpdatedAt),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      "Setup templates",
		Headers:    []string{"ID", "Name", "Description", "Recurring", "Budget", "Rules", "Updated"},
		Rows:       rows,
		RightAlign: []int{0, 3, 4, 5},
	}))
	fmt.Println()
	return nil
}
