package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/theirongolddev/budgetwiz/internal/wizard"

	"github.com/spf13/cobra"
)

var flagPreviewTemplate int64

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the setup payload the wizard would submit, without submitting",
	Long: "Print the submission payload compiled from the profile's current configuration, " +
		"or from a saved template with --template.",
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().Int64VarP(&flagPreviewTemplate, "template", "t", 0, "Template id to apply over the profile")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	profileID, err := e.profileID()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	existing, err := e.backend.SetupState(ctx, profileID)
	if err != nil {
		return err
	}

	acc := wizard.NewAccumulator(e.options())
	draft := acc.Transition(acc.Initial(wizard.ModeEdit), wizard.LoadExistingConfig{Config: existing})

	if flagPreviewTemplate != 0 {
		templates, err := e.backend.SetupTemplates(ctx)
		if err != nil {
			return err
		}
		var found *wizard.StoredTemplate
		for i := range templates {
			if templates[i].ID == flagPreviewTemplate {
				found = &templates[i]
				break
			}
		}
		if found == nil {
			return fmt.Errorf("template %d not found", flagPreviewTemplate)
		}
		draft = acc.Transition(draft, wizard.LoadTemplate{ID: found.ID, Data: found.TemplateData})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(wizard.Compile(draft))
}
