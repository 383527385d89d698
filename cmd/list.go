package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ttsdumper/internal/models"
	"ttsdumper/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list [save.json...]",
	Short: "List the asset URLs a save references without downloading them",
	Long: `List every custom model, image and PDF URL referenced by the given saves,
together with the kind and the local file name it would be stored under.

Nothing is downloaded and no directory is created.`,
	Example: `  # Show what a dump would fetch
  ttsdumper list 2374822352.json

  # Include fields from an override file
  ttsdumper list mod.json --fields fields.yaml`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runList,
}

func runList(cmd *cobra.Command, args []string) error {
	passes, err := extractionPasses(cmd)
	if err != nil {
		return err
	}

	inputs := parseInputs(args, passes, newLogger(cmd))
	result := models.TaskList{
		Inputs:      args,
		SaveName:    inputs.saveName,
		TotalTasks:  len(inputs.tasks),
		Tasks:       inputs.tasks,
		InputErrors: inputs.errors,
	}
	if err := utils.FprintJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if len(inputs.errors) > 0 {
		return fmt.Errorf("%d inputs rejected", len(inputs.errors))
	}
	return nil
}
