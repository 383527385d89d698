package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ttsdumper/internal/fetcher"
	"ttsdumper/internal/models"
	"ttsdumper/internal/storage"
	"ttsdumper/pkg/utils"
)

const outputPrefix = "TTS_"

func runDump(cmd *cobra.Command, args []string) error {
	startTime := time.Now()
	log := newLogger(cmd)
	runID := uuid.New().String()
	log = log.With().Str("run", runID[:8]).Logger()

	passes, err := extractionPasses(cmd)
	if err != nil {
		return err
	}

	inputs := parseInputs(args, passes, log)
	if inputs.allFailed(args) {
		if err := utils.FprintJSON(cmd.OutOrStdout(), models.TaskList{Inputs: args, InputErrors: inputs.errors}); err != nil {
			return err
		}
		return errors.New("no input could be parsed")
	}

	outputDir, err := outputDirectory(cmd, args[0], inputs.saveName)
	if err != nil {
		return err
	}
	layout, err := storage.NewLayout(outputDir)
	if err != nil {
		return err
	}

	log.Info().Str("output", outputDir).Int("files", len(inputs.tasks)).Msg("Grabbing files")

	report, err := fetcher.New(layout, fetchOptions(cmd, &log)).Run(cmd.Context(), inputs.tasks)
	if err != nil {
		return fmt.Errorf("failed to fetch assets: %w", err)
	}

	result := buildDumpResult(runID, args, layout.Root(), report, inputs.errors, startTime)
	log.Info().Int("written", result.Written).Int("skipped", result.Skipped).Int("errors", result.Failed).Msg("Done")

	if err := utils.FprintJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if result.Failed > 0 || len(result.InputErrors) > 0 {
		return fmt.Errorf("%d downloads failed, %d inputs rejected", result.Failed, len(result.InputErrors))
	}
	return nil
}

// outputDirectory honours --output, otherwise places TTS_<slug> next to the
// first input.
func outputDirectory(cmd *cobra.Command, firstInput, saveName string) (string, error) {
	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return output, nil
	}

	abs, err := filepath.Abs(firstInput)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", firstInput, err)
	}
	return filepath.Join(filepath.Dir(abs), defaultOutputName(saveName, abs)), nil
}

func defaultOutputName(saveName, inputPath string) string {
	slug := utils.Slugify(saveName)
	if slug == "" {
		base := filepath.Base(inputPath)
		slug = utils.Slugify(base[:len(base)-len(filepath.Ext(base))])
	}
	if slug == "" {
		slug = "assets"
	}
	return outputPrefix + slug
}

func buildDumpResult(runID string, inputs []string, outputDir string, report *fetcher.Report, inputErrors []models.InputError, startTime time.Time) models.DumpResult {
	failed := make([]models.FailedTask, 0, len(report.Failed))
	for _, res := range report.Failed {
		failed = append(failed, models.FailedTask{
			URL:        res.Task.URL,
			Kind:       res.Task.Kind.String(),
			LocalName:  res.Task.LocalName,
			StatusCode: res.StatusCode,
			Reason:     res.Err.Error(),
		})
	}

	return models.DumpResult{
		RunID:          runID,
		Inputs:         inputs,
		OutputDir:      outputDir,
		TotalTasks:     report.Total,
		Written:        report.Written,
		Skipped:        report.Skipped,
		Failed:         len(report.Failed),
		TotalSizeBytes: report.Bytes,
		TotalSizeHuman: utils.FormatBytes(report.Bytes),
		OperationTime:  utils.FormatTime(startTime),
		Duration:       elapsed(startTime),
		InputErrors:    inputErrors,
		Errors:         failed,
	}
}
