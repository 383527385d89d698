package cmd

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ttsdumper/config"
	"ttsdumper/internal/asset"
	"ttsdumper/internal/extract"
	"ttsdumper/internal/fetcher"
	"ttsdumper/internal/logging"
)

var (
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ttsdumper [save.json...]",
	Short: "Download the custom assets referenced by Tabletop Simulator saves",
	Long: `ttsdumper reads Tabletop Simulator save or workshop mod JSON files, collects every
custom model, image and PDF URL they reference and downloads them into
Images, Models and PDF folders under one output directory.

Files already present in the output directory are skipped unless --replace is given.
Configuration is loaded from .env file or environment variables`,
	Example: `  # Dump a workshop mod next to the save file (TTS_<save-name>/)
  ttsdumper 2374822352.json

  # Dump several saves into one directory, re-downloading everything
  ttsdumper game1.json game2.json --output ./assets --replace

  # Fewer parallel downloads with a longer per-request timeout
  ttsdumper mod.json --workers 4 --timeout 2m`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDump,
}

func Execute(config *config.Config) error {
	cfg = config
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(uploadCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("fields", "", "YAML file with extra field names per pass (default: TTS_FIELDS_FILE)")

	rootCmd.Flags().StringP("output", "o", "", "Directory for the Images, Models and PDF folders (default: TTS_<save-name> next to the first input)")
	rootCmd.Flags().BoolP("replace", "r", false, "Replace files already in the output directory")
	rootCmd.Flags().IntP("workers", "w", 0, "Number of parallel downloads (default: TTS_WORKERS or 15)")
	rootCmd.Flags().Duration("timeout", 0, "Timeout for each download (default: TTS_TIMEOUT or 60s)")
	rootCmd.Flags().String("user-agent", "", "User-Agent header sent with each download (default: TTS_USER_AGENT)")
}

func isVerbose(cmd *cobra.Command) bool {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return verbose
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	return logging.NewWithWriter(cmd.ErrOrStderr(), isVerbose(cmd))
}

// extractionPasses returns the mesh, image and document mappings with any
// overrides from the fields file applied.
func extractionPasses(cmd *cobra.Command) ([]asset.FieldMapping, error) {
	path := cfg.FieldsFile
	if flag, _ := cmd.Flags().GetString("fields"); flag != "" {
		path = flag
	}
	fields, err := config.LoadFields(path)
	if err != nil {
		return nil, err
	}
	return extract.DefaultPasses(fields.Mesh, fields.Image, fields.Document), nil
}

func fetchOptions(cmd *cobra.Command, log *zerolog.Logger) fetcher.Options {
	opts := fetcher.Options{
		Workers:   cfg.Workers,
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		Logger:    log,
	}
	opts.Replace, _ = cmd.Flags().GetBool("replace")
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		opts.Workers = workers
	}
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		opts.Timeout = timeout
	}
	if agent, _ := cmd.Flags().GetString("user-agent"); agent != "" {
		opts.UserAgent = agent
	}
	return opts
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
