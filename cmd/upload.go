package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ttsdumper/internal/models"
	"ttsdumper/internal/s3client"
	"ttsdumper/pkg/utils"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [output-dir]",
	Short: "Upload a dumped asset directory to S3",
	Long: `Upload a directory produced by ttsdumper (Images, Models and PDF folders)
to an S3-compatible bucket.

Files are uploaded individually under <destination>/<directory name>/ by default.
With --archive the directory is zipped first and only the archive is uploaded.

Bucket credentials come from S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY, S3_BUCKET
and S3_REGION.`,
	Example: `  # Mirror a dump into the configured bucket
  ttsdumper upload TTS_my-game

  # Upload as a single zip into a folder of another bucket
  ttsdumper upload TTS_my-game --archive --destination backups --bucket my-other-bucket

  # Show what would be uploaded
  ttsdumper upload TTS_my-game --dry-run`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runUpload(cmd, args)
	},
}

func runUpload(cmd *cobra.Command, args []string) {
	sourceDir := args[0]
	destination, _ := cmd.Flags().GetString("destination")
	archive, _ := cmd.Flags().GetBool("archive")
	confirm, _ := cmd.Flags().GetBool("confirm")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if err := utils.ValidateDir(sourceDir); err != nil {
		utils.PrintError(err, "upload")
		return
	}

	storage := cfg.Storage
	if bucket, _ := cmd.Flags().GetString("bucket"); bucket != "" {
		storage.Bucket = bucket
	}

	if dryRun {
		result, err := createDryRunResult(sourceDir, destination, archive, storage.Bucket)
		if err != nil {
			utils.PrintError(err, "upload")
			return
		}
		if err := utils.FprintJSON(cmd.OutOrStdout(), result); err != nil {
			utils.PrintError(err, "upload")
		}
		return
	}

	// Show operation summary if not in confirm mode
	if !confirm {
		fmt.Fprintf(cmd.OutOrStdout(), "Upload operation summary:\n")
		fmt.Fprintf(cmd.OutOrStdout(), "  Bucket: %s\n", storage.Bucket)
		fmt.Fprintf(cmd.OutOrStdout(), "  Destination: %s\n", getDestinationDisplay(destination))
		fmt.Fprintf(cmd.OutOrStdout(), "  Directory: %s\n", sourceDir)
		fmt.Fprintf(cmd.OutOrStdout(), "  Archive: %t\n", archive)

		fmt.Fprint(cmd.OutOrStdout(), "Continue with upload? (y/N): ")
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)
		if !slices.Contains([]string{"y", "yes"}, strings.ToLower(response)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Upload cancelled.")
			return
		}
	}

	client, err := s3client.New(storage)
	if err != nil {
		utils.PrintError(err, "upload")
		return
	}

	timeout, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	log := newLogger(cmd)
	log.Debug().Str("dir", sourceDir).Str("destination", getDestinationDisplay(destination)).Bool("archive", archive).Msg("Starting upload")

	result, err := client.UploadDir(ctx, sourceDir, destination, archive)
	if err != nil {
		utils.PrintError(err, "upload")
		return
	}

	if err := utils.FprintJSON(cmd.OutOrStdout(), result); err != nil {
		utils.PrintError(err, "upload")
		return
	}

	log.Debug().Int("files", result.TotalFiles).Msg("Upload operation completed successfully")
}

func getDestinationDisplay(destination string) string {
	if destination == "" {
		return "bucket root"
	}
	return destination
}

func createDryRunResult(sourceDir, destination string, archive bool, bucketName string) (*models.UploadResult, error) {
	result := &models.UploadResult{
		BucketName:      bucketName,
		SourceDir:       sourceDir,
		DestinationPath: destination,
		Items:           []models.UploadItem{},
		OperationTime:   utils.FormatTime(time.Now()),
		ArchiveCreated:  archive,
		UploadDuration:  "0s",
		DryRun:          true,
	}

	if archive {
		result.Items = append(result.Items, models.UploadItem{
			LocalPath:  sourceDir,
			RemotePath: s3client.BuildRemotePath(destination, utils.GenerateArchiveName(sourceDir, ".zip")),
			IsArchived: true,
		})
	} else {
		err := s3client.WalkTree(sourceDir, destination, func(localPath, remotePath string, size int64) error {
			result.Items = append(result.Items, models.UploadItem{
				LocalPath:  localPath,
				RemotePath: remotePath,
				Size:       size,
			})
			result.TotalSizeBytes += size
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	result.TotalFiles = len(result.Items)
	result.TotalSizeHuman = utils.FormatBytes(result.TotalSizeBytes)
	return result, nil
}

func init() {
	uploadCmd.Flags().StringP("destination", "d", "", "Destination folder in the bucket (optional)")
	uploadCmd.Flags().Bool("archive", false, "Upload a single zip archive of the directory")
	uploadCmd.Flags().StringP("bucket", "b", "", "Override bucket name from config")
	uploadCmd.Flags().Bool("confirm", false, "Skip confirmation prompt")
	uploadCmd.Flags().Bool("dry-run", false, "Show what would be uploaded without actually uploading")
	uploadCmd.Flags().Int("timeout", 3600, "Timeout in seconds for the operation (default: 1 hour)")
}
