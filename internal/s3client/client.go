package s3client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "ttsdumper/config"
	"ttsdumper/internal/models"
	"ttsdumper/pkg/utils"
)

// Client mirrors dumped asset trees into an S3-compatible bucket.
type Client struct {
	s3Client *s3.Client
	bucket   string
}

func New(cfg appConfig.StorageConfig) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket name is required (S3_BUCKET or --bucket)")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     cfg.AccessKey,
				SecretAccessKey: cfg.SecretKey,
			},
		}))
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Client *s3.Client
	if cfg.Endpoint != "" {
		s3Client = s3.NewFromConfig(awsConfig, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		s3Client = s3.NewFromConfig(awsConfig)
	}

	return &Client{
		s3Client: s3Client,
		bucket:   cfg.Bucket,
	}, nil
}

// UploadDir uploads every file below sourceDir, keyed as
// <destinationPath>/<base(sourceDir)>/<relative path>. With archive set the
// tree is zipped first and only the archive is uploaded.
func (c *Client) UploadDir(ctx context.Context, sourceDir, destinationPath string, archive bool) (*models.UploadResult, error) {
	startTime := time.Now()

	if err := utils.ValidateDir(sourceDir); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	var items []models.UploadItem
	var totalSize int64
	var archivePath string

	uploader := manager.NewUploader(c.s3Client)

	if archive {
		archivePath = filepath.Join(os.TempDir(), utils.GenerateArchiveName(sourceDir, ".zip"))
		archiveInfo, err := utils.CreateArchive(sourceDir, archivePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive: %w", err)
		}
		defer utils.CleanupTempFile(archivePath)

		remotePath := BuildRemotePath(destinationPath, filepath.Base(archivePath))
		if err := c.uploadFile(ctx, uploader, archivePath, remotePath); err != nil {
			return nil, fmt.Errorf("failed to upload archive: %w", err)
		}

		items = append(items, models.UploadItem{
			LocalPath:  sourceDir,
			RemotePath: remotePath,
			Size:       archiveInfo.CompressedSize,
			IsArchived: true,
		})
		totalSize = archiveInfo.CompressedSize
	} else {
		err := WalkTree(sourceDir, destinationPath, func(localPath, remotePath string, size int64) error {
			if err := c.uploadFile(ctx, uploader, localPath, remotePath); err != nil {
				return err
			}
			items = append(items, models.UploadItem{
				LocalPath:  localPath,
				RemotePath: remotePath,
				Size:       size,
			})
			totalSize += size
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", sourceDir, err)
		}
	}

	return &models.UploadResult{
		BucketName:      c.bucket,
		SourceDir:       sourceDir,
		DestinationPath: destinationPath,
		Items:           items,
		TotalFiles:      len(items),
		TotalSizeBytes:  totalSize,
		TotalSizeHuman:  utils.FormatBytes(totalSize),
		OperationTime:   utils.FormatTime(startTime),
		ArchiveCreated:  archive,
		ArchivePath:     archivePath,
		UploadDuration:  time.Since(startTime).String(),
	}, nil
}

// WalkTree calls fn for every regular file below sourceDir with the object
// key it would be uploaded under.
func WalkTree(sourceDir, destinationPath string, fn func(localPath, remotePath string, size int64) error) error {
	base := filepath.Base(filepath.Clean(sourceDir))
	return filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		remotePath := BuildRemotePath(destinationPath, filepath.ToSlash(filepath.Join(base, relPath)))
		return fn(path, remotePath, info.Size())
	})
}

func (c *Client) uploadFile(ctx context.Context, uploader *manager.Uploader, localPath, remotePath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", localPath, err)
	}
	defer file.Close()

	_, err = uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(remotePath),
		Body:        file,
		ContentType: aws.String(DetectContentType(localPath)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}

	return nil
}

func BuildRemotePath(destinationPath, filename string) string {
	if destinationPath == "" {
		return filename
	}

	destinationPath = strings.TrimPrefix(destinationPath, "/")

	if !strings.HasSuffix(destinationPath, "/") {
		destinationPath += "/"
	}

	return destinationPath + filename
}

var contentTypes = map[string]string{
	".png":     "image/png",
	".jpg":     "image/jpeg",
	".jpeg":    "image/jpeg",
	".gif":     "image/gif",
	".bmp":     "image/bmp",
	".webp":    "image/webp",
	".obj":     "model/obj",
	".pdf":     "application/pdf",
	".zip":     "application/zip",
	".json":    "application/json",
	".mp3":     "audio/mpeg",
	".ogg":     "audio/ogg",
	".unity3d": "application/vnd.unity",
}

func DetectContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, exists := contentTypes[ext]; exists {
		return contentType
	}
	return "application/octet-stream"
}
