package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"ttsdumper/internal/models"
)

// CreateArchive zips every file below sourceDir into outputPath. Entry names
// start with the base name of sourceDir, e.g. "TTS_game/Images/x.png".
func CreateArchive(sourceDir, outputPath string) (*models.ArchiveInfo, error) {
	if err := ValidateDir(sourceDir); err != nil {
		return nil, err
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file: %w", err)
	}
	defer outFile.Close()

	zipWriter := zip.NewWriter(outFile)
	defer zipWriter.Close()

	absOut, _ := filepath.Abs(outputPath)
	parent := filepath.Dir(filepath.Clean(sourceDir))
	createdAt := time.Now()
	var originalSize int64
	var fileCount int

	err = filepath.Walk(sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if abs, _ := filepath.Abs(path); abs == absOut {
			return nil
		}

		relPath, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		if err := addToArchive(zipWriter, path, filepath.ToSlash(relPath), info); err != nil {
			return fmt.Errorf("failed to add %s to archive: %w", path, err)
		}
		originalSize += info.Size()
		fileCount++
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	fileInfo, err := outFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get archive info: %w", err)
	}
	compressedSize := fileInfo.Size()

	compressionRatio := 0.0
	if originalSize > 0 {
		compressionRatio = float64(compressedSize) / float64(originalSize)
	}

	return &models.ArchiveInfo{
		ArchivePath:      outputPath,
		SourceDir:        sourceDir,
		FileCount:        fileCount,
		CompressedSize:   compressedSize,
		OriginalSize:     originalSize,
		CompressionRatio: compressionRatio,
		CreatedAt:        createdAt,
	}, nil
}

func addToArchive(zipWriter *zip.Writer, path, name string, info os.FileInfo) error {
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = name
	header.Method = zip.Deflate

	writer, err := zipWriter.CreateHeader(header)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = io.Copy(writer, file)
	return err
}

func GenerateArchiveName(sourceDir string, extension string) string {
	baseName := filepath.Base(filepath.Clean(sourceDir))
	if baseName == "." || baseName == string(filepath.Separator) {
		baseName = "archive"
	}
	return fmt.Sprintf("%s_%s%s", baseName, time.Now().Format("20060102_150405"), extension)
}

func ValidateDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", path)
		}
		return fmt.Errorf("cannot access path %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", path)
	}
	return nil
}

func CleanupTempFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to cleanup temporary file %s: %w", path, err)
	}
	return nil
}
