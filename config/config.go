package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultWorkers   = 15
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "ttsdumper/1.0"
)

type Config struct {
	Workers    int
	Timeout    time.Duration
	UserAgent  string
	FieldsFile string
	Storage    StorageConfig
}

// StorageConfig holds the S3-compatible bucket used by the upload command.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

func Load() (*Config, error) {
	// A missing .env is the normal case for a CLI; the environment is enough.
	_ = godotenv.Load()

	workers, err := getEnvInt("TTS_WORKERS", defaultWorkers)
	if err != nil {
		return nil, err
	}
	if workers <= 0 {
		return nil, fmt.Errorf("TTS_WORKERS must be greater than 0, got %d", workers)
	}

	timeout, err := getEnvDuration("TTS_TIMEOUT", defaultTimeout)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Workers:    workers,
		Timeout:    timeout,
		UserAgent:  getEnv("TTS_USER_AGENT", defaultUserAgent),
		FieldsFile: getEnv("TTS_FIELDS_FILE", ""),
		Storage: StorageConfig{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			Bucket:    getEnv("S3_BUCKET", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

// getEnvDuration accepts Go durations ("90s", "2m") or plain seconds.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
