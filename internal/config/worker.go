package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/scribe/pkg/formatting"
)

const (
	EnvWorkerPollInterval        = "SCRIBE_WORKER_POLL_INTERVAL"
	EnvWorkerSimilarityThreshold = "SCRIBE_WORKER_SIMILARITY_THRESHOLD"
	EnvDocumentsMaxUploadSize    = "SCRIBE_DOCUMENTS_MAX_UPLOAD_SIZE"
)

// WorkerConfig holds task polling parameters.
type WorkerConfig struct {
	PollInterval string `toml:"poll_interval"`
	// SimilarityThreshold is used by submissions that do not set one.
	SimilarityThreshold float64 `toml:"similarity_threshold"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *WorkerConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WorkerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WorkerConfig) Merge(overlay *WorkerConfig) {
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.SimilarityThreshold != 0 {
		c.SimilarityThreshold = overlay.SimilarityThreshold
	}
}

func (c *WorkerConfig) loadDefaults() {
	if c.PollInterval == "" {
		c.PollInterval = "5s"
	}
	if c.SimilarityThreshold == 0 {
		c.SimilarityThreshold = 1
	}
}

func (c *WorkerConfig) loadEnv() {
	if v := os.Getenv(EnvWorkerPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvWorkerSimilarityThreshold); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.SimilarityThreshold = f
		}
	}
}

func (c *WorkerConfig) validate() error {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be between 0 and 1")
	}
	return nil
}

// DocumentsConfig holds import limits.
type DocumentsConfig struct {
	MaxUploadSize string `toml:"max_upload_size"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *DocumentsConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *DocumentsConfig) Finalize() error {
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
	if v := os.Getenv(EnvDocumentsMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *DocumentsConfig) Merge(overlay *DocumentsConfig) {
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}
}
