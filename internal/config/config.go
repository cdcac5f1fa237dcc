package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/scribe/internal/mt"
	"github.com/JaimeStill/scribe/pkg/database"
	"github.com/JaimeStill/scribe/pkg/pagination"
	"github.com/JaimeStill/scribe/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvScribeEnv             = "SCRIBE_ENV"
	EnvScribeShutdownTimeout = "SCRIBE_SHUTDOWN_TIMEOUT"
	EnvScribeVersion         = "SCRIBE_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SCRIBE_DB_HOST",
	Port:            "SCRIBE_DB_PORT",
	Name:            "SCRIBE_DB_NAME",
	User:            "SCRIBE_DB_USER",
	Password:        "SCRIBE_DB_PASSWORD",
	SSLMode:         "SCRIBE_DB_SSL_MODE",
	ApplicationName: "SCRIBE_DB_APPLICATION_NAME",
	LockTimeout:     "SCRIBE_DB_LOCK_TIMEOUT",
	MaxOpenConns:    "SCRIBE_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SCRIBE_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SCRIBE_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SCRIBE_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "SCRIBE_STORAGE_CONTAINER_NAME",
	ConnectionString: "SCRIBE_STORAGE_CONNECTION_STRING",
	ServiceURL:       "SCRIBE_STORAGE_SERVICE_URL",
	DownloadRetries:  "SCRIBE_STORAGE_DOWNLOAD_RETRIES",
}

var translationEnv = &mt.Env{
	Provider:          "SCRIBE_MT_PROVIDER",
	Model:             "SCRIBE_MT_MODEL",
	BaseURL:           "SCRIBE_MT_BASE_URL",
	APIKey:            "SCRIBE_MT_API_KEY",
	CredentialsFile:   "SCRIBE_MT_CREDENTIALS_FILE",
	BatchSize:         "SCRIBE_MT_BATCH_SIZE",
	MaxAttempts:       "SCRIBE_MT_MAX_ATTEMPTS",
	Backoff:           "SCRIBE_MT_BACKOFF",
	Concurrency:       "SCRIBE_MT_CONCURRENCY",
	Timeout:           "SCRIBE_MT_TIMEOUT",
	AgentProviderName: "SCRIBE_AGENT_PROVIDER_NAME",
	AgentBaseURL:      "SCRIBE_AGENT_BASE_URL",
	AgentToken:        "SCRIBE_AGENT_TOKEN",
	AgentDeployment:   "SCRIBE_AGENT_DEPLOYMENT",
	AgentAPIVersion:   "SCRIBE_AGENT_API_VERSION",
	AgentAuthType:     "SCRIBE_AGENT_AUTH_TYPE",
	AgentModelName:    "SCRIBE_AGENT_MODEL_NAME",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "SCRIBE_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "SCRIBE_PAGINATION_MAX_PAGE_SIZE",
}

// Config is the root configuration for scribe.
type Config struct {
	Worker          WorkerConfig      `toml:"worker"`
	Health          HealthConfig      `toml:"health"`
	Documents       DocumentsConfig   `toml:"documents"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	Translation     mt.Config         `toml:"translation"`
	Pagination      pagination.Config `toml:"pagination"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the SCRIBE_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvScribeEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFile(BaseConfigFile)
}

// LoadFile is Load with an explicit base config path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Worker.Merge(&overlay.Worker)
	c.Health.Merge(&overlay.Health)
	c.Documents.Merge(&overlay.Documents)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.Translation.Merge(&overlay.Translation)
	c.Pagination.Merge(&overlay.Pagination)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Worker.Finalize(); err != nil {
		return fmt.Errorf("worker: %w", err)
	}
	if err := c.Health.Finalize(); err != nil {
		return fmt.Errorf("health: %w", err)
	}
	if err := c.Documents.Finalize(); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Translation.Finalize(translationEnv); err != nil {
		return fmt.Errorf("translation: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvScribeShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvScribeVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvScribeEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
