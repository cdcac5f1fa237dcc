package storage

import (
	"fmt"
	"os"
	"strconv"
)

const (
	defaultContainer = "sources"
	defaultRetries   = 3
)

// Config locates the source document container. A connection string
// (Azurite or account key) wins over ServiceURL, which authenticates with
// the default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	ServiceURL       string `toml:"service_url"`
	// DownloadRetries bounds how often an interrupted download resumes.
	DownloadRetries int `toml:"download_retries"`
}

// Env names the environment variables read by Finalize.
type Env struct {
	ContainerName    string
	ConnectionString string
	ServiceURL       string
	DownloadRetries  string
}

// Finalize applies defaults, then env, then validates.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge copies the set fields of overlay into c.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.ServiceURL != "" {
		c.ServiceURL = overlay.ServiceURL
	}
	if overlay.DownloadRetries != 0 {
		c.DownloadRetries = overlay.DownloadRetries
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = defaultContainer
	}
	if c.DownloadRetries == 0 {
		c.DownloadRetries = defaultRetries
	}
}

func (c *Config) loadEnv(env *Env) error {
	if v := lookup(env.ContainerName); v != "" {
		c.ContainerName = v
	}
	if v := lookup(env.ConnectionString); v != "" {
		c.ConnectionString = v
	}
	if v := lookup(env.ServiceURL); v != "" {
		c.ServiceURL = v
	}
	if v := lookup(env.DownloadRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", env.DownloadRetries, err)
		}
		c.DownloadRetries = n
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.ServiceURL == "" {
		return fmt.Errorf("connection_string or service_url required")
	}
	if c.DownloadRetries < 0 {
		return fmt.Errorf("download_retries must not be negative, got %d", c.DownloadRetries)
	}
	return nil
}
