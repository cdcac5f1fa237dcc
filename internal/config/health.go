package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvHealthEnabled     = "SCRIBE_HEALTH_ENABLED"
	EnvHealthHost        = "SCRIBE_HEALTH_HOST"
	EnvHealthPort        = "SCRIBE_HEALTH_PORT"
	EnvHealthReadTimeout = "SCRIBE_HEALTH_READ_TIMEOUT"
)

// HealthConfig holds the worker's health server parameters.
type HealthConfig struct {
	Enabled     *bool  `toml:"enabled"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	ReadTimeout string `toml:"read_timeout"`
}

// On reports whether the health server should run.
func (c *HealthConfig) On() bool {
	return c.Enabled == nil || *c.Enabled
}

// Addr returns the host:port listen address.
func (c *HealthConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (c *HealthConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *HealthConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *HealthConfig) Merge(overlay *HealthConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.Host != "" {
		c.Host = overlay.Host
	}
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
}

func (c *HealthConfig) loadDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 8081
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "5s"
	}
}

func (c *HealthConfig) loadEnv() {
	if v := os.Getenv(EnvHealthEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = &b
		}
	}
	if v := os.Getenv(EnvHealthHost); v != "" {
		c.Host = v
	}
	if v := os.Getenv(EnvHealthPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv(EnvHealthReadTimeout); v != "" {
		c.ReadTimeout = v
	}
}

func (c *HealthConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if _, err := time.ParseDuration(c.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	return nil
}
