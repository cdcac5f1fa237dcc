package mt

import (
	"fmt"
	"maps"
	"os"
	"strconv"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	ProviderGoogle = "google"
	ProviderAgent  = "agent"
)

// Config holds machine-translation provider and batching parameters.
// Worker-level defaults come from the [translation] config section and a
// task's own settings are merged over them with Resolve.
//
// Model, BaseURL and APIKey are shared shortcuts: the google provider reads
// APIKey directly, and for the agent provider they override the model name,
// provider base URL and provider token of Agent.
type Config struct {
	Provider        string `toml:"provider" json:"provider,omitempty"`
	Model           string `toml:"model" json:"model,omitempty"`
	BaseURL         string `toml:"base_url" json:"base_url,omitempty"`
	APIKey          string `toml:"api_key" json:"-"`
	CredentialsFile string `toml:"credentials_file" json:"-"`
	BatchSize       int    `toml:"batch_size" json:"batch_size,omitempty"`
	MaxAttempts     int    `toml:"max_attempts" json:"max_attempts,omitempty"`
	Backoff         string `toml:"backoff" json:"backoff,omitempty"`
	Concurrency     int    `toml:"concurrency" json:"concurrency,omitempty"`
	Timeout         string `toml:"timeout" json:"timeout,omitempty"`

	Agent gaconfig.AgentConfig `toml:"agent" json:"-"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider        string
	Model           string
	BaseURL         string
	APIKey          string
	CredentialsFile string
	BatchSize       string
	MaxAttempts     string
	Backoff         string
	Concurrency     string
	Timeout         string

	AgentProviderName string
	AgentBaseURL      string
	AgentToken        string
	AgentDeployment   string
	AgentAPIVersion   string
	AgentAuthType     string
	AgentModelName    string
}

// BackoffDuration returns Backoff as a time.Duration.
func (c *Config) BackoffDuration() time.Duration {
	d, _ := time.ParseDuration(c.Backoff)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// AgentConfig returns a copy of Agent with the Model, BaseURL and APIKey
// shortcuts applied. The copy shares no pointers with c.
func (c *Config) AgentConfig() gaconfig.AgentConfig {
	a := c.Agent

	var provider gaconfig.ProviderConfig
	if a.Provider != nil {
		provider = *a.Provider
	}
	provider.Options = maps.Clone(provider.Options)
	if provider.Options == nil {
		provider.Options = make(map[string]any)
	}

	var model gaconfig.ModelConfig
	if a.Model != nil {
		model = *a.Model
	}

	if c.BaseURL != "" {
		provider.BaseURL = c.BaseURL
	}
	if c.APIKey != "" {
		provider.Options["token"] = c.APIKey
	}
	if c.Model != "" {
		model.Name = c.Model
	}

	a.Provider = &provider
	a.Model = &model
	return a
}

// Finalize applies defaults, environment variable overrides, and validation.
// An empty provider is allowed here; it means machine translation is off
// unless a task supplies one.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. The agent section is
// merged field by field through go-agents.
func (c *Config) Merge(overlay *Config) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.CredentialsFile != "" {
		c.CredentialsFile = overlay.CredentialsFile
	}
	if overlay.BatchSize != 0 {
		c.BatchSize = overlay.BatchSize
	}
	if overlay.MaxAttempts != 0 {
		c.MaxAttempts = overlay.MaxAttempts
	}
	if overlay.Backoff != "" {
		c.Backoff = overlay.Backoff
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	c.Agent.Merge(&overlay.Agent)
}

// Resolve merges overlay over a copy of c and validates the result for
// use. Unlike Finalize, a provider is required.
func (c Config) Resolve(overlay *Config) (Config, error) {
	c.Agent = c.AgentConfig()
	if overlay != nil {
		c.Merge(overlay)
	}
	c.loadDefaults()
	if c.Provider == "" {
		return c, fmt.Errorf("%w: provider required", ErrInvalidConfig)
	}
	if err := c.validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) loadDefaults() {
	agent := gaconfig.DefaultAgentConfig()
	agent.Merge(&c.Agent)
	c.Agent = agent

	if c.BatchSize == 0 {
		c.BatchSize = 20
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = 3
	}
	if c.Backoff == "" {
		c.Backoff = "1s"
	}
	if c.Concurrency == 0 {
		c.Concurrency = 1
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *Config) loadEnv(env *Env) {
	setString := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	setString(env.Provider, &c.Provider)
	setString(env.Model, &c.Model)
	setString(env.BaseURL, &c.BaseURL)
	setString(env.APIKey, &c.APIKey)
	setString(env.CredentialsFile, &c.CredentialsFile)
	setInt(env.BatchSize, &c.BatchSize)
	setInt(env.MaxAttempts, &c.MaxAttempts)
	setString(env.Backoff, &c.Backoff)
	setInt(env.Concurrency, &c.Concurrency)
	setString(env.Timeout, &c.Timeout)

	c.loadAgentEnv(env)
}

func (c *Config) loadAgentEnv(env *Env) {
	if c.Agent.Provider == nil {
		c.Agent.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Agent.Provider.Options == nil {
		c.Agent.Provider.Options = make(map[string]any)
	}
	if c.Agent.Model == nil {
		c.Agent.Model = &gaconfig.ModelConfig{}
	}

	lookup := func(name string) (string, bool) {
		if name == "" {
			return "", false
		}
		v := os.Getenv(name)
		return v, v != ""
	}

	if v, ok := lookup(env.AgentProviderName); ok {
		c.Agent.Provider.Name = v
	}
	if v, ok := lookup(env.AgentBaseURL); ok {
		c.Agent.Provider.BaseURL = v
	}
	if v, ok := lookup(env.AgentModelName); ok {
		c.Agent.Model.Name = v
	}

	options := map[string]string{
		env.AgentToken:      "token",
		env.AgentDeployment: "deployment",
		env.AgentAPIVersion: "api_version",
		env.AgentAuthType:   "auth_type",
	}
	for name, key := range options {
		if v, ok := lookup(name); ok {
			c.Agent.Provider.Options[key] = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Provider {
	case "", ProviderGoogle:
	case ProviderAgent:
		if err := validateAgent(c.AgentConfig()); err != nil {
			return fmt.Errorf("%w: agent: %w", ErrInvalidConfig, err)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max_attempts must be positive", ErrInvalidConfig)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be positive", ErrInvalidConfig)
	}
	if _, err := time.ParseDuration(c.Backoff); err != nil {
		return fmt.Errorf("%w: invalid backoff: %w", ErrInvalidConfig, err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("%w: invalid timeout: %w", ErrInvalidConfig, err)
	}
	return nil
}

func validateAgent(a gaconfig.AgentConfig) error {
	if a.Name == "" {
		return fmt.Errorf("name required")
	}
	if a.Provider == nil || a.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if a.Model == nil || a.Model.Name == "" {
		return fmt.Errorf("model name required")
	}
	return nil
}
