// Package config loads and validates the process configuration. A Config is
// constructed once at startup and passed by reference into each component;
// nothing below cmd reads ambient environment state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when no --config flag is given. A missing default
// file is not an error; the service can run from environment variables alone.
const DefaultPath = "pageforge.yaml"

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server,omitempty"`
	GitHub    GitHubConfig    `yaml:"github,omitempty"`
	Generator GeneratorConfig `yaml:"generator,omitempty"`
	Notify    NotifyConfig    `yaml:"notify,omitempty"`
	Workspace WorkspaceConfig `yaml:"workspace,omitempty"`
	Journal   JournalConfig   `yaml:"journal,omitempty"`
	Events    EventsConfig    `yaml:"events,omitempty"`
	Metrics   MetricsConfig   `yaml:"metrics,omitempty"`
	Logging   LoggingConfig   `yaml:"logging,omitempty"`
}

// Load builds the configuration with precedence defaults < file < environment.
// path may be empty, in which case DefaultPath is read if it exists. ${VAR}
// references inside the YAML are expanded before unmarshalling.
func Load(path string) (*Config, error) {
	loadDotEnv()

	explicit := path != ""
	if path == "" {
		path = DefaultPath
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := os.ExpandEnv(string(data))
		if uerr := yaml.Unmarshal([]byte(expanded), cfg); uerr != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", path, uerr)
		}
	case os.IsNotExist(err) && !explicit:
		// env-only operation
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a starter configuration file with example content.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
	}

	example := Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8000,
			Secret:    "${APP_SECRET}",
			AdminPort: 9100,
		},
		GitHub: GitHubConfig{
			Owner: "${GITHUB_USER}",
			Token: "${GITHUB_TOKEN}",
		},
		Generator: GeneratorConfig{
			APIBase: "${LLM_API_BASE}",
			APIKey:  "${LLM_API_KEY}",
			Model:   "gpt-4o-mini",
		},
		Notify: NotifyConfig{
			Timeout: "10s",
			Retry: RetryConfig{
				Backoff:      RetryBackoffExponential,
				InitialDelay: "1s",
				MaxDelay:     "30s",
				MaxRetries:   4,
			},
		},
		Workspace: WorkspaceConfig{Root: "app"},
		Journal:   JournalConfig{Path: "pageforge.db", Retention: "720h"},
		Metrics:   MetricsConfig{Enabled: true},
		Logging:   LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
