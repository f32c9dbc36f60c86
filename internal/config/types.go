package config

import "time"

// ServerConfig holds the inbound HTTP surface settings.
type ServerConfig struct {
	Host            string `yaml:"host,omitempty"`
	Port            int    `yaml:"port,omitempty"`
	Secret          string `yaml:"secret,omitempty"`
	AdminPort       int    `yaml:"admin_port,omitempty"` // 0 disables the admin listener
	ShutdownTimeout string `yaml:"shutdown_timeout,omitempty"`
}

// ShutdownGrace returns the parsed shutdown timeout, defaulting to 10s.
func (s ServerConfig) ShutdownGrace() time.Duration {
	return parseDurationOr(s.ShutdownTimeout, 10*time.Second)
}

// GitHubConfig identifies the hosting account repositories are created under.
type GitHubConfig struct {
	Owner          string `yaml:"owner,omitempty"`
	Token          string `yaml:"token,omitempty"`
	APIBaseURL     string `yaml:"api_base_url,omitempty"`
	WebBaseURL     string `yaml:"web_base_url,omitempty"`
	Private        bool   `yaml:"private,omitempty"`
	RequestTimeout string `yaml:"request_timeout,omitempty"`
}

// Timeout returns the parsed API request timeout, defaulting to 30s.
func (g GitHubConfig) Timeout() time.Duration {
	return parseDurationOr(g.RequestTimeout, 30*time.Second)
}

// GeneratorConfig holds the content-generation provider settings. Empty
// APIBase or APIKey disables the provider and every request uses the
// built-in fallback.
type GeneratorConfig struct {
	APIBase     string  `yaml:"api_base,omitempty"`
	APIKey      string  `yaml:"api_key,omitempty"`
	Model       string  `yaml:"model,omitempty"`
	Temperature float32 `yaml:"temperature,omitempty"`
	Timeout     string  `yaml:"timeout,omitempty"`
}

// RequestTimeout returns the parsed provider call timeout, defaulting to 60s.
func (g GeneratorConfig) RequestTimeout() time.Duration {
	return parseDurationOr(g.Timeout, 60*time.Second)
}

// Enabled reports whether provider credentials are configured.
func (g GeneratorConfig) Enabled() bool {
	return g.APIBase != "" && g.APIKey != ""
}

// NotifyConfig governs callback delivery.
type NotifyConfig struct {
	Timeout string      `yaml:"timeout,omitempty"` // per-attempt
	Retry   RetryConfig `yaml:"retry,omitempty"`
}

// AttemptTimeout returns the parsed per-attempt timeout, defaulting to 10s.
func (n NotifyConfig) AttemptTimeout() time.Duration {
	return parseDurationOr(n.Timeout, 10*time.Second)
}

// RetryConfig holds raw retry/backoff knobs. The retry package turns these
// into a Policy; zero values fall back to policy defaults.
type RetryConfig struct {
	Backoff      RetryBackoffMode `yaml:"backoff,omitempty"`
	InitialDelay string           `yaml:"initial_delay,omitempty"`
	MaxDelay     string           `yaml:"max_delay,omitempty"`
	MaxRetries   int              `yaml:"max_retries,omitempty"`
	Jitter       bool             `yaml:"jitter,omitempty"`
}

// InitialDelayDuration returns the parsed initial delay (0 when unset).
func (r RetryConfig) InitialDelayDuration() time.Duration {
	return parseDurationOr(r.InitialDelay, 0)
}

// MaxDelayDuration returns the parsed max delay (0 when unset).
func (r RetryConfig) MaxDelayDuration() time.Duration {
	return parseDurationOr(r.MaxDelay, 0)
}

// WorkspaceConfig locates the persistent working trees.
type WorkspaceConfig struct {
	Root string `yaml:"root,omitempty"`
}

// JournalConfig controls the sqlite build journal.
type JournalConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty"` // default true
	Path      string `yaml:"path,omitempty"`
	Retention string `yaml:"retention,omitempty"`
}

// IsEnabled reports whether the journal should be opened.
func (j JournalConfig) IsEnabled() bool {
	return j.Enabled == nil || *j.Enabled
}

// RetentionWindow returns the parsed retention period, defaulting to 30 days.
func (j JournalConfig) RetentionWindow() time.Duration {
	return parseDurationOr(j.Retention, 30*24*time.Hour)
}

// EventsConfig controls optional NATS build-lifecycle publishing.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	URL     string `yaml:"url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint on the admin listener.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}

// LoggingConfig selects level and output format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

func parseDurationOr(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
