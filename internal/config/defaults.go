package config

// Default values applied after file and environment merging. Kept in one
// place so tests can assert the full default surface.
const (
	DefaultHost          = "0.0.0.0"
	DefaultPort          = 8000
	DefaultAPIBaseURL    = "https://api.github.com"
	DefaultWebBaseURL    = "https://github.com"
	DefaultModel         = "gpt-4o-mini"
	DefaultTemperature   = float32(0.3)
	DefaultWorkspaceRoot = "app"
	DefaultJournalPath   = "pageforge.db"
	DefaultNATSSubject   = "pageforge.builds"
)

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.GitHub.APIBaseURL == "" {
		cfg.GitHub.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.GitHub.WebBaseURL == "" {
		cfg.GitHub.WebBaseURL = DefaultWebBaseURL
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = DefaultModel
	}
	if cfg.Generator.Temperature == 0 {
		cfg.Generator.Temperature = DefaultTemperature
	}
	if cfg.Workspace.Root == "" {
		cfg.Workspace.Root = DefaultWorkspaceRoot
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultNATSSubject
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = LogLevelInfo
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = LogFormatText
	}
	if cfg.Notify.Retry.Backoff == "" {
		cfg.Notify.Retry.Backoff = RetryBackoffExponential
	}
}
