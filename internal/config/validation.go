package config

import (
	"fmt"
	"net/url"
	"time"
)

// Validate checks invariants the rest of the system relies on. It is called
// by Load after defaults are applied, and may be called directly on
// fabricated configurations in tests.
func (c *Config) Validate() error {
	cv := &configurationValidator{config: c}
	checks := []func() error{
		cv.validateServer,
		cv.validateGitHub,
		cv.validateGenerator,
		cv.validateNotify,
		cv.validateJournal,
		cv.validateEvents,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validateServer() error {
	s := cv.config.Server
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", s.Port)
	}
	if s.AdminPort != 0 {
		if s.AdminPort < 1 || s.AdminPort > 65535 {
			return fmt.Errorf("invalid server.admin_port: %d", s.AdminPort)
		}
		if s.AdminPort == s.Port {
			return fmt.Errorf("server.admin_port must differ from server.port (%d)", s.Port)
		}
	}
	if s.Secret == "" {
		return fmt.Errorf("server.secret (or APP_SECRET) is required")
	}
	return validDuration("server.shutdown_timeout", s.ShutdownTimeout)
}

func (cv *configurationValidator) validateGitHub() error {
	g := cv.config.GitHub
	if g.Owner == "" {
		return fmt.Errorf("github.owner (or GITHUB_USER) is required")
	}
	if g.Token == "" {
		return fmt.Errorf("github.token (or GITHUB_TOKEN) is required")
	}
	for name, raw := range map[string]string{
		"github.api_base_url": g.APIBaseURL,
		"github.web_base_url": g.WebBaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s: %q", name, raw)
		}
	}
	return validDuration("github.request_timeout", g.RequestTimeout)
}

func (cv *configurationValidator) validateGenerator() error {
	g := cv.config.Generator
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("generator.temperature out of range: %g", g.Temperature)
	}
	if g.APIBase != "" {
		if _, err := url.Parse(g.APIBase); err != nil {
			return fmt.Errorf("invalid generator.api_base: %w", err)
		}
	}
	return validDuration("generator.timeout", g.Timeout)
}

func (cv *configurationValidator) validateNotify() error {
	n := cv.config.Notify
	if err := validDuration("notify.timeout", n.Timeout); err != nil {
		return err
	}
	r := n.Retry
	if NormalizeRetryBackoff(string(r.Backoff)) == "" {
		return fmt.Errorf("invalid notify.retry.backoff: %s (allowed: fixed|linear|exponential)", r.Backoff)
	}
	if r.MaxRetries < 0 {
		return fmt.Errorf("notify.retry.max_retries cannot be negative: %d", r.MaxRetries)
	}
	if err := validDuration("notify.retry.initial_delay", r.InitialDelay); err != nil {
		return err
	}
	if err := validDuration("notify.retry.max_delay", r.MaxDelay); err != nil {
		return err
	}
	if r.InitialDelay != "" && r.MaxDelay != "" && r.MaxDelayDuration() < r.InitialDelayDuration() {
		return fmt.Errorf("notify.retry.max_delay (%s) must be >= initial_delay (%s)", r.MaxDelay, r.InitialDelay)
	}
	return nil
}

func (cv *configurationValidator) validateJournal() error {
	j := cv.config.Journal
	if j.IsEnabled() && j.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}
	return validDuration("journal.retention", j.Retention)
}

func (cv *configurationValidator) validateEvents() error {
	e := cv.config.Events
	if e.Enabled && e.URL == "" {
		return fmt.Errorf("events.url is required when events are enabled")
	}
	return nil
}

// validDuration accepts empty strings (defaults apply) but rejects anything
// set that does not parse as a positive duration.
func validDuration(name, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %s: %w", name, raw, err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid %s: must be positive, got %s", name, raw)
	}
	return nil
}
