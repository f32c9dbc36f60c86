package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pageforge.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearServiceEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_SECRET", "PORT", "GITHUB_USER", "GITHUB_TOKEN", "LLM_API_BASE", "LLM_API_KEY", "LLM_MODEL", "WORKSPACE_ROOT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearServiceEnv(t)
	path := writeConfig(t, `
server:
  port: 9001
  secret: s3cret
github:
  owner: octo
  token: tok_abc
generator:
  model: custom-model
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Server.Secret != "s3cret" {
		t.Errorf("unexpected secret %q", cfg.Server.Secret)
	}
	if cfg.GitHub.Owner != "octo" {
		t.Errorf("unexpected owner %q", cfg.GitHub.Owner)
	}
	// Defaults fill the rest.
	if cfg.GitHub.APIBaseURL != DefaultAPIBaseURL {
		t.Errorf("expected default api base, got %q", cfg.GitHub.APIBaseURL)
	}
	if cfg.Generator.Model != "custom-model" {
		t.Errorf("expected file model kept, got %q", cfg.Generator.Model)
	}
	if cfg.Workspace.Root != DefaultWorkspaceRoot {
		t.Errorf("expected default workspace root, got %q", cfg.Workspace.Root)
	}
}

func TestLoadEnvExpansionAndOverride(t *testing.T) {
	clearServiceEnv(t)
	t.Setenv("APP_SECRET", "env-secret")
	t.Setenv("GITHUB_USER", "envowner")
	t.Setenv("GITHUB_TOKEN", "envtoken")
	t.Setenv("LLM_MODEL", "env-model")

	path := writeConfig(t, `
server:
  secret: ${APP_SECRET}
github:
  owner: fileowner
  token: filetoken
generator:
  model: file-model
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Secret != "env-secret" {
		t.Errorf("expected ${APP_SECRET} expansion, got %q", cfg.Server.Secret)
	}
	// Environment wins over file values.
	if cfg.GitHub.Owner != "envowner" {
		t.Errorf("expected env owner override, got %q", cfg.GitHub.Owner)
	}
	if cfg.Generator.Model != "env-model" {
		t.Errorf("expected env model override, got %q", cfg.Generator.Model)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	clearServiceEnv(t)
	t.Setenv("APP_SECRET", "s")
	t.Setenv("GITHUB_USER", "o")
	t.Setenv("GITHUB_TOKEN", "t")
	t.Setenv("PORT", "8123")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load without file: %v", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("expected PORT override 8123, got %d", cfg.Server.Port)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearServiceEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidateFailures(t *testing.T) {
	clearServiceEnv(t)
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"missing secret", "github: {owner: o, token: t}", "server.secret"},
		{"missing owner", "server: {secret: s}\ngithub: {token: t}", "github.owner"},
		{"missing token", "server: {secret: s}\ngithub: {owner: o}", "github.token"},
		{"bad backoff", "server: {secret: s}\ngithub: {owner: o, token: t}\nnotify: {retry: {backoff: sometimes}}", "backoff"},
		{"bad duration", "server: {secret: s}\ngithub: {owner: o, token: t}\ngenerator: {timeout: soon}", "generator.timeout"},
		{"delay ordering", "server: {secret: s}\ngithub: {owner: o, token: t}\nnotify: {retry: {initial_delay: 10s, max_delay: 1s}}", "max_delay"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.yaml)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got: %v", tc.want, err)
			}
		})
	}
}

func TestDurationAccessors(t *testing.T) {
	var g GeneratorConfig
	if d := g.RequestTimeout(); d != 60*time.Second {
		t.Errorf("expected 60s default, got %v", d)
	}
	g.Timeout = "5s"
	if d := g.RequestTimeout(); d != 5*time.Second {
		t.Errorf("expected 5s, got %v", d)
	}

	var j JournalConfig
	if !j.IsEnabled() {
		t.Error("journal should default to enabled")
	}
	off := false
	j.Enabled = &off
	if j.IsEnabled() {
		t.Error("journal should be disabled")
	}
	if w := (JournalConfig{}).RetentionWindow(); w != 30*24*time.Hour {
		t.Errorf("expected 720h default retention, got %v", w)
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pageforge.yaml")
	if err := Init(path, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := Init(path, false); err == nil {
		t.Fatal("expected error when file exists and force is false")
	}
	if err := Init(path, true); err != nil {
		t.Fatalf("init --force: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read generated config: %v", err)
	}
	if !strings.Contains(string(data), "github") {
		t.Errorf("generated config missing github section: %s", data)
	}
}
