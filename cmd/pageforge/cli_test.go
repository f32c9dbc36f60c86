package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pageforge/internal/config"
)

func TestRunInitWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pageforge.yaml")

	if err := runInit(path, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), "server:") {
		t.Errorf("config missing server section: %s", data)
	}

	if err := runInit(path, false); err == nil {
		t.Error("expected error for existing file without --force")
	}
	if err := runInit(path, true); err != nil {
		t.Errorf("forced init: %v", err)
	}
}

func TestRunBuildRejectsBadRequestFile(t *testing.T) {
	cfg := &config.Config{
		Server:    config.ServerConfig{Secret: "s3cret"},
		GitHub:    config.GitHubConfig{Owner: "octo", Token: "tok"},
		Workspace: config.WorkspaceConfig{Root: t.TempDir()},
	}

	if err := runBuild(cfg, filepath.Join(t.TempDir(), "missing.json"), ""); err == nil {
		t.Error("expected error for missing request file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runBuild(cfg, bad, ""); err == nil || !strings.Contains(err.Error(), "JSON") {
		t.Errorf("err = %v, want JSON parse failure", err)
	}

	incomplete := filepath.Join(t.TempDir(), "incomplete.json")
	if err := os.WriteFile(incomplete, []byte(`{"email":"dev@example.com"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runBuild(cfg, incomplete, ""); err == nil || !strings.Contains(err.Error(), "invalid request") {
		t.Errorf("err = %v, want validation failure", err)
	}
}
