package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// loadDotEnv loads .env/.env.local into the process environment without
// overriding variables that are already set. Missing files are fine.
func loadDotEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		_ = godotenv.Load(name)
	}
}

// applyEnvOverrides maps well-known environment variables onto the config.
// A bare environment is enough to run the service without a YAML file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("APP_SECRET"); v != "" {
		cfg.Server.Secret = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("GITHUB_USER"); v != "" {
		cfg.GitHub.Owner = v
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv("LLM_API_BASE"); v != "" {
		cfg.Generator.APIBase = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.Generator.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.Generator.Model = v
	}
	if v := os.Getenv("WORKSPACE_ROOT"); v != "" {
		cfg.Workspace.Root = v
	}
}
