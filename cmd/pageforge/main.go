package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"pageforge/internal/config"
	"pageforge/internal/foundation/errors"
	"pageforge/internal/version"
)

var CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"pageforge.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `short:"V" help:"Print version and exit"`

	Serve struct{} `cmd:"" help:"Start the HTTP listeners and serve build requests"`

	Build struct {
		Request string `short:"r" required:"" help:"Path to a build request JSON file"`
		Output  string `short:"o" help:"Write the build result to this file instead of stdout"`
	} `cmd:"" help:"Run a single build from a request file"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Vars{"version": version.Version})

	switch kctx.Command() {
	case "serve":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		if err := runServe(cfg); err != nil {
			errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default()).HandleError(err)
		}
	case "build":
		cfg := mustLoadConfig()
		setupLogging(cfg)
		if err := runBuild(cfg, CLI.Build.Request, CLI.Build.Output); err != nil {
			errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default()).HandleError(err)
		}
	case "init":
		setupDefaultLogging()
		if err := runInit(CLI.Config, CLI.Init.Force); err != nil {
			errors.NewCLIErrorAdapter(CLI.Verbose, slog.Default()).HandleError(err)
		}
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		setupDefaultLogging()
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func setupDefaultLogging() {
	level := slog.LevelInfo
	if CLI.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// setupLogging maps the configured level and format onto slog. The
// --verbose flag forces debug regardless of configuration.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch config.NormalizeLogLevel(string(cfg.Logging.Level)) {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.NormalizeLogFormat(string(cfg.Logging.Format)) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func runInit(configPath string, force bool) error {
	slog.Info("Initializing configuration", "path", configPath, "force", force)
	return config.Init(configPath, force)
}
