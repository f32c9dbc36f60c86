package generate

import (
	"context"
	"log/slog"

	"pageforge/internal/config"
	"pageforge/internal/logfields"
)

// Source identifies which path produced the site files.
type Source string

const (
	// SourceLLM marks files proposed by the configured provider.
	SourceLLM Source = "llm"
	// SourceFallback marks files from the built-in template.
	SourceFallback Source = "fallback"
)

// Result describes a finished generation.
type Result struct {
	Files  []File
	Source Source
}

// Generator materializes a site into a repository tree, degrading to the
// built-in template whenever the provider cannot deliver.
type Generator struct {
	provider Provider
}

// NewGenerator creates a generator from configuration. Without API
// credentials the provider stays nil and every build uses the built-in
// template.
func NewGenerator(cfg config.GeneratorConfig) *Generator {
	if !cfg.Enabled() {
		return &Generator{}
	}
	return &Generator{provider: NewOpenAIProvider(cfg)}
}

// NewGeneratorWithProvider creates a generator around an explicit
// provider.
func NewGeneratorWithProvider(p Provider) *Generator { return &Generator{provider: p} }

// Generate writes the site for brief into dir and returns what was
// written. The provider may fail or misbehave; the result then comes
// from the built-in template with defaultImageURL baked in. Only a
// filesystem problem makes Generate return an error.
func (g *Generator) Generate(ctx context.Context, dir, brief, defaultImageURL string) (Result, error) {
	files, source := g.propose(ctx, brief, defaultImageURL)

	if err := WriteFiles(dir, files); err != nil {
		return Result{}, err
	}
	if err := AddWorkflow(dir); err != nil {
		return Result{}, err
	}

	slog.Info("Site files generated",
		logfields.Path(dir),
		logfields.FileCount(len(files)),
		slog.String("source", string(source)))
	return Result{Files: files, Source: source}, nil
}

func (g *Generator) propose(ctx context.Context, brief, defaultImageURL string) ([]File, Source) {
	if g.provider == nil {
		slog.Debug("Generation provider not configured, using built-in template")
		return builtinTemplate(defaultImageURL), SourceFallback
	}

	files, err := g.provider.Propose(ctx, brief)
	switch {
	case err != nil:
		slog.Warn("Content generation failed, using built-in template", logfields.Error(err))
	case len(files) == 0:
		slog.Warn("Provider proposed no files, using built-in template")
	case !validFiles(files):
		slog.Warn("Provider proposed an unsafe file path, using built-in template")
	default:
		return files, SourceLLM
	}
	return builtinTemplate(defaultImageURL), SourceFallback
}
