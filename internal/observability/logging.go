// Package observability carries per-build logging context through the
// pipeline. Attributes attached to the context (build ID, repository,
// stage) appear on every log line emitted below that point, so stage
// code logs plain messages without re-threading identifiers.
package observability

import (
	"context"
	"log/slog"

	"pageforge/internal/logfields"
)

// LogContext holds structured logging context information.
type LogContext struct {
	BuildID    string
	Repository string
	Task       string
	Stage      string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithBuild attaches the build identity to the context.
func WithBuild(ctx context.Context, buildID, repository, taskName string) context.Context {
	lc := extractLogContext(ctx)
	lc.BuildID = buildID
	lc.Repository = repository
	lc.Task = taskName
	return context.WithValue(ctx, logContextKey, lc)
}

// WithStage marks the pipeline stage the context is passing through.
func WithStage(ctx context.Context, stage string) context.Context {
	lc := extractLogContext(ctx)
	lc.Stage = stage
	return context.WithValue(ctx, logContextKey, lc)
}

// extractLogContext retrieves or creates a LogContext from the context.
func extractLogContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

// getLogAttrs returns slog attributes from the context's LogContext.
func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := extractLogContext(ctx)
	attrs := []slog.Attr{}

	if lc.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(lc.BuildID))
	}
	if lc.Repository != "" {
		attrs = append(attrs, logfields.Repository(lc.Repository))
	}
	if lc.Task != "" {
		attrs = append(attrs, logfields.Task(lc.Task))
	}
	if lc.Stage != "" {
		attrs = append(attrs, logfields.Stage(lc.Stage))
	}

	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelInfo, msg, append(getLogAttrs(ctx), attrs...)...)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelWarn, msg, append(getLogAttrs(ctx), attrs...)...)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelError, msg, append(getLogAttrs(ctx), attrs...)...)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	slog.LogAttrs(ctx, slog.LevelDebug, msg, append(getLogAttrs(ctx), attrs...)...)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	return extractLogContext(ctx)
}
