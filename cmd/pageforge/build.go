package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"pageforge/internal/build"
	"pageforge/internal/config"
	"pageforge/internal/task"
)

// runBuild executes one build from a request file. It exists for local
// testing and for replaying a request without the HTTP layer.
func runBuild(cfg *config.Config, requestPath, outputPath string) error {
	data, err := os.ReadFile(requestPath)
	if err != nil {
		return fmt.Errorf("failed to read request file: %w", err)
	}

	var req task.BuildRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("request file is not valid JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	svc, err := build.NewService(cfg)
	if err != nil {
		return fmt.Errorf("failed to create build service: %w", err)
	}
	if err := svc.Workspace().EnsureRoot(); err != nil {
		return fmt.Errorf("failed to prepare workspace: %w", err)
	}

	result, err := svc.Run(context.Background(), &req)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	out = append(out, '\n')

	if outputPath != "" {
		if err := os.WriteFile(outputPath, out, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		slog.Info("Build result written", slog.String("path", outputPath))
		return nil
	}

	if _, err := os.Stdout.Write(out); err != nil {
		return fmt.Errorf("failed to print result: %w", err)
	}
	return nil
}
