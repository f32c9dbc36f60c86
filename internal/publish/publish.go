// Package publish records a finished tree as a commit and pushes it to
// the forge, which triggers the Pages deployment.
package publish

import (
	"context"
	"fmt"
	"log/slog"

	"pageforge/internal/foundation/errors"
	"pageforge/internal/git"
	"pageforge/internal/logfields"
)

// CommitMessage is carried by every generated build commit.
const CommitMessage = "auto: build"

// Publisher commits and pushes generated trees.
type Publisher struct {
	git git.VCS
}

// NewPublisher creates a publisher over the given VCS implementation.
func NewPublisher(gs git.VCS) *Publisher { return &Publisher{git: gs} }

// CommitAndPush stages everything under dir, commits it (empty commits
// included, so unchanged rebuilds still deploy) and pushes main to the
// named remote. It returns the commit hash now at HEAD.
func (p *Publisher) CommitAndPush(ctx context.Context, dir, remote string) (string, error) {
	if err := p.git.Stage(dir); err != nil {
		return "", publishFailure(dir, "stage changes", err)
	}
	if _, err := p.git.Commit(dir, CommitMessage); err != nil {
		return "", publishFailure(dir, "commit build", err)
	}
	if err := p.git.Push(ctx, dir, remote); err != nil {
		return "", publishFailure(dir, "push to remote", err)
	}
	sha, err := p.git.CurrentCommit(dir)
	if err != nil {
		return "", publishFailure(dir, "resolve pushed commit", err)
	}

	slog.Info("Build published", logfields.Path(dir), logfields.Commit(sha))
	return sha, nil
}

// publishFailure classifies a publish error. The cause stays wrapped for
// the logs; the classified message is safe to surface to callers.
func publishFailure(dir, step string, err error) error {
	return errors.WrapError(err, errors.CategoryPublish, fmt.Sprintf("%s at %s", step, dir)).
		WithSeverity(errors.SeverityFatal).
		Build()
}
