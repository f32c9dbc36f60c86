// Package notify delivers the build result to the evaluation callback.
//
// Delivery is best effort: attempts are retried with backoff, and when
// every attempt fails the build still succeeds. The caller only learns
// about the failure through the returned note.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"pageforge/internal/config"
	"pageforge/internal/logfields"
	"pageforge/internal/retry"
)

// Notifier posts build results to callback URLs.
type Notifier struct {
	client  *http.Client
	policy  retry.Policy
	timeout time.Duration
}

// NewNotifier creates a notifier from configuration.
func NewNotifier(cfg config.NotifyConfig) *Notifier {
	maxRetries := cfg.Retry.MaxRetries
	if maxRetries == 0 {
		maxRetries = -1 // unset, take the policy default
	}
	mode := config.NormalizeRetryBackoff(string(cfg.Retry.Backoff))
	policy := retry.NewPolicy(mode, cfg.Retry.InitialDelayDuration(), cfg.Retry.MaxDelayDuration(), maxRetries)
	if cfg.Retry.Jitter {
		policy = policy.WithJitter()
	}
	return &Notifier{
		client:  &http.Client{},
		policy:  policy,
		timeout: cfg.AttemptTimeout(),
	}
}

// Deliver posts payload as JSON to url, retrying per the configured
// policy. It reports whether delivery succeeded; on failure the note
// explains what happened and is safe to return to the caller.
func (n *Notifier) Deliver(ctx context.Context, url string, payload any) (bool, string) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Sprintf("callback payload could not be encoded: %v", err)
	}

	attempts := n.policy.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return false, fmt.Sprintf("evaluation callback aborted after %d attempts: %v", attempt-1, ctx.Err())
			case <-time.After(n.policy.Delay(attempt - 1)):
			}
		}
		err := n.post(ctx, url, body)
		if err == nil {
			slog.Info("Callback delivered", logfields.URL(url), logfields.Attempt(attempt))
			return true, ""
		}
		lastErr = err
		slog.Warn("Callback attempt failed", logfields.URL(url), logfields.Attempt(attempt), logfields.Error(err))
	}
	return false, fmt.Sprintf("evaluation callback not delivered after %d attempts: %v", attempts, lastErr)
}

func (n *Notifier) post(ctx context.Context, url string, body []byte) error {
	attemptCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned %s", resp.Status)
	}
	return nil
}
