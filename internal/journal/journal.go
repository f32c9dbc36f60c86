// Package journal persists the event trail of every build for the
// operational endpoints and retention sweeps. Journal failures never
// fail a build; callers log them and move on.
package journal

import (
	"context"
	"encoding/json"
	"time"

	"pageforge/internal/foundation/errors"
)

// Event is one recorded step of a build.
type Event struct {
	ID         int64           `json:"id"`
	BuildID    string          `json:"build_id"`
	Repository string          `json:"repository"`
	Type       string          `json:"type"`
	Timestamp  time.Time       `json:"timestamp"`
	Payload    json.RawMessage `json:"payload"`
}

// Store persists and retrieves build events.
type Store interface {
	// Append adds an event to the journal.
	Append(ctx context.Context, buildID, repository, eventType string, payload []byte) error

	// EventsForBuild returns all events of one build in append order.
	EventsForBuild(ctx context.Context, buildID string) ([]Event, error)

	// RecentBuilds summarizes the most recently started builds, newest
	// first.
	RecentBuilds(ctx context.Context, limit int) ([]BuildSummary, error)

	// Prune deletes events older than the cutoff and reports how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Close releases the underlying storage.
	Close() error
}

// Record encodes payload and appends it as an event. Failures come back
// classified as journal errors so callers can log and continue.
func Record(ctx context.Context, s Store, buildID, repository, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return errors.WrapError(err, errors.CategoryJournal, "encode journal payload").
			WithContext("event_type", eventType).
			Build()
	}
	if err := s.Append(ctx, buildID, repository, eventType, data); err != nil {
		return errors.WrapError(err, errors.CategoryJournal, "append journal event").
			WithContext("event_type", eventType).
			Build()
	}
	return nil
}

// NoopStore satisfies Store without persisting anything. It backs
// deployments that disable the journal.
type NoopStore struct{}

func (NoopStore) Append(context.Context, string, string, string, []byte) error { return nil }

func (NoopStore) EventsForBuild(context.Context, string) ([]Event, error) { return nil, nil }

func (NoopStore) RecentBuilds(context.Context, int) ([]BuildSummary, error) {
	return []BuildSummary{}, nil
}

func (NoopStore) Prune(context.Context, time.Time) (int64, error) { return 0, nil }

func (NoopStore) Close() error { return nil }
