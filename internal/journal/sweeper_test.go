package journal

import (
	"strings"
	"testing"
	"time"
)

func seedEvents(t *testing.T, store *SQLiteStore) {
	t.Helper()
	if err := Record(t.Context(), store, "b-1", "demo-app", EventRequestReceived,
		RequestReceivedPayload{Task: "demo/app", Round: 1, Nonce: "n-1"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Record(t.Context(), store, "b-1", "demo-app", EventBuildFinished,
		BuildFinishedPayload{Status: "ok", Commit: strings.Repeat("a", 40)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestSweepNowKeepsRecentEvents(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer store.Close()
	seedEvents(t, store)

	sweeper, err := NewSweeper(store, 24*time.Hour)
	if err != nil {
		t.Fatalf("sweeper: %v", err)
	}
	sweeper.SweepNow(t.Context())

	events, err := store.EventsForBuild(t.Context(), "b-1")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("events = %d, want 2 survivors", len(events))
	}
}

func TestSweepNowRemovesExpiredEvents(t *testing.T) {
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer store.Close()
	seedEvents(t, store)

	// A negative retention puts the cutoff in the future, so every
	// recorded event counts as expired.
	sweeper, err := NewSweeper(store, -time.Second)
	if err != nil {
		t.Fatalf("sweeper: %v", err)
	}
	sweeper.SweepNow(t.Context())

	events, err := store.EventsForBuild(t.Context(), "b-1")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("events = %d, want all pruned", len(events))
	}
}
