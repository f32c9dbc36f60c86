package journal

import (
	"encoding/json"
	"time"
)

// Event types emitted by the build pipeline, in pipeline order.
const (
	EventRequestReceived       = "RequestReceived"
	EventGenerationFinished    = "GenerationFinished"
	EventRepositoryProvisioned = "RepositoryProvisioned"
	EventBuildPublished        = "BuildPublished"
	EventCallbackFinished      = "CallbackFinished"
	EventBuildFinished         = "BuildFinished"
)

// StatusRunning marks a build whose BuildFinished event has not arrived.
const StatusRunning = "running"

// StatusFailed marks a build that ended with a pipeline error.
const StatusFailed = "failed"

// RequestReceivedPayload records the accepted build request.
type RequestReceivedPayload struct {
	Task  string `json:"task"`
	Round int    `json:"round"`
	Nonce string `json:"nonce"`
}

// GenerationFinishedPayload records how the site files came to be.
type GenerationFinishedPayload struct {
	Source     string `json:"source"`
	FileCount  int    `json:"file_count"`
	DurationMS int64  `json:"duration_ms"`
}

// RepositoryProvisionedPayload records the forge-side repository.
type RepositoryProvisionedPayload struct {
	RepoURL string `json:"repo_url"`
}

// BuildPublishedPayload records the pushed commit.
type BuildPublishedPayload struct {
	Commit     string `json:"commit"`
	DurationMS int64  `json:"duration_ms"`
}

// CallbackFinishedPayload records the evaluation callback outcome.
type CallbackFinishedPayload struct {
	Delivered bool   `json:"delivered"`
	Note      string `json:"note,omitempty"`
}

// BuildFinishedPayload closes a build with its final outcome.
type BuildFinishedPayload struct {
	Status     string `json:"status"`
	Commit     string `json:"commit,omitempty"`
	PagesURL   string `json:"pages_url,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Note       string `json:"note,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BuildSummary is the read model behind the recent-builds endpoint.
type BuildSummary struct {
	BuildID    string     `json:"build_id"`
	Repository string     `json:"repository"`
	Task       string     `json:"task,omitempty"`
	Round      int        `json:"round,omitempty"`
	Status     string     `json:"status"`
	Source     string     `json:"source,omitempty"`
	Commit     string     `json:"commit,omitempty"`
	PagesURL   string     `json:"pages_url,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Note       string     `json:"note,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// summarize folds a build's events into its summary. Unparseable
// payloads are skipped; the summary stays at whatever the readable
// events establish.
func summarize(events []Event) BuildSummary {
	s := BuildSummary{Status: StatusRunning}
	for i, e := range events {
		if i == 0 {
			s.BuildID = e.BuildID
			s.Repository = e.Repository
			s.StartedAt = e.Timestamp
		}
		switch e.Type {
		case EventRequestReceived:
			var p RequestReceivedPayload
			if json.Unmarshal(e.Payload, &p) == nil {
				s.Task = p.Task
				s.Round = p.Round
			}
		case EventGenerationFinished:
			var p GenerationFinishedPayload
			if json.Unmarshal(e.Payload, &p) == nil {
				s.Source = p.Source
			}
		case EventBuildPublished:
			var p BuildPublishedPayload
			if json.Unmarshal(e.Payload, &p) == nil {
				s.Commit = p.Commit
			}
		case EventBuildFinished:
			var p BuildFinishedPayload
			if json.Unmarshal(e.Payload, &p) == nil {
				s.Status = p.Status
				if p.Commit != "" {
					s.Commit = p.Commit
				}
				s.PagesURL = p.PagesURL
				s.Note = p.Note
				s.Error = p.Error
			}
			finished := e.Timestamp
			s.FinishedAt = &finished
		}
	}
	return s
}
