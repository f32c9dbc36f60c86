// Package events publishes build lifecycle events to NATS for external
// consumers such as evaluation dashboards. Publishing is optional and
// best effort; a failed publish is logged by the caller and never fails
// the build.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"pageforge/internal/config"
	"pageforge/internal/logfields"
)

// BuildEvent is the wire shape published for every finished build.
type BuildEvent struct {
	BuildID    string    `json:"build_id"`
	Repository string    `json:"repository"`
	Task       string    `json:"task"`
	Round      int       `json:"round"`
	Status     string    `json:"status"`
	Commit     string    `json:"commit,omitempty"`
	PagesURL   string    `json:"pages_url,omitempty"`
	Source     string    `json:"source,omitempty"`
	Note       string    `json:"note,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Publisher emits build events.
type Publisher interface {
	PublishBuildEvent(event *BuildEvent) error
	Close() error
}

// NATSPublisher publishes build events to a NATS subject. Events are
// fire-and-forget over core NATS; consumers that need replay can bind a
// stream to the subject on the broker side.
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

// NewNATSPublisher connects to the configured broker.
func NewNATSPublisher(cfg config.EventsConfig) (*NATSPublisher, error) {
	if !cfg.Enabled {
		return nil, fmt.Errorf("event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("pageforge"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	subject := cfg.Subject
	if subject == "" {
		subject = config.DefaultNATSSubject
	}

	slog.Info("NATS publisher initialized", logfields.URL(cfg.URL), slog.String("subject", subject))
	return &NATSPublisher{conn: conn, subject: subject}, nil
}

// PublishBuildEvent emits one event, stamping it with the current time.
func (p *NATSPublisher) PublishBuildEvent(event *BuildEvent) error {
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}

	slog.Debug("Published build event",
		logfields.BuildID(event.BuildID),
		logfields.Repository(event.Repository),
		logfields.Status(event.Status))
	return nil
}

// Close drains the connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}

// NoopPublisher satisfies Publisher when event publishing is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishBuildEvent(*BuildEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
