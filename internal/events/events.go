// Package events publishes user lifecycle events to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/rollcall/rollcall/internal/model"
)

// DefaultSubject is the subject user.created events go to.
const DefaultSubject = "users.created"

// EventTypeUserCreated tags events emitted after a user is stored.
const EventTypeUserCreated = "user.created"

// Publisher emits events about stored users.
type Publisher interface {
	PublishUserCreated(ctx context.Context, u *model.User) error
}

// Event is the envelope written to NATS.
type Event struct {
	EventID    string      `json:"event_id"`
	EventType  string      `json:"event_type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       *model.User `json:"data"`
}

// Decode parses a message published by NATSPublisher.
func Decode(data []byte) (*Event, error) {
	var evt Event
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if evt.EventType == "" || evt.Data == nil {
		return nil, fmt.Errorf("decode event: missing event_type or data")
	}
	return &evt, nil
}

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	Status() nats.Status
	Drain() error
}

// NATSPublisher publishes core NATS messages.
type NATSPublisher struct {
	nc      conn
	subject string
	logger  *slog.Logger
}

// NewNATS wraps an established connection. An empty subject uses
// DefaultSubject.
func NewNATS(nc *nats.Conn, subject string, logger *slog.Logger) *NATSPublisher {
	return newNATS(nc, subject, logger)
}

func newNATS(nc conn, subject string, logger *slog.Logger) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{
		nc:      nc,
		subject: subject,
		logger:  logger.With("component", "events.publisher"),
	}
}

// PublishUserCreated implements Publisher.
func (p *NATSPublisher) PublishUserCreated(_ context.Context, u *model.User) error {
	evt := Event{
		EventID:    uuid.NewString(),
		EventType:  EventTypeUserCreated,
		OccurredAt: time.Now().UTC(),
		Data:       u,
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", p.subject, err)
	}

	p.logger.Debug("event published",
		slog.String("subject", p.subject),
		slog.String("event_id", evt.EventID),
		slog.String("user_id", u.ID),
	)
	return nil
}

// Ping reports whether the NATS connection is up.
func (p *NATSPublisher) Ping(context.Context) error {
	if status := p.nc.Status(); status != nats.CONNECTED {
		return fmt.Errorf("nats connection is %s", status)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close(context.Context) error {
	return p.nc.Drain()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

// NewNoop returns a Publisher that discards events.
func NewNoop() *NoopPublisher {
	return &NoopPublisher{}
}

// PublishUserCreated is a no-op.
func (NoopPublisher) PublishUserCreated(context.Context, *model.User) error {
	return nil
}
