package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the study engine.
const (
	// TypeSessionCompleted is emitted after a session's terminal actions
	// ran. The payload is a session outcome summary.
	TypeSessionCompleted = "session.completed"

	// TypeFlushFailed is emitted when the terminal batch flush could not
	// be delivered to the persistence layer. Local state already reflects
	// the computed values; redelivery is the subscriber's decision.
	TypeFlushFailed = "flush.failed"

	// TypeProgressWriteFailed is emitted when the streak or activity writes
	// at session end could not be persisted. The session itself finished
	// normally; redelivery is the subscriber's decision.
	TypeProgressWriteFailed = "progress.write_failed"
)

// StudyEvent represents something that happened in the study engine.
type StudyEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *StudyEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewStudyEvent creates a new StudyEvent with the specified type and payload.
func NewStudyEvent(eventType string, payload interface{}) (*StudyEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &StudyEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *StudyEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of
// handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *StudyEvent) error
}
