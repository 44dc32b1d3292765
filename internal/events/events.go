package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Progress event types.
const (
	// TypeReviewRecorded is emitted after every reviewed card.
	TypeReviewRecorded = "review_recorded"

	// TypeSessionEnded is emitted when a session is finalized.
	TypeSessionEnded = "session_ended"
)

// ProgressEvent is the aggregate delta sent to progress-tracking
// collaborators after a review or session end.
type ProgressEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// UserID identifies the learner the event belongs to
	UserID uuid.UUID `json:"user_id"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// ReviewRecordedPayload describes the scheduling outcome of one review.
type ReviewRecordedPayload struct {
	CardID     uuid.UUID `json:"card_id"`
	KeywordID  string    `json:"keyword_id"`
	Assessment string    `json:"assessment"`
	Interval   int       `json:"interval"`
	EaseFactor float64   `json:"ease_factor"`
	Accuracy   float64   `json:"accuracy"`
}

// SessionEndedPayload summarizes a finalized session.
type SessionEndedPayload struct {
	SessionID     uuid.UUID `json:"session_id"`
	CardsReviewed int       `json:"cards_reviewed"`
	AccuracyRate  float64   `json:"accuracy_rate"`
	Quality       string    `json:"quality"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressEvent creates a new ProgressEvent with the specified type and payload.
func NewProgressEvent(eventType string, userID uuid.UUID, payload interface{}) (*ProgressEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ProgressEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// ProgressHandler defines an interface for collaborators that consume
// progress events.
type ProgressHandler interface {
	// HandleProgress processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleProgress(ctx context.Context, event *ProgressEvent) error
}

// Emitter defines an interface for components that can emit progress
// events. Emit never returns an error: delivery failures are a collaborator
// concern, not a core concern.
type Emitter interface {
	// Emit publishes the given event to all registered handlers.
	Emit(ctx context.Context, event *ProgressEvent)
}
