package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionType describes why a review session was started.
type SessionType string

// Possible session type values.
const (
	SessionTypeDaily    SessionType = "daily"
	SessionTypeCatchUp  SessionType = "catch_up"
	SessionTypePractice SessionType = "practice"
	SessionTypeFocused  SessionType = "focused"
)

// SessionState tracks the session lifecycle. A session is created active
// and leaves that state exactly once, through End or Abandon.
type SessionState string

// Possible session state values.
const (
	SessionStateActive    SessionState = "active"
	SessionStateEnded     SessionState = "ended"
	SessionStateAbandoned SessionState = "abandoned"
)

// SessionQuality is the overall grade computed when a session ends.
type SessionQuality string

// Possible session quality values.
const (
	SessionQualityPoor      SessionQuality = "poor"
	SessionQualityAverage   SessionQuality = "average"
	SessionQualityGood      SessionQuality = "good"
	SessionQualityExcellent SessionQuality = "excellent"
)

// Session-specific validation errors.
var (
	// ErrSessionIDEmpty is returned when a session ID is empty or nil.
	ErrSessionIDEmpty = errors.New("session ID cannot be empty")

	// ErrSessionUserIDEmpty is returned when a session's user ID is empty or nil.
	ErrSessionUserIDEmpty = errors.New("session user ID cannot be empty")

	// ErrSessionTypeInvalid is returned when the session type is unknown.
	ErrSessionTypeInvalid = errors.New("session type is not a valid value")

	// ErrSessionTargetCardsRange is returned when the card target is not positive.
	ErrSessionTargetCardsRange = errors.New("session target cards must be at least 1")

	// ErrSessionMaxDurationRange is returned when the duration limit is not positive.
	ErrSessionMaxDurationRange = errors.New("session max duration must be at least 1 minute")
)

// SessionConfig holds the bounds of a review session, fixed at creation.
type SessionConfig struct {
	TargetCards        int `json:"target_cards"`
	MaxDurationMinutes int `json:"max_duration_minutes"`
}

// Validate checks the session configuration ranges.
func (c SessionConfig) Validate() error {
	if c.TargetCards < 1 {
		return ErrSessionTargetCardsRange
	}
	if c.MaxDurationMinutes < 1 {
		return ErrSessionMaxDurationRange
	}
	return nil
}

// ReviewSession is one bounded practice run. Aggregates are updated per
// reviewed card while the session is active and frozen once it ends.
// A session references reviewed cards by ID only; it never owns a card.
type ReviewSession struct {
	ID     uuid.UUID    `json:"id"`
	UserID uuid.UUID    `json:"user_id"`
	Type   SessionType  `json:"type"`
	State  SessionState `json:"state"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`

	Config SessionConfig `json:"config"`

	CardsReviewed         int     `json:"cards_reviewed"`
	CorrectAnswers        int     `json:"correct_answers"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`
	AccuracyRate          float64 `json:"accuracy_rate"`   // 0-100
	CompletionRate        float64 `json:"completion_rate"` // 0-100, may exceed 100
	EngagementScore       float64 `json:"engagement_score"` // 0-100

	NewCards       int `json:"new_cards"`
	ReviewCards    int `json:"review_cards"`
	GraduatedCards int `json:"graduated_cards"`

	Quality SessionQuality `json:"quality,omitempty"` // set by End only

	ReviewedCardIDs []uuid.UUID `json:"reviewed_card_ids,omitempty"`
}

// NewReviewSession creates an active session for the given user.
func NewReviewSession(
	userID uuid.UUID,
	sessionType SessionType,
	cfg SessionConfig,
	now time.Time,
) (*ReviewSession, error) {
	session := &ReviewSession{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      sessionType,
		State:     SessionStateActive,
		StartedAt: now.UTC(),
		Config:    cfg,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the ReviewSession has valid data.
func (s *ReviewSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}
	if !s.Type.Valid() {
		return ErrSessionTypeInvalid
	}
	return s.Config.Validate()
}

// Clone returns a deep copy of the session.
func (s *ReviewSession) Clone() *ReviewSession {
	dup := *s
	if s.EndedAt != nil {
		t := *s.EndedAt
		dup.EndedAt = &t
	}
	if s.ReviewedCardIDs != nil {
		dup.ReviewedCardIDs = make([]uuid.UUID, len(s.ReviewedCardIDs))
		copy(dup.ReviewedCardIDs, s.ReviewedCardIDs)
	}
	return &dup
}

// Elapsed returns how long the session has been running at the given time,
// or its final duration once ended.
func (s *ReviewSession) Elapsed(now time.Time) time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return now.UTC().Sub(s.StartedAt)
}

// OverTime reports whether the session has exceeded its configured
// duration limit at the given time. Checked by polling, never by timer.
func (s *ReviewSession) OverTime(now time.Time) bool {
	return s.Elapsed(now) > time.Duration(s.Config.MaxDurationMinutes)*time.Minute
}

// Valid reports whether the session type is a known value.
func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeDaily, SessionTypeCatchUp, SessionTypePractice, SessionTypeFocused:
		return true
	default:
		return false
	}
}
