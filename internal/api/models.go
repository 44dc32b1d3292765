package api

import (
	"time"

	"github.com/wordtrail/wordtrail/internal/domain"
)

// AddCardRequest is the payload for creating a card.
type AddCardRequest struct {
	KeywordID     string `json:"keyword_id"     validate:"required"`
	Word          string `json:"word"           validate:"required"`
	Translation   string `json:"translation"    validate:"required"`
	AudioRef      string `json:"audio_ref,omitempty"`
	ImageRef      string `json:"image_ref,omitempty"`
	SourceStoryID string `json:"source_story_id,omitempty"`
	Interest      string `json:"interest,omitempty"`
	Difficulty    int    `json:"difficulty"     validate:"required,min=1,max=5"`
	Priority      int    `json:"priority"       validate:"required,min=1,max=10"`
}

// PostponeRequest is the payload for postponing a card's next review.
type PostponeRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// StartSessionRequest is the payload for starting a review session.
// Zero limits fall back to the configured defaults.
type StartSessionRequest struct {
	Type               string `json:"type"                 validate:"required,oneof=daily catch_up practice focused"`
	TargetCards        int    `json:"target_cards"         validate:"omitempty,min=1"`
	MaxDurationMinutes int    `json:"max_duration_minutes" validate:"omitempty,min=1"`
}

// ReviewCardRequest is the payload for reviewing a card within a session.
type ReviewCardRequest struct {
	CardID         string           `json:"card_id"          validate:"required,uuid"`
	Assessment     string           `json:"assessment"       validate:"required,oneof=forgot hard good easy perfect"`
	ResponseTimeMs float64          `json:"response_time_ms" validate:"min=0"`
	Feedback       *FeedbackPayload `json:"feedback,omitempty"`
}

// FeedbackPayload carries optional subjective feedback with a review.
type FeedbackPayload struct {
	Difficulty int    `json:"difficulty,omitempty" validate:"omitempty,min=1,max=5"`
	Confidence int    `json:"confidence,omitempty" validate:"omitempty,min=1,max=5"`
	Notes      string `json:"notes,omitempty"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID                    string    `json:"id"`
	KeywordID             string    `json:"keyword_id"`
	Word                  string    `json:"word"`
	Translation           string    `json:"translation"`
	AudioRef              string    `json:"audio_ref,omitempty"`
	ImageRef              string    `json:"image_ref,omitempty"`
	Status                string    `json:"status"`
	EaseFactor            float64   `json:"ease_factor"`
	Interval              int       `json:"interval"`
	Repetitions           int       `json:"repetitions"`
	NextReviewAt          time.Time `json:"next_review_at"`
	TotalReviews          int       `json:"total_reviews"`
	CorrectReviews        int       `json:"correct_reviews"`
	AverageResponseTimeMs float64   `json:"average_response_time_ms"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// NewCardResponse maps a domain card to its API representation.
func NewCardResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:                    card.ID.String(),
		KeywordID:             card.KeywordID,
		Word:                  card.Word,
		Translation:           card.Translation,
		AudioRef:              card.AudioRef,
		ImageRef:              card.ImageRef,
		Status:                string(card.Status),
		EaseFactor:            card.EaseFactor,
		Interval:              card.Interval,
		Repetitions:           card.Repetitions,
		NextReviewAt:          card.NextReviewAt,
		TotalReviews:          card.TotalReviews,
		CorrectReviews:        card.CorrectReviews,
		AverageResponseTimeMs: card.AverageResponseTimeMs,
		CreatedAt:             card.CreatedAt,
		UpdatedAt:             card.UpdatedAt,
	}
}

// NewCardListResponse maps a slice of domain cards.
func NewCardListResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, card := range cards {
		out[i] = NewCardResponse(card)
	}
	return out
}

// SessionResponse represents the response data for a review session.
type SessionResponse struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"user_id"`
	Type                  string     `json:"type"`
	State                 string     `json:"state"`
	StartedAt             time.Time  `json:"started_at"`
	EndedAt               *time.Time `json:"ended_at,omitempty"`
	TargetCards           int        `json:"target_cards"`
	MaxDurationMinutes    int        `json:"max_duration_minutes"`
	CardsReviewed         int        `json:"cards_reviewed"`
	CorrectAnswers        int        `json:"correct_answers"`
	AverageResponseTimeMs float64    `json:"average_response_time_ms"`
	AccuracyRate          float64    `json:"accuracy_rate"`
	CompletionRate        float64    `json:"completion_rate"`
	EngagementScore       float64    `json:"engagement_score"`
	NewCards              int        `json:"new_cards"`
	ReviewCards           int        `json:"review_cards"`
	GraduatedCards        int        `json:"graduated_cards"`
	Quality               string     `json:"quality,omitempty"`
}

// NewSessionResponse maps a domain session to its API representation.
func NewSessionResponse(session *domain.ReviewSession) SessionResponse {
	return SessionResponse{
		ID:                    session.ID.String(),
		UserID:                session.UserID.String(),
		Type:                  string(session.Type),
		State:                 string(session.State),
		StartedAt:             session.StartedAt,
		EndedAt:               session.EndedAt,
		TargetCards:           session.Config.TargetCards,
		MaxDurationMinutes:    session.Config.MaxDurationMinutes,
		CardsReviewed:         session.CardsReviewed,
		CorrectAnswers:        session.CorrectAnswers,
		AverageResponseTimeMs: session.AverageResponseTimeMs,
		AccuracyRate:          session.AccuracyRate,
		CompletionRate:        session.CompletionRate,
		EngagementScore:       session.EngagementScore,
		NewCards:              session.NewCards,
		ReviewCards:           session.ReviewCards,
		GraduatedCards:        session.GraduatedCards,
		Quality:               string(session.Quality),
	}
}
