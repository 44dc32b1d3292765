package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardStatus describes where a card is in its learning lifecycle.
type CardStatus string

// Possible card status values.
const (
	CardStatusNew       CardStatus = "new"
	CardStatusLearning  CardStatus = "learning"
	CardStatusReview    CardStatus = "review"
	CardStatusGraduated CardStatus = "graduated"
	CardStatusSuspended CardStatus = "suspended"
)

// Assessment represents the learner's self-reported recall quality for
// a single review.
type Assessment string

// Possible assessment values, ordered from complete failure to effortless
// recall.
const (
	AssessmentForgot  Assessment = "forgot"
	AssessmentHard    Assessment = "hard"
	AssessmentGood    Assessment = "good"
	AssessmentEasy    Assessment = "easy"
	AssessmentPerfect Assessment = "perfect"
)

// Card-specific validation errors.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardKeywordEmpty is returned when a card's keyword reference is empty.
	ErrCardKeywordEmpty = errors.New("card keyword ID cannot be empty")

	// ErrCardWordEmpty is returned when a card's word is empty.
	ErrCardWordEmpty = errors.New("card word cannot be empty")

	// ErrCardTranslationEmpty is returned when a card's translation is empty.
	ErrCardTranslationEmpty = errors.New("card translation cannot be empty")

	// ErrCardEaseFactorRange is returned when the ease factor is outside [1.3, 2.5].
	ErrCardEaseFactorRange = errors.New("card ease factor must be between 1.3 and 2.5")

	// ErrCardIntervalRange is returned when the interval is less than one day.
	ErrCardIntervalRange = errors.New("card interval must be at least 1 day")

	// ErrCardRepetitionsRange is returned when the repetition count is negative.
	ErrCardRepetitionsRange = errors.New("card repetitions cannot be negative")

	// ErrCardStatusInvalid is returned when the status is not a known value.
	ErrCardStatusInvalid = errors.New("card status is not a valid value")

	// ErrContextDifficultyRange is returned when the learning context difficulty
	// is outside 1-5.
	ErrContextDifficultyRange = errors.New("learning context difficulty must be between 1 and 5")

	// ErrContextPriorityRange is returned when the learning context priority
	// is outside 1-10.
	ErrContextPriorityRange = errors.New("learning context priority must be between 1 and 10")
)

// LearningContext is static metadata describing where a card came from and
// how important it is. It is set at creation and never mutated by reviews.
type LearningContext struct {
	SourceStoryID string `json:"source_story_id,omitempty"`
	Interest      string `json:"interest,omitempty"`
	Difficulty    int    `json:"difficulty"` // 1-5
	Priority      int    `json:"priority"`   // 1-10
}

// Validate checks the learning context ranges.
func (c LearningContext) Validate() error {
	if c.Difficulty < 1 || c.Difficulty > 5 {
		return ErrContextDifficultyRange
	}
	if c.Priority < 1 || c.Priority > 10 {
		return ErrContextPriorityRange
	}
	return nil
}

// UserFeedback is an optional subjective note attached to a card after a
// review. It never influences scheduling.
type UserFeedback struct {
	Difficulty int    `json:"difficulty,omitempty"`
	Confidence int    `json:"confidence,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Card is a single learned vocabulary item together with its spaced
// repetition state. Scheduling fields (ease factor, interval, repetitions,
// next review date, status) are owned by the SRS algorithm and must only
// change through it.
type Card struct {
	ID          uuid.UUID `json:"id"`
	KeywordID   string    `json:"keyword_id"`
	Word        string    `json:"word"`
	Translation string    `json:"translation"`
	AudioRef    string    `json:"audio_ref,omitempty"`
	ImageRef    string    `json:"image_ref,omitempty"`

	EaseFactor   float64    `json:"ease_factor"` // 1.3-2.5
	Interval     int        `json:"interval"`    // days
	Repetitions  int        `json:"repetitions"` // consecutive passes, reset on failure
	NextReviewAt time.Time  `json:"next_review_at"`
	Status       CardStatus `json:"status"`

	TotalReviews          int     `json:"total_reviews"`
	CorrectReviews        int     `json:"correct_reviews"`
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`

	Context  LearningContext `json:"context"`
	Feedback *UserFeedback   `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a card in the "new" status, available for review
// immediately. The initial scheduling state follows SM-2 defaults: ease
// factor 2.5, one-day interval, zero repetitions.
func NewCard(
	keywordID, word, translation, audioRef, imageRef string,
	lc LearningContext,
	now time.Time,
) (*Card, error) {
	card := &Card{
		ID:           uuid.New(),
		KeywordID:    keywordID,
		Word:         word,
		Translation:  translation,
		AudioRef:     audioRef,
		ImageRef:     imageRef,
		EaseFactor:   2.5,
		Interval:     1,
		Repetitions:  0,
		NextReviewAt: StartOfDay(now),
		Status:       CardStatusNew,
		Context:      lc,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.KeywordID == "" {
		return ErrCardKeywordEmpty
	}
	if c.Word == "" {
		return ErrCardWordEmpty
	}
	if c.Translation == "" {
		return ErrCardTranslationEmpty
	}
	if c.EaseFactor < 1.3 || c.EaseFactor > 2.5 {
		return ErrCardEaseFactorRange
	}
	if c.Interval < 1 {
		return ErrCardIntervalRange
	}
	if c.Repetitions < 0 {
		return ErrCardRepetitionsRange
	}
	if !c.Status.Valid() {
		return ErrCardStatusInvalid
	}
	return c.Context.Validate()
}

// Clone returns a deep copy of the card. Services hand out clones so
// callers cannot mutate stored state.
func (c *Card) Clone() *Card {
	dup := *c
	if c.Feedback != nil {
		fb := *c.Feedback
		dup.Feedback = &fb
	}
	return &dup
}

// Accuracy returns the lifetime fraction of correct reviews in [0, 1].
// Cards that have never been reviewed report 0.
func (c *Card) Accuracy() float64 {
	if c.TotalReviews == 0 {
		return 0
	}
	return float64(c.CorrectReviews) / float64(c.TotalReviews)
}

// Valid reports whether the status is one of the known lifecycle values.
func (s CardStatus) Valid() bool {
	switch s {
	case CardStatusNew, CardStatusLearning, CardStatusReview,
		CardStatusGraduated, CardStatusSuspended:
		return true
	default:
		return false
	}
}

// Quality maps an assessment onto the SM-2 quality scale.
// The boolean is false for unknown assessments.
func (a Assessment) Quality() (int, bool) {
	switch a {
	case AssessmentForgot:
		return 0, true
	case AssessmentHard:
		return 3, true
	case AssessmentGood:
		return 4, true
	case AssessmentEasy:
		return 5, true
	case AssessmentPerfect:
		return 5, true
	default:
		return 0, false
	}
}

// Valid reports whether the assessment is a known value.
func (a Assessment) Valid() bool {
	_, ok := a.Quality()
	return ok
}

// StartOfDay normalizes a time to 00:00:00 UTC on its calendar day.
// All due dates are stored at day granularity.
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
