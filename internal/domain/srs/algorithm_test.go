package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrail/wordtrail/internal/domain"
)

func newTestCard(t *testing.T, now time.Time) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(
		"k1", "hello", "你好", "", "",
		domain.LearningContext{Difficulty: 3, Priority: 5},
		now,
	)
	require.NoError(t, err)
	return card
}

func TestCalculateNewEaseFactor(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	testCases := []struct {
		name      string
		currentEF float64
		quality   int
		expected  float64
	}{
		{name: "quality 4 leaves ease unchanged", currentEF: 2.0, quality: 4, expected: 2.0},
		{name: "quality 5 raises ease", currentEF: 2.0, quality: 5, expected: 2.1},
		{name: "quality 3 lowers ease", currentEF: 2.0, quality: 3, expected: 1.86},
		{name: "quality 0 drops ease sharply", currentEF: 2.5, quality: 0, expected: 1.7},
		{name: "clamped at maximum", currentEF: 2.5, quality: 5, expected: 2.5},
		{name: "clamped at minimum", currentEF: 1.3, quality: 0, expected: 1.3},
		{name: "clamp catches underflow", currentEF: 1.5, quality: 0, expected: 1.3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewEaseFactor(tc.currentEF, tc.quality, params)
			assert.InDelta(t, tc.expected, got, 1e-9)
		})
	}
}

func TestCalculateNewInterval(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	testCases := []struct {
		name        string
		interval    int
		repetitions int
		easeFactor  float64
		expected    int
	}{
		{name: "first pass", interval: 1, repetitions: 1, easeFactor: 2.5, expected: 1},
		{name: "second pass", interval: 1, repetitions: 2, easeFactor: 2.5, expected: 6},
		{name: "third pass scales by ease", interval: 6, repetitions: 3, easeFactor: 2.5, expected: 15},
		{name: "rounds to nearest day", interval: 10, repetitions: 4, easeFactor: 1.86, expected: 19},
		{name: "low ease grows slowly", interval: 6, repetitions: 3, easeFactor: 1.3, expected: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := calculateNewInterval(tc.interval, tc.repetitions, tc.easeFactor, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestAdvanceStatus(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()

	testCases := []struct {
		name     string
		current  domain.CardStatus
		interval int
		expected domain.CardStatus
	}{
		{name: "new becomes learning", current: domain.CardStatusNew, interval: 1, expected: domain.CardStatusLearning},
		{name: "learning stays below threshold", current: domain.CardStatusLearning, interval: 20, expected: domain.CardStatusLearning},
		{name: "learning promotes to review", current: domain.CardStatusLearning, interval: 21, expected: domain.CardStatusReview},
		{name: "review stays below threshold", current: domain.CardStatusReview, interval: 119, expected: domain.CardStatusReview},
		{name: "review promotes to graduated", current: domain.CardStatusReview, interval: 120, expected: domain.CardStatusGraduated},
		{name: "promotions chain in one review", current: domain.CardStatusLearning, interval: 150, expected: domain.CardStatusGraduated},
		{name: "graduated stays graduated", current: domain.CardStatusGraduated, interval: 300, expected: domain.CardStatusGraduated},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := advanceStatus(tc.current, tc.interval, params)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDemoteStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		current  domain.CardStatus
		expected domain.CardStatus
	}{
		{domain.CardStatusNew, domain.CardStatusNew},
		{domain.CardStatusLearning, domain.CardStatusLearning},
		{domain.CardStatusReview, domain.CardStatusLearning},
		{domain.CardStatusGraduated, domain.CardStatusLearning},
		{domain.CardStatusSuspended, domain.CardStatusSuspended},
	}

	for _, tc := range testCases {
		t.Run(string(tc.current), func(t *testing.T) {
			assert.Equal(t, tc.expected, demoteStatus(tc.current))
		})
	}
}

func TestCalculateNextCardPassingProgression(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	card := newTestCard(t, now)

	// First pass: interval 1, now learning.
	card = calculateNextCard(card, domain.AssessmentGood, now, params)
	assert.Equal(t, 1, card.Interval)
	assert.Equal(t, 1, card.Repetitions)
	assert.Equal(t, 2.5, card.EaseFactor)
	assert.Equal(t, domain.CardStatusLearning, card.Status)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), card.NextReviewAt)

	// Second pass: interval 6.
	now = now.AddDate(0, 0, 1)
	card = calculateNextCard(card, domain.AssessmentGood, now, params)
	assert.Equal(t, 6, card.Interval)
	assert.Equal(t, 2, card.Repetitions)

	// Third pass: round(6 * 2.5) = 15.
	now = now.AddDate(0, 0, 6)
	card = calculateNextCard(card, domain.AssessmentGood, now, params)
	assert.Equal(t, 15, card.Interval)
	assert.Equal(t, 3, card.Repetitions)
	assert.Equal(t, domain.CardStatusLearning, card.Status)
}

func TestCalculateNextCardFailureResets(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	card := newTestCard(t, now)
	card.Status = domain.CardStatusReview
	card.Interval = 30
	card.Repetitions = 4
	card.EaseFactor = 2.2

	next := calculateNextCard(card, domain.AssessmentForgot, now, params)

	assert.Equal(t, 0, next.Repetitions)
	assert.Equal(t, 1, next.Interval)
	assert.Equal(t, domain.CardStatusLearning, next.Status)
	assert.InDelta(t, 1.4, next.EaseFactor, 1e-9)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), next.NextReviewAt)

	// Failure still counts as a review.
	assert.Equal(t, 1, next.TotalReviews)
	assert.Equal(t, 0, next.CorrectReviews)
}

func TestCalculateNextCardUsesUpdatedEase(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	card := newTestCard(t, now)
	card.Status = domain.CardStatusLearning
	card.Interval = 10
	card.Repetitions = 3
	card.EaseFactor = 2.0

	// "hard" lowers ease to 1.86 before the interval multiplies:
	// round(10 * 1.86) = 19, not round(10 * 2.0) = 20.
	next := calculateNextCard(card, domain.AssessmentHard, now, params)
	assert.Equal(t, 19, next.Interval)
}

func TestCalculateNextCardDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	card := newTestCard(t, now)

	_ = calculateNextCard(card, domain.AssessmentPerfect, now, params)

	assert.Equal(t, 0, card.Repetitions)
	assert.Equal(t, 0, card.TotalReviews)
	assert.Equal(t, domain.CardStatusNew, card.Status)
}

func TestCalculateNextCardDeterministic(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	card := newTestCard(t, now)

	a := calculateNextCard(card, domain.AssessmentGood, now, params)
	b := calculateNextCard(card, domain.AssessmentGood, now, params)

	assert.Equal(t, a, b)
}
