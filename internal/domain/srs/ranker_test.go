package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wordtrail/wordtrail/internal/domain"
)

func TestScore(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := domain.StartOfDay(now)

	base := func() *domain.Card {
		return &domain.Card{
			Status:       domain.CardStatusLearning,
			EaseFactor:   2.5,
			NextReviewAt: today,
			Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
		}
	}

	testCases := []struct {
		name     string
		mutate   func(*domain.Card)
		expected int
	}{
		{
			name:     "due today with no bonuses",
			mutate:   func(c *domain.Card) {},
			expected: 50,
		},
		{
			name: "new card due today",
			mutate: func(c *domain.Card) {
				c.Status = domain.CardStatusNew
			},
			expected: 70,
		},
		{
			name: "two days overdue",
			mutate: func(c *domain.Card) {
				c.NextReviewAt = today.AddDate(0, 0, -2)
			},
			expected: 70,
		},
		{
			name: "overdue bonus caps at four days",
			mutate: func(c *domain.Card) {
				c.NextReviewAt = today.AddDate(0, 0, -30)
			},
			expected: 90,
		},
		{
			name: "difficult card",
			mutate: func(c *domain.Card) {
				c.EaseFactor = 1.9
			},
			expected: 65,
		},
		{
			name: "high priority card",
			mutate: func(c *domain.Card) {
				c.Context.Priority = 8
			},
			expected: 60,
		},
		{
			name: "stacked bonuses clamp at 100",
			mutate: func(c *domain.Card) {
				c.Status = domain.CardStatusNew
				c.NextReviewAt = today.AddDate(0, 0, -10)
				c.EaseFactor = 1.5
				c.Context.Priority = 10
			},
			expected: 100,
		},
		{
			name: "future due date earns no overdue points",
			mutate: func(c *domain.Card) {
				c.NextReviewAt = today.AddDate(0, 0, 3)
			},
			expected: 50,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			card := base()
			tc.mutate(card)
			assert.Equal(t, tc.expected, Score(card, now))
		})
	}
}

func TestRankOrdersByScoreThenDueDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := domain.StartOfDay(now)

	plain := &domain.Card{
		Status: domain.CardStatusLearning, EaseFactor: 2.5,
		NextReviewAt: today,
		Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
	}
	overdue := &domain.Card{
		Status: domain.CardStatusLearning, EaseFactor: 2.5,
		NextReviewAt: today.AddDate(0, 0, -3),
		Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
	}
	fresh := &domain.Card{
		Status: domain.CardStatusNew, EaseFactor: 2.5,
		NextReviewAt: today,
		Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
	}

	ranked := Rank([]*domain.Card{plain, fresh, overdue}, now)

	// overdue scores 80, fresh 70, plain 50.
	assert.Equal(t, []*domain.Card{overdue, fresh, plain}, ranked)
}

func TestRankTiesBreakOnDueDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := domain.StartOfDay(now)

	later := &domain.Card{
		Status: domain.CardStatusLearning, EaseFactor: 2.5,
		NextReviewAt: today.AddDate(0, 0, 2),
		Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
	}
	sooner := &domain.Card{
		Status: domain.CardStatusLearning, EaseFactor: 2.5,
		NextReviewAt: today.AddDate(0, 0, 1),
		Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
	}

	ranked := Rank([]*domain.Card{later, sooner}, now)
	assert.Equal(t, []*domain.Card{sooner, later}, ranked)
}

func TestRankIsStableAndDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	today := domain.StartOfDay(now)

	make3 := func() []*domain.Card {
		cards := make([]*domain.Card, 3)
		for i := range cards {
			cards[i] = &domain.Card{
				Status: domain.CardStatusLearning, EaseFactor: 2.5,
				NextReviewAt: today,
				Context:      domain.LearningContext{Difficulty: 3, Priority: 5},
			}
		}
		return cards
	}

	cards := make3()
	original := []*domain.Card{cards[0], cards[1], cards[2]}

	ranked := Rank(cards, now)

	// Fully tied cards keep their insertion order.
	assert.Equal(t, original, ranked)
	assert.Equal(t, original, cards)
}
