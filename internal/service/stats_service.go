package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/wordtrail/wordtrail/internal/domain"
)

// Statistics is a point-in-time aggregate over the card collection and the
// session history.
type Statistics struct {
	GeneratedAt time.Time `json:"generated_at"`

	TotalCards   int                       `json:"total_cards"`
	StatusCounts map[domain.CardStatus]int `json:"status_counts"`

	// Due forecast buckets. Buckets are disjoint: "today" includes
	// everything overdue, "this week" starts after tomorrow, "next week"
	// covers days 8 through 14. Suspended cards are never forecast.
	DueToday    int `json:"due_today"`
	DueTomorrow int `json:"due_tomorrow"`
	DueThisWeek int `json:"due_this_week"`
	DueNextWeek int `json:"due_next_week"`

	// OverallAccuracy is the mean per-card accuracy in [0, 1] over cards
	// with at least one review.
	OverallAccuracy float64 `json:"overall_accuracy"`

	// AverageResponseTimeMs is the mean of per-card average response
	// times over cards with at least one review.
	AverageResponseTimeMs float64 `json:"average_response_time_ms"`

	TotalSessions int `json:"total_sessions"`
}

// StatsService derives aggregate metrics from the card store and session
// history. Every call recomputes from scratch; there is no incremental
// cache to go stale. O(n) over the card collection, fine for card counts
// in the thousands.
type StatsService struct {
	cards    *CardService
	sessions *SessionService
	logger   *slog.Logger
	now      Clock
}

// StatsServiceOption customizes a StatsService.
type StatsServiceOption func(*StatsService)

// WithStatsClock overrides the service clock.
func WithStatsClock(now Clock) StatsServiceOption {
	return func(s *StatsService) { s.now = now }
}

// NewStatsService creates a statistics service over the given stores.
func NewStatsService(
	cards *CardService,
	sessions *SessionService,
	log *slog.Logger,
	opts ...StatsServiceOption,
) *StatsService {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &StatsService{
		cards:    cards,
		sessions: sessions,
		logger:   log.With(slog.String("component", "stats_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetStatistics computes the current aggregate metrics. A single now value
// is captured for all date-range boundaries in the forecast.
func (s *StatsService) GetStatistics(ctx context.Context) *Statistics {
	now := s.now()
	today := domain.StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	weekEnd := today.AddDate(0, 0, 7)
	nextWeekEnd := today.AddDate(0, 0, 14)

	stats := &Statistics{
		GeneratedAt:  now.UTC(),
		StatusCounts: make(map[domain.CardStatus]int),
	}

	var accuracySum, responseSum float64
	var reviewed int

	for _, card := range s.cards.GetAllCards(ctx) {
		stats.TotalCards++
		stats.StatusCounts[card.Status]++

		if card.TotalReviews > 0 {
			reviewed++
			accuracySum += card.Accuracy()
			responseSum += card.AverageResponseTimeMs
		}

		if card.Status == domain.CardStatusSuspended {
			continue
		}

		due := domain.StartOfDay(card.NextReviewAt)
		switch {
		case !due.After(today):
			stats.DueToday++
		case due.Equal(tomorrow):
			stats.DueTomorrow++
		case !due.After(weekEnd):
			stats.DueThisWeek++
		case !due.After(nextWeekEnd):
			stats.DueNextWeek++
		}
	}

	if reviewed > 0 {
		stats.OverallAccuracy = accuracySum / float64(reviewed)
		stats.AverageResponseTimeMs = responseSum / float64(reviewed)
	}

	if s.sessions != nil {
		stats.TotalSessions = len(s.sessions.History(ctx))
	}

	return stats
}
