package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordtrail/wordtrail/internal/domain"
	"github.com/wordtrail/wordtrail/internal/platform/memory"
)

func TestStatsServiceEmptyCollection(t *testing.T) {
	t.Parallel()

	cards := newTestCardService(t, memory.NewGateway())
	svc := NewStatsService(cards, nil, nil)

	stats := svc.GetStatistics(context.Background())

	assert.Zero(t, stats.TotalCards)
	assert.Zero(t, stats.DueToday)
	assert.Zero(t, stats.OverallAccuracy)
	assert.Zero(t, stats.AverageResponseTimeMs)
	assert.Zero(t, stats.TotalSessions)
}

func TestStatsServiceForecastBuckets(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	_, clock := fixedClock(start)
	cards := newTestCardService(t, memory.NewGateway(), WithCardClock(clock))
	svc := NewStatsService(cards, nil, nil, WithStatsClock(clock))
	ctx := context.Background()

	// Due dates relative to the fixed clock, offset in days. Postpone moves
	// a fresh card from "due today" to today+offset.
	place := func(keyword string, offsetDays int) *domain.Card {
		card := addTestCard(t, cards, keyword, 5)
		if offsetDays > 0 {
			moved, err := cards.Postpone(ctx, card.ID, offsetDays)
			require.NoError(t, err)
			return moved
		}
		return card
	}

	place("today", 0)
	place("tomorrow", 1)
	place("in-three-days", 3)
	place("in-seven-days", 7)
	place("in-eight-days", 8)
	place("in-fourteen-days", 14)
	place("far-future", 30)

	suspended := place("suspended-due", 0)
	_, err := cards.Suspend(ctx, suspended.ID)
	require.NoError(t, err)

	stats := svc.GetStatistics(ctx)

	assert.Equal(t, 8, stats.TotalCards)
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 1, stats.DueTomorrow)
	assert.Equal(t, 2, stats.DueThisWeek)
	assert.Equal(t, 2, stats.DueNextWeek)

	assert.Equal(t, 7, stats.StatusCounts[domain.CardStatusNew])
	assert.Equal(t, 1, stats.StatusCounts[domain.CardStatusSuspended])
}

func TestStatsServiceOverdueCountsAsToday(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	now, clock := fixedClock(start)
	cards := newTestCardService(t, memory.NewGateway(), WithCardClock(clock))
	svc := NewStatsService(cards, nil, nil, WithStatsClock(clock))
	ctx := context.Background()

	addTestCard(t, cards, "overdue", 5)
	*now = start.AddDate(0, 0, 5)
	addTestCard(t, cards, "today", 5)

	stats := svc.GetStatistics(ctx)
	assert.Equal(t, 2, stats.DueToday)
	assert.Zero(t, stats.DueTomorrow)
}

func TestStatsServiceAccuracyAndResponseTime(t *testing.T) {
	t.Parallel()

	cards := newTestCardService(t, memory.NewGateway())
	svc := NewStatsService(cards, nil, nil)
	ctx := context.Background()

	// One perfect card, one at 50%, one never reviewed.
	perfect := addTestCard(t, cards, "perfect", 5)
	_, _, err := cards.RecordReview(ctx, perfect.ID, domain.AssessmentGood, 2000, nil)
	require.NoError(t, err)

	half := addTestCard(t, cards, "half", 5)
	_, _, err = cards.RecordReview(ctx, half.ID, domain.AssessmentGood, 3000, nil)
	require.NoError(t, err)
	_, _, err = cards.RecordReview(ctx, half.ID, domain.AssessmentForgot, 5000, nil)
	require.NoError(t, err)

	addTestCard(t, cards, "untouched", 5)

	stats := svc.GetStatistics(ctx)

	// Mean of per-card accuracies over reviewed cards: (1.0 + 0.5) / 2.
	assert.InDelta(t, 0.75, stats.OverallAccuracy, 1e-9)

	// Mean of per-card averages: (2000 + 4000) / 2.
	assert.InDelta(t, 3000.0, stats.AverageResponseTimeMs, 1e-9)
}

func TestStatsServiceCountsSessions(t *testing.T) {
	t.Parallel()

	gateway := memory.NewGateway()
	cards := newTestCardService(t, gateway)
	sessions := newTestSessionService(t, gateway, cards, nil)
	svc := NewStatsService(cards, sessions, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		session, err := sessions.Start(ctx, uuid.New(), domain.SessionTypeDaily, defaultSessionConfig())
		require.NoError(t, err)
		_, err = sessions.End(ctx, session.ID)
		require.NoError(t, err)
	}

	// An active session is not counted until it is finalized.
	_, err := sessions.Start(ctx, uuid.New(), domain.SessionTypeDaily, defaultSessionConfig())
	require.NoError(t, err)

	stats := svc.GetStatistics(ctx)
	assert.Equal(t, 3, stats.TotalSessions)
}
