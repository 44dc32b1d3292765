package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSessionConfig() SessionConfig {
	return SessionConfig{TargetCards: 20, MaxDurationMinutes: 15}
}

func TestNewReviewSession(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	userID := uuid.New()

	session, err := NewReviewSession(userID, SessionTypeDaily, validSessionConfig(), now)
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Equal(t, userID, session.UserID)
	assert.Equal(t, SessionStateActive, session.State)
	assert.Equal(t, now, session.StartedAt)
	assert.Nil(t, session.EndedAt)
	assert.Zero(t, session.CardsReviewed)
}

func TestNewReviewSessionValidation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	userID := uuid.New()

	testCases := []struct {
		name        string
		userID      uuid.UUID
		sessionType SessionType
		cfg         SessionConfig
		wantErr     error
	}{
		{
			name:        "nil user",
			userID:      uuid.Nil,
			sessionType: SessionTypeDaily,
			cfg:         validSessionConfig(),
			wantErr:     ErrSessionUserIDEmpty,
		},
		{
			name:        "unknown type",
			userID:      userID,
			sessionType: SessionType("cram"),
			cfg:         validSessionConfig(),
			wantErr:     ErrSessionTypeInvalid,
		},
		{
			name:        "zero target",
			userID:      userID,
			sessionType: SessionTypePractice,
			cfg:         SessionConfig{TargetCards: 0, MaxDurationMinutes: 15},
			wantErr:     ErrSessionTargetCardsRange,
		},
		{
			name:        "zero duration",
			userID:      userID,
			sessionType: SessionTypePractice,
			cfg:         SessionConfig{TargetCards: 20, MaxDurationMinutes: 0},
			wantErr:     ErrSessionMaxDurationRange,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReviewSession(tc.userID, tc.sessionType, tc.cfg, now)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSessionOverTime(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	session, err := NewReviewSession(uuid.New(), SessionTypeDaily, validSessionConfig(), start)
	require.NoError(t, err)

	assert.False(t, session.OverTime(start.Add(14*time.Minute)))
	assert.False(t, session.OverTime(start.Add(15*time.Minute)))
	assert.True(t, session.OverTime(start.Add(15*time.Minute+time.Second)))
}

func TestSessionElapsedFrozenAfterEnd(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	session, err := NewReviewSession(uuid.New(), SessionTypeDaily, validSessionConfig(), start)
	require.NoError(t, err)

	ended := start.Add(10 * time.Minute)
	session.EndedAt = &ended

	assert.Equal(t, 10*time.Minute, session.Elapsed(start.Add(2*time.Hour)))
}

func TestSessionClone(t *testing.T) {
	t.Parallel()

	session, err := NewReviewSession(uuid.New(), SessionTypeDaily, validSessionConfig(), time.Now())
	require.NoError(t, err)
	session.ReviewedCardIDs = []uuid.UUID{uuid.New()}

	dup := session.Clone()
	dup.ReviewedCardIDs[0] = uuid.New()
	dup.CardsReviewed = 7

	assert.NotEqual(t, dup.ReviewedCardIDs[0], session.ReviewedCardIDs[0])
	assert.Zero(t, session.CardsReviewed)
}
