package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	calls int
	err   error
	panic bool
}

func (h *countingHandler) HandleProgress(ctx context.Context, event *ProgressEvent) error {
	h.calls++
	if h.panic {
		panic("handler exploded")
	}
	return h.err
}

func newTestEvent(t *testing.T) *ProgressEvent {
	t.Helper()
	event, err := NewProgressEvent(TypeReviewRecorded, uuid.New(), ReviewRecordedPayload{
		CardID:     uuid.New(),
		KeywordID:  "k1",
		Assessment: "good",
		Interval:   1,
		EaseFactor: 2.5,
	})
	require.NoError(t, err)
	return event
}

func TestNewProgressEvent(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	event, err := NewProgressEvent(TypeSessionEnded, userID, SessionEndedPayload{
		SessionID:     uuid.New(),
		CardsReviewed: 4,
		AccuracyRate:  75,
		Quality:       "excellent",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, TypeSessionEnded, event.Type)
	assert.Equal(t, userID, event.UserID)
	assert.False(t, event.OccurredAt.IsZero())

	var payload SessionEndedPayload
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, 4, payload.CardsReviewed)
}

func TestEmitDeliversToAllHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	first := &countingHandler{}
	second := &countingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	emitter.Emit(context.Background(), newTestEvent(t))

	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestEmitSwallowsHandlerErrors(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	failing := &countingHandler{err: errors.New("downstream unavailable")}
	healthy := &countingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	// A failing handler never prevents later handlers from running.
	emitter.Emit(context.Background(), newTestEvent(t))

	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls)
}

func TestEmitContainsHandlerPanics(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	panicking := &countingHandler{panic: true}
	healthy := &countingHandler{}
	emitter.RegisterHandler(panicking)
	emitter.RegisterHandler(healthy)

	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), newTestEvent(t))
	})
	assert.Equal(t, 1, healthy.calls)
}

func TestEmitWithNoHandlers(t *testing.T) {
	t.Parallel()

	emitter := NewInMemoryEmitter(nil)
	assert.NotPanics(t, func() {
		emitter.Emit(context.Background(), newTestEvent(t))
	})
}
