package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wordtrail/wordtrail/internal/domain"
	"github.com/wordtrail/wordtrail/internal/domain/srs"
	"github.com/wordtrail/wordtrail/internal/platform/logger"
	"github.com/wordtrail/wordtrail/internal/store"
)

// Clock returns the current time. Services take an injectable clock so
// scheduling behavior is fully deterministic in tests.
type Clock func() time.Time

const cardsSnapshotVersion = 1

// cardsSnapshot is the serialized form of the card collection. Slice order
// is insertion order, which the store preserves across round trips.
type cardsSnapshot struct {
	Version int            `json:"version"`
	Cards   []*domain.Card `json:"cards"`
}

// CardService owns the card collection and is the single source of truth
// for card lifecycle state. All mutations are serialized through one
// mutex, flow through the SRS scheduler, and are flushed to the
// persistence gateway before the call returns. A flush failure is
// non-fatal: the operation completes on in-memory state and the next
// mutation retries.
type CardService struct {
	mu sync.Mutex

	gateway     store.PersistenceGateway
	scheduler   srs.Service
	logger      *slog.Logger
	saveTimeout time.Duration
	now         Clock

	cards     map[uuid.UUID]*domain.Card
	byKeyword map[string]uuid.UUID
	order     []uuid.UUID
	dirty     bool
}

// CardServiceOption customizes a CardService.
type CardServiceOption func(*CardService)

// WithCardClock overrides the service clock.
func WithCardClock(now Clock) CardServiceOption {
	return func(s *CardService) { s.now = now }
}

// WithCardSaveTimeout bounds the persistence flush performed on each
// mutation.
func WithCardSaveTimeout(d time.Duration) CardServiceOption {
	return func(s *CardService) { s.saveTimeout = d }
}

// NewCardService creates a card service and loads any existing snapshot
// from the gateway. A missing snapshot yields an empty collection; any
// other load failure is returned, since silently starting empty would
// overwrite the stored state on the next flush.
func NewCardService(
	ctx context.Context,
	gateway store.PersistenceGateway,
	scheduler srs.Service,
	log *slog.Logger,
	opts ...CardServiceOption,
) (*CardService, error) {
	if gateway == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gateway cannot be nil")
	}
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &CardService{
		gateway:     gateway,
		scheduler:   scheduler,
		logger:      log.With(slog.String("component", "card_service")),
		saveTimeout: 2 * time.Second,
		now:         func() time.Time { return time.Now().UTC() },
		cards:       make(map[uuid.UUID]*domain.Card),
		byKeyword:   make(map[string]uuid.UUID),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// AddCardParams carries the caller-supplied fields of a new card.
type AddCardParams struct {
	KeywordID   string
	Word        string
	Translation string
	AudioRef    string
	ImageRef    string
	Context     domain.LearningContext
}

// AddCard creates a card for a keyword, or returns the existing card
// unchanged if the keyword is already known. New cards start in the "new"
// status and are due immediately.
func (s *CardService) AddCard(ctx context.Context, params AddCardParams) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byKeyword[params.KeywordID]; ok {
		return s.cards[id].Clone(), nil
	}

	card, err := domain.NewCard(
		params.KeywordID,
		params.Word,
		params.Translation,
		params.AudioRef,
		params.ImageRef,
		params.Context,
		s.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	s.cards[card.ID] = card
	s.byKeyword[card.KeywordID] = card.ID
	s.order = append(s.order, card.ID)

	s.flushLocked(ctx)
	return card.Clone(), nil
}

// GetCard retrieves a card by ID.
func (s *CardService) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}
	return card.Clone(), nil
}

// GetCardByKeyword retrieves a card by its keyword reference.
func (s *CardService) GetCardByKeyword(ctx context.Context, keywordID string) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byKeyword[keywordID]
	if !ok {
		return nil, ErrCardNotFound
	}
	return s.cards[id].Clone(), nil
}

// GetAllCards returns every card in stable insertion order.
func (s *CardService) GetAllCards(ctx context.Context) []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Card, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.cards[id].Clone())
	}
	return out
}

// GetDueCards returns cards due for review at the current time, ranked by
// presentation priority, capped at limit (limit <= 0 means no cap).
// Suspended cards are never returned. An empty result is not an error.
//
// A single now value is captured for the whole batch so a card's due
// status cannot flip mid-computation.
func (s *CardService) GetDueCards(ctx context.Context, limit int) []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	due := make([]*domain.Card, 0)
	for _, id := range s.order {
		card := s.cards[id]
		if card.Status == domain.CardStatusSuspended {
			continue
		}
		if card.NextReviewAt.After(now) {
			continue
		}
		due = append(due, card)
	}

	ranked := srs.Rank(due, now)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]*domain.Card, len(ranked))
	for i, card := range ranked {
		out[i] = card.Clone()
	}
	return out
}

// GetNewCards returns cards that have never passed a review, ordered by
// learning-context priority descending then creation time ascending,
// capped at limit (limit <= 0 means no cap).
func (s *CardService) GetNewCards(ctx context.Context, limit int) []*domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make([]*domain.Card, 0)
	for _, id := range s.order {
		card := s.cards[id]
		if card.Status == domain.CardStatusNew {
			fresh = append(fresh, card)
		}
	}

	sort.SliceStable(fresh, func(i, j int) bool {
		if fresh[i].Context.Priority != fresh[j].Context.Priority {
			return fresh[i].Context.Priority > fresh[j].Context.Priority
		}
		return fresh[i].CreatedAt.Before(fresh[j].CreatedAt)
	})

	if limit > 0 && len(fresh) > limit {
		fresh = fresh[:limit]
	}

	out := make([]*domain.Card, len(fresh))
	for i, card := range fresh {
		out[i] = card.Clone()
	}
	return out
}

// RecordReview applies a review outcome to a card through the SRS
// scheduler and returns the updated card together with the status the
// card held before the review. Cards are never deleted by reviews, only
// rescheduled.
func (s *CardService) RecordReview(
	ctx context.Context,
	id uuid.UUID,
	assessment domain.Assessment,
	responseTimeMs float64,
	feedback *domain.UserFeedback,
) (*domain.Card, domain.CardStatus, error) {
	if !assessment.Valid() {
		return nil, "", ErrInvalidAssessment
	}
	if responseTimeMs < 0 {
		return nil, "", ErrInvalidResponseTime
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, "", ErrCardNotFound
	}
	if card.Status == domain.CardStatusSuspended {
		return nil, "", ErrCardSuspended
	}

	prevStatus := card.Status

	updated, err := s.scheduler.Update(card, assessment, s.now())
	if err != nil {
		return nil, "", NewServiceError("record_review", "scheduler update failed", err)
	}

	// Incremental running mean over the lifetime review count.
	updated.AverageResponseTimeMs = card.AverageResponseTimeMs +
		(responseTimeMs-card.AverageResponseTimeMs)/float64(updated.TotalReviews)

	if feedback != nil {
		fb := *feedback
		updated.Feedback = &fb
	}

	s.cards[id] = updated

	s.flushLocked(ctx)
	return updated.Clone(), prevStatus, nil
}

// Suspend removes a card from the review flow until Resume is called.
func (s *CardService) Suspend(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}

	if card.Status != domain.CardStatusSuspended {
		card.Status = domain.CardStatusSuspended
		card.UpdatedAt = s.now().UTC()
		s.flushLocked(ctx)
	}
	return card.Clone(), nil
}

// Resume returns a suspended card to the review flow. Cards that have
// passed at least one review come back as learning; untouched cards come
// back as new.
func (s *CardService) Resume(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}
	if card.Status != domain.CardStatusSuspended {
		return nil, ErrCardNotSuspended
	}

	if card.TotalReviews > 0 {
		card.Status = domain.CardStatusLearning
	} else {
		card.Status = domain.CardStatusNew
	}
	card.UpdatedAt = s.now().UTC()

	s.flushLocked(ctx)
	return card.Clone(), nil
}

// Postpone pushes a card's next review forward by the given number of
// days without recording a review.
func (s *CardService) Postpone(ctx context.Context, id uuid.UUID, days int) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}

	updated, err := s.scheduler.Postpone(card, days, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	s.cards[id] = updated
	s.flushLocked(ctx)
	return updated.Clone(), nil
}

// Dirty reports whether the last flush failed and a retry is pending.
func (s *CardService) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// load restores the card collection from the gateway snapshot.
func (s *CardService) load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	blob, err := s.gateway.Load(loadCtx, store.NamespaceCards)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load card snapshot: %w", err)
	}

	var snapshot cardsSnapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return fmt.Errorf("failed to decode card snapshot: %w", err)
	}

	for _, card := range snapshot.Cards {
		s.cards[card.ID] = card
		s.byKeyword[card.KeywordID] = card.ID
		s.order = append(s.order, card.ID)
	}

	s.logger.Debug("loaded card snapshot", slog.Int("cards", len(s.order)))
	return nil
}

// flushLocked serializes the full collection and saves it through the
// gateway, bounded by the save timeout. Failures are logged and deferred
// to the next mutation; they never fail the calling operation. Must be
// called with the mutex held.
func (s *CardService) flushLocked(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot := cardsSnapshot{Version: cardsSnapshotVersion}
	snapshot.Cards = make([]*domain.Card, 0, len(s.order))
	for _, id := range s.order {
		snapshot.Cards = append(snapshot.Cards, s.cards[id])
	}

	blob, err := json.Marshal(snapshot)
	if err != nil {
		s.dirty = true
		log.Error("failed to encode card snapshot", slog.String("error", err.Error()))
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.gateway.Save(saveCtx, store.NamespaceCards, blob); err != nil {
		s.dirty = true
		log.Warn("card snapshot save failed, will retry on next mutation",
			slog.String("error", err.Error()),
			slog.Int("cards", len(snapshot.Cards)))
		return
	}

	s.dirty = false
}
