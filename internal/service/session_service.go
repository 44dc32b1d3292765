package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wordtrail/wordtrail/internal/domain"
	"github.com/wordtrail/wordtrail/internal/events"
	"github.com/wordtrail/wordtrail/internal/platform/logger"
	"github.com/wordtrail/wordtrail/internal/store"
)

const sessionsSnapshotVersion = 1

// Session quality weighting. The composite score runs 0-100: accuracy and
// completion are already percentages, response-time closeness is scaled up
// from its 0-1 range.
const (
	accuracyWeight   = 0.40
	completionWeight = 0.30
	responseWeight   = 0.20
	engagementWeight = 0.10

	// idealResponseTimeMs is the response time treated as fully engaged
	// recall: answers much faster suggest guessing, much slower suggest
	// struggling.
	idealResponseTimeMs = 3000

	excellentThreshold = 80
	goodThreshold      = 65
	averageThreshold   = 40
)

// sessionsSnapshot is the serialized form of session state: the sessions
// still active plus the bounded history, oldest first.
type sessionsSnapshot struct {
	Version int                     `json:"version"`
	Active  []*domain.ReviewSession `json:"active"`
	History []*domain.ReviewSession `json:"history"`
}

// SessionService orchestrates bounded review sessions. It enforces the
// one-active-session-per-user rule, delegates each reviewed card to the
// CardService, maintains the session's running aggregates and grades the
// session when it ends. Finalized sessions are retained in a bounded
// most-recent-N history.
type SessionService struct {
	mu sync.Mutex

	cards       *CardService
	gateway     store.PersistenceGateway
	emitter     events.Emitter
	logger      *slog.Logger
	saveTimeout time.Duration
	historySize int
	now         Clock

	activeByUser map[uuid.UUID]uuid.UUID
	active       map[uuid.UUID]*domain.ReviewSession
	history      []*domain.ReviewSession
	dirty        bool
}

// SessionServiceOption customizes a SessionService.
type SessionServiceOption func(*SessionService)

// WithSessionClock overrides the service clock.
func WithSessionClock(now Clock) SessionServiceOption {
	return func(s *SessionService) { s.now = now }
}

// WithSessionSaveTimeout bounds the persistence flush performed on each
// mutation.
func WithSessionSaveTimeout(d time.Duration) SessionServiceOption {
	return func(s *SessionService) { s.saveTimeout = d }
}

// WithHistorySize bounds the retained session history.
func WithHistorySize(n int) SessionServiceOption {
	return func(s *SessionService) { s.historySize = n }
}

// NewSessionService creates a session service and loads any existing
// snapshot from the gateway.
func NewSessionService(
	ctx context.Context,
	cards *CardService,
	gateway store.PersistenceGateway,
	emitter events.Emitter,
	log *slog.Logger,
	opts ...SessionServiceOption,
) (*SessionService, error) {
	if cards == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cards cannot be nil")
	}
	if gateway == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("gateway cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	s := &SessionService{
		cards:        cards,
		gateway:      gateway,
		emitter:      emitter,
		logger:       log.With(slog.String("component", "session_service")),
		saveTimeout:  2 * time.Second,
		historySize:  50,
		now:          func() time.Time { return time.Now().UTC() },
		activeByUser: make(map[uuid.UUID]uuid.UUID),
		active:       make(map[uuid.UUID]*domain.ReviewSession),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

// Start creates an active session for the user. At most one session per
// user may be active at a time; a second start fails with
// ErrActiveSessionExists rather than silently replacing the first.
func (s *SessionService) Start(
	ctx context.Context,
	userID uuid.UUID,
	sessionType domain.SessionType,
	cfg domain.SessionConfig,
) (*domain.ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.activeByUser[userID]; exists {
		return nil, ErrActiveSessionExists
	}

	session, err := domain.NewReviewSession(userID, sessionType, cfg, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	s.active[session.ID] = session
	s.activeByUser[userID] = session.ID

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("type", string(sessionType)))

	s.flushLocked(ctx)
	return session.Clone(), nil
}

// ReviewCard records one reviewed card against an active session. The card
// update is delegated to the CardService and SRS scheduler; the session's
// running aggregates and per-status counters are updated from the card's
// pre-review status. The updated card is returned.
func (s *SessionService) ReviewCard(
	ctx context.Context,
	sessionID uuid.UUID,
	cardID uuid.UUID,
	assessment domain.Assessment,
	responseTimeMs float64,
	feedback *domain.UserFeedback,
) (*domain.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}

	card, prevStatus, err := s.cards.RecordReview(ctx, cardID, assessment, responseTimeMs, feedback)
	if err != nil {
		return nil, err
	}

	quality, _ := assessment.Quality()

	session.CardsReviewed++
	if quality >= 3 {
		session.CorrectAnswers++
	}
	session.AverageResponseTimeMs += (responseTimeMs - session.AverageResponseTimeMs) /
		float64(session.CardsReviewed)
	session.AccuracyRate = float64(session.CorrectAnswers) / float64(session.CardsReviewed) * 100
	session.CompletionRate = float64(session.CardsReviewed) / float64(session.Config.TargetCards) * 100
	session.EngagementScore = engagementScore(session)

	switch prevStatus {
	case domain.CardStatusNew:
		session.NewCards++
	case domain.CardStatusGraduated:
		session.GraduatedCards++
	default:
		session.ReviewCards++
	}

	session.ReviewedCardIDs = append(session.ReviewedCardIDs, cardID)

	log := logger.FromContextOrDefault(ctx, s.logger)
	if session.OverTime(s.now()) {
		log.Debug("session over its configured duration",
			slog.String("session_id", session.ID.String()),
			slog.Int("max_duration_minutes", session.Config.MaxDurationMinutes))
	}

	s.emitReviewRecorded(ctx, session, card, assessment)
	s.flushLocked(ctx)
	return card, nil
}

// End finalizes an active session: computes its quality grade, freezes the
// aggregates and moves it into the bounded history.
func (s *SessionService) End(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeSessionLocked(sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session.State = domain.SessionStateEnded
	session.EndedAt = &now
	session.Quality = sessionQuality(session)

	s.retireLocked(session)

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("session ended",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_reviewed", session.CardsReviewed),
		slog.Float64("accuracy_rate", session.AccuracyRate),
		slog.String("quality", string(session.Quality)))

	s.emitSessionEnded(ctx, session)
	s.flushLocked(ctx)
	return session.Clone(), nil
}

// Abandon cancels an active session without the end-of-session grade
// computation. The partial aggregates are kept in history as-is.
func (s *SessionService) Abandon(ctx context.Context, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.activeSessionLocked(sessionID)
	if err != nil {
		return err
	}

	now := s.now().UTC()
	session.State = domain.SessionStateAbandoned
	session.EndedAt = &now

	s.retireLocked(session)

	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("session abandoned",
		slog.String("session_id", session.ID.String()),
		slog.Int("cards_reviewed", session.CardsReviewed))

	s.flushLocked(ctx)
	return nil
}

// GetSession retrieves an active or historical session by ID.
func (s *SessionService) GetSession(ctx context.Context, sessionID uuid.UUID) (*domain.ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.active[sessionID]; ok {
		return session.Clone(), nil
	}
	for _, session := range s.history {
		if session.ID == sessionID {
			return session.Clone(), nil
		}
	}
	return nil, ErrSessionNotFound
}

// ActiveSession returns the user's active session, if any.
func (s *SessionService) ActiveSession(ctx context.Context, userID uuid.UUID) (*domain.ReviewSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.activeByUser[userID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s.active[id].Clone(), nil
}

// History returns finalized sessions, most recent first.
func (s *SessionService) History(ctx context.Context) []*domain.ReviewSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.ReviewSession, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		out = append(out, s.history[i].Clone())
	}
	return out
}

// activeSessionLocked resolves a session ID that must currently be active.
// Sessions found only in history yield ErrSessionNotActive; unknown IDs
// yield ErrSessionNotFound.
func (s *SessionService) activeSessionLocked(sessionID uuid.UUID) (*domain.ReviewSession, error) {
	if session, ok := s.active[sessionID]; ok {
		return session, nil
	}
	for _, session := range s.history {
		if session.ID == sessionID {
			return nil, ErrSessionNotActive
		}
	}
	return nil, ErrSessionNotFound
}

// retireLocked moves a no-longer-active session into the bounded history,
// dropping the oldest entries beyond the configured size.
func (s *SessionService) retireLocked(session *domain.ReviewSession) {
	delete(s.active, session.ID)
	delete(s.activeByUser, session.UserID)

	s.history = append(s.history, session)
	if len(s.history) > s.historySize {
		s.history = s.history[len(s.history)-s.historySize:]
	}
}

func (s *SessionService) emitReviewRecorded(
	ctx context.Context,
	session *domain.ReviewSession,
	card *domain.Card,
	assessment domain.Assessment,
) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewProgressEvent(events.TypeReviewRecorded, session.UserID,
		events.ReviewRecordedPayload{
			CardID:     card.ID,
			KeywordID:  card.KeywordID,
			Assessment: string(assessment),
			Interval:   card.Interval,
			EaseFactor: card.EaseFactor,
			Accuracy:   card.Accuracy(),
		})
	if err != nil {
		s.logger.Warn("failed to build review progress event", slog.String("error", err.Error()))
		return
	}
	s.emitter.Emit(ctx, event)
}

func (s *SessionService) emitSessionEnded(ctx context.Context, session *domain.ReviewSession) {
	if s.emitter == nil {
		return
	}

	event, err := events.NewProgressEvent(events.TypeSessionEnded, session.UserID,
		events.SessionEndedPayload{
			SessionID:     session.ID,
			CardsReviewed: session.CardsReviewed,
			AccuracyRate:  session.AccuracyRate,
			Quality:       string(session.Quality),
		})
	if err != nil {
		s.logger.Warn("failed to build session progress event", slog.String("error", err.Error()))
		return
	}
	s.emitter.Emit(ctx, event)
}

// engagementScore derives a 0-100 participation score from how far the
// session has progressed against its target and how well the learner is
// doing. Completion is capped so reviewing past the target cannot push
// the score above 100.
func engagementScore(session *domain.ReviewSession) float64 {
	completion := math.Min(session.CompletionRate, 100)
	score := 0.7*completion + 0.3*session.AccuracyRate
	return math.Min(score, 100)
}

// sessionQuality grades a finished session on the weighted composite of
// accuracy, completion, response-time closeness and engagement.
func sessionQuality(session *domain.ReviewSession) domain.SessionQuality {
	completion := math.Min(session.CompletionRate, 100)

	closeness := 0.0
	if session.CardsReviewed > 0 {
		closeness = 1 - math.Abs(session.AverageResponseTimeMs-idealResponseTimeMs)/idealResponseTimeMs
		if closeness < 0 {
			closeness = 0
		}
	}

	score := session.AccuracyRate*accuracyWeight +
		completion*completionWeight +
		closeness*100*responseWeight +
		session.EngagementScore*engagementWeight

	switch {
	case score >= excellentThreshold:
		return domain.SessionQualityExcellent
	case score >= goodThreshold:
		return domain.SessionQualityGood
	case score >= averageThreshold:
		return domain.SessionQualityAverage
	default:
		return domain.SessionQualityPoor
	}
}

// load restores session state from the gateway snapshot.
func (s *SessionService) load(ctx context.Context) error {
	loadCtx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	blob, err := s.gateway.Load(loadCtx, store.NamespaceSessions)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load session snapshot: %w", err)
	}

	var snapshot sessionsSnapshot
	if err := json.Unmarshal(blob, &snapshot); err != nil {
		return fmt.Errorf("failed to decode session snapshot: %w", err)
	}

	for _, session := range snapshot.Active {
		s.active[session.ID] = session
		s.activeByUser[session.UserID] = session.ID
	}
	s.history = snapshot.History

	s.logger.Debug("loaded session snapshot",
		slog.Int("active", len(s.active)),
		slog.Int("history", len(s.history)))
	return nil
}

// flushLocked serializes session state and saves it through the gateway.
// Failures are logged and deferred to the next mutation. Must be called
// with the mutex held.
func (s *SessionService) flushLocked(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot := sessionsSnapshot{Version: sessionsSnapshotVersion}
	snapshot.Active = make([]*domain.ReviewSession, 0, len(s.active))
	for _, session := range s.active {
		snapshot.Active = append(snapshot.Active, session)
	}
	snapshot.History = s.history

	blob, err := json.Marshal(snapshot)
	if err != nil {
		s.dirty = true
		log.Error("failed to encode session snapshot", slog.String("error", err.Error()))
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.saveTimeout)
	defer cancel()

	if err := s.gateway.Save(saveCtx, store.NamespaceSessions, blob); err != nil {
		s.dirty = true
		log.Warn("session snapshot save failed, will retry on next mutation",
			slog.String("error", err.Error()))
		return
	}

	s.dirty = false
}
