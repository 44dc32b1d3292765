package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wordtrail/wordtrail/internal/api/shared"
	"github.com/wordtrail/wordtrail/internal/config"
	"github.com/wordtrail/wordtrail/internal/domain"
	"github.com/wordtrail/wordtrail/internal/platform/logger"
	"github.com/wordtrail/wordtrail/internal/service"
)

// SessionHandler handles review-session HTTP requests.
type SessionHandler struct {
	sessions *service.SessionService
	defaults config.ReviewConfig
	validate *validator.Validate
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	sessions *service.SessionService,
	defaults config.ReviewConfig,
	log *slog.Logger,
) *SessionHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		sessions: sessions,
		defaults: defaults,
		validate: validator.New(),
		logger:   log.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /sessions requests. A user with an active
// session receives 409.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	cfg := domain.SessionConfig{
		TargetCards:        req.TargetCards,
		MaxDurationMinutes: req.MaxDurationMinutes,
	}
	if cfg.TargetCards == 0 {
		cfg.TargetCards = h.defaults.DefaultTargetCards
	}
	if cfg.MaxDurationMinutes == 0 {
		cfg.MaxDurationMinutes = h.defaults.DefaultMaxDurationMinutes
	}

	session, err := h.sessions.Start(r.Context(), userID, domain.SessionType(req.Type), cfg)
	if err != nil {
		log.Warn("failed to start session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewSessionResponse(session))
}

// ReviewCard handles POST /sessions/{id}/reviews requests.
func (h *SessionHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	var req ReviewCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var feedback *domain.UserFeedback
	if req.Feedback != nil {
		feedback = &domain.UserFeedback{
			Difficulty: req.Feedback.Difficulty,
			Confidence: req.Feedback.Confidence,
			Notes:      req.Feedback.Notes,
		}
	}

	card, err := h.sessions.ReviewCard(
		r.Context(),
		sessionID,
		cardID,
		domain.Assessment(req.Assessment),
		req.ResponseTimeMs,
		feedback,
	)
	if err != nil {
		log.Warn("failed to review card",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()),
			slog.String("card_id", req.CardID))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// EndSession handles POST /sessions/{id}/end requests.
func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.End(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(session))
}

// AbandonSession handles POST /sessions/{id}/abandon requests.
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Abandon(r.Context(), sessionID); err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionID(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSessionResponse(session))
}

// ListSessions handles GET /sessions requests, returning the finalized
// session history, most recent first.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	history := h.sessions.History(r.Context())

	out := make([]SessionResponse, len(history))
	for i, session := range history {
		out[i] = NewSessionResponse(session)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// sessionID parses the {id} path parameter, responding with 400 on failure.
func (h *SessionHandler) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}
