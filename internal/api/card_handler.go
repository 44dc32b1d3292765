package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wordtrail/wordtrail/internal/api/shared"
	"github.com/wordtrail/wordtrail/internal/domain"
	"github.com/wordtrail/wordtrail/internal/platform/logger"
	"github.com/wordtrail/wordtrail/internal/service"
)

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cards    *service.CardService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cards *service.CardService, log *slog.Logger) *CardHandler {
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cards:    cards,
		validate: validator.New(),
		logger:   log.With(slog.String("component", "card_handler")),
	}
}

// AddCard handles POST /cards requests. Adding a keyword that already has
// a card returns the existing card unchanged.
func (h *CardHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req AddCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	card, err := h.cards.AddCard(r.Context(), service.AddCardParams{
		KeywordID:   req.KeywordID,
		Word:        req.Word,
		Translation: req.Translation,
		AudioRef:    req.AudioRef,
		ImageRef:    req.ImageRef,
		Context: domain.LearningContext{
			SourceStoryID: req.SourceStoryID,
			Interest:      req.Interest,
			Difficulty:    req.Difficulty,
			Priority:      req.Priority,
		},
	})
	if err != nil {
		log.Warn("failed to add card",
			slog.String("error", err.Error()),
			slog.String("keyword_id", req.KeywordID))
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewCardResponse(card))
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}

	card, err := h.cards.GetCard(r.Context(), id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// ListCards handles GET /cards requests, returning every card in
// insertion order.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := h.cards.GetAllCards(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, NewCardListResponse(cards))
}

// ListDueCards handles GET /cards/due requests. An empty list means no
// cards are currently due; that is not an error.
func (h *CardHandler) ListDueCards(w http.ResponseWriter, r *http.Request) {
	cards := h.cards.GetDueCards(r.Context(), limitParam(r))
	shared.RespondWithJSON(w, r, http.StatusOK, NewCardListResponse(cards))
}

// ListNewCards handles GET /cards/new requests.
func (h *CardHandler) ListNewCards(w http.ResponseWriter, r *http.Request) {
	cards := h.cards.GetNewCards(r.Context(), limitParam(r))
	shared.RespondWithJSON(w, r, http.StatusOK, NewCardListResponse(cards))
}

// SuspendCard handles POST /cards/{id}/suspend requests.
func (h *CardHandler) SuspendCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}

	card, err := h.cards.Suspend(r.Context(), id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// ResumeCard handles POST /cards/{id}/resume requests.
func (h *CardHandler) ResumeCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}

	card, err := h.cards.Resume(r.Context(), id)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// PostponeCard handles POST /cards/{id}/postpone requests.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cardID(w, r)
	if !ok {
		return
	}

	var req PostponeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	card, err := h.cards.Postpone(r.Context(), id, req.Days)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewCardResponse(card))
}

// cardID parses the {id} path parameter, responding with 400 on failure.
func (h *CardHandler) cardID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return uuid.Nil, false
	}
	return id, true
}

// limitParam parses the optional ?limit query parameter; 0 means no cap.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
