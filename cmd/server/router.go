package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/wordtrail/wordtrail/internal/api"
	"github.com/wordtrail/wordtrail/internal/api/middleware"
)

// newRouter assembles the HTTP surface. Every route below /api requires a
// valid bearer token; the health endpoint does not.
func newRouter(
	cardHandler *api.CardHandler,
	sessionHandler *api.SessionHandler,
	statsHandler *api.StatsHandler,
	authMiddleware *middleware.AuthMiddleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.TraceMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", cardHandler.AddCard)
			r.Get("/", cardHandler.ListCards)
			r.Get("/due", cardHandler.ListDueCards)
			r.Get("/new", cardHandler.ListNewCards)
			r.Get("/{id}", cardHandler.GetCard)
			r.Post("/{id}/suspend", cardHandler.SuspendCard)
			r.Post("/{id}/resume", cardHandler.ResumeCard)
			r.Post("/{id}/postpone", cardHandler.PostponeCard)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.StartSession)
			r.Get("/", sessionHandler.ListSessions)
			r.Get("/{id}", sessionHandler.GetSession)
			r.Post("/{id}/reviews", sessionHandler.ReviewCard)
			r.Post("/{id}/end", sessionHandler.EndSession)
			r.Post("/{id}/abandon", sessionHandler.AbandonSession)
		})

		r.Get("/statistics", statsHandler.GetStatistics)
	})

	return r
}
