package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lsandoval/mnemo/internal/api"
	apiMiddleware "github.com/lsandoval/mnemo/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(app.studyService, app.logger)
	cardHandler := api.NewCardHandler(app.studyService, app.logger)
	activityHandler := api.NewActivityHandler(app.studyService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(apiMiddleware.IdentityMiddleware)

			// Session lifecycle endpoints
			r.Post("/sessions", sessionHandler.StartSession)
			r.Get("/sessions/{id}", sessionHandler.GetSession)
			r.Post("/sessions/{id}/rate", sessionHandler.RateCard)
			r.Post("/sessions/{id}/advance", sessionHandler.AdvanceSession)
			r.Post("/sessions/{id}/exit", sessionHandler.ExitSession)
			r.Post("/sessions/{id}/reset", sessionHandler.ResetSession)

			// Card scheduling endpoints
			r.Post("/cards/{id}/postpone", cardHandler.PostponeCard)

			// Progress endpoints
			r.Get("/activity", activityHandler.GetActivity)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
