package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wordloop/wordloop-api/internal/api"
	apiMiddleware "github.com/wordloop/wordloop-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordHasher)
	reviewHandler := api.NewReviewHandler(app.resolver, app.cardStore)
	sessionHandler := api.NewSessionHandler(app.lifecycle)
	progressHandler := api.NewProgressHandler(app.aggregator)
	settingsHandler := api.NewSettingsHandler(app.settingsStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review queue endpoints
			r.Get("/cards/due", reviewHandler.DueCards)
			r.Get("/cards/{id}/hint", reviewHandler.Hint)

			// Session lifecycle endpoints
			r.Post("/sessions", sessionHandler.Start)
			r.Post("/sessions/{id}/answers", sessionHandler.RecordAnswer)
			r.Post("/sessions/{id}/stop", sessionHandler.Stop)
			r.Delete("/sessions/{id}", sessionHandler.Delete)

			// Progress and settings endpoints
			r.Get("/progress/daily", progressHandler.Daily)
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
