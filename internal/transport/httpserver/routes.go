package httpserver

import (
	"net/http"
	"time"

	"allowance-app-go/internal/config"
	"allowance-app-go/internal/metrics"
	"allowance-app-go/internal/transport/httpserver/handler"
	authmw "allowance-app-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	sessionRateLimit       = 10
	sessionRateLimitWindow = 30 * time.Second
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, sessionAuth *authmw.SessionAuth, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	r.Use(authmw.NewMetrics(m))

	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(sessionAuth.Middleware)

		// The events stream outlives the request timeout on purpose.
		r.Get("/kids/{id}/events", handlers.KidEvents)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(30 * time.Second))

			r.Get("/health", handlers.Health)

			sessionLimiter := authmw.NewRateLimiter(sessionRateLimit, sessionRateLimitWindow)
			r.With(sessionLimiter.Middleware).Post("/auth/session", handlers.CreateSession)
			r.Post("/auth/logout", handlers.Logout)
			r.Get("/auth/me", handlers.Me)

			r.Get("/public/kids/{slug}", handlers.GetKidBySlug)
			r.Get("/slugs/{slug}", handlers.SlugAvailability)
			r.Get("/kids/{id}/transactions", handlers.ListTransactions)

			r.Post("/jobs/allowance", handlers.RunAllowanceJob)

			r.Group(func(r chi.Router) {
				r.Use(authmw.RequireUser)

				r.Get("/kids", handlers.ListKids)
				r.Post("/kids", handlers.CreateKid)
				r.Get("/kids/{id}", handlers.GetKid)
				r.Patch("/kids/{id}/settings", handlers.UpdateKidSettings)
				r.Patch("/kids/{id}/visibility", handlers.SetKidVisibility)
				r.Post("/kids/{id}/shares", handlers.AddKidShare)
				r.Delete("/kids/{id}/shares/{email}", handlers.RemoveKidShare)
				r.Delete("/kids/{id}", handlers.DeleteKid)
				r.Post("/kids/{id}/recalculate", handlers.RecalculateKidBalance)

				r.Post("/kids/{id}/transactions", handlers.CreateTransaction)
				r.Put("/kids/{id}/transactions/{txn_id}", handlers.UpdateTransaction)
				r.Delete("/kids/{id}/transactions/{txn_id}", handlers.DeleteTransaction)
			})
		})
	})

	return r
}
