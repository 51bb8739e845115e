/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Request logging
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the dashboard frontend
  5. Auth:       Bearer token on everything except login and health

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Token issuance and verification
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", h.Login)
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Everything else requires a bearer token
		r.Group(func(r chi.Router) {
			r.Use(h.Auth.Middleware)

			r.Route("/clients-suppliers", func(r chi.Router) {
				r.Get("/", h.ListParties)
				r.Post("/", h.RegisterParty)
				r.Get("/{id}", h.GetParty)
				r.Put("/{id}", h.UpdateParty)
				r.Delete("/{id}", h.DeleteParty)
				r.Post("/{id}/pay", h.RecordPayment)
				r.Post("/{id}/transactions", h.RecordTransaction)
				r.Post("/{id}/notes", h.AddNote)
				r.Put("/{id}/notes/{noteId}", h.EditNote)
				r.Delete("/{id}/notes/{noteId}", h.DeleteNote)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", h.ReportSummary)
				r.Get("/monthlySales/{year}", h.MonthlyTotals)
				r.Get("/topProducts", h.TopProducts)
				r.Get("/revenueShare", h.RevenueShare)
			})
		})
	})

	return r
}
