/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request, included in request logs
  2. Logger:     zerolog request line (logging.Middleware)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the calendar frontend

ROUTE GROUPS:
  /api/settings         Salary, formula, rates, currency
  /api/shifts/*         Shift templates
  /api/schedule/*       Assignments and month view
  /api/special-dates/*  Special flags
  /api/summary          Month totals
  /api/export, import   Export document
  /api/scenarios/*      Demo rotas
  /api/backups          Automatic backup trigger
  /api/reset            Clear everything (dev only)

SECURITY NOTE:
  No authentication middleware. The server is meant to run locally for a
  single user.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/shift-pay/logging"
)

// DefaultAllowedOrigins covers the usual frontend dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(h.Logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.UpdateSettings)

		// Shift template routes
		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.ListShifts)
			r.Post("/", h.CreateShift)
			r.Get("/eligible", h.EligibleShifts)
			r.Put("/{id}", h.UpdateShift)
			r.Delete("/{id}", h.DeleteShift)
		})

		// Schedule routes
		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", h.GetSchedule)
			r.Post("/recurring", h.FillRecurring)
			r.Delete("/months/{year}/{month}", h.ClearMonth)
			r.Post("/{date}/toggle", h.ToggleShift)
			r.Delete("/{date}", h.ClearDate)
		})

		r.Post("/special-dates/{date}/toggle", h.ToggleSpecialDate)
		r.Put("/title", h.SetTitle)
		r.Get("/summary", h.GetSummary)

		// Data routes
		r.Get("/export", h.Export)
		r.Post("/import", h.Import)
		r.Post("/backups", h.RunBackup)
		r.Post("/reset", h.ResetDatabase)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
