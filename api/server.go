/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/attendance/*     Punches, daily report, disputes
  /api/employees/*      Employee management
  /api/penalties/*      Charge sheet management
  /api/payroll/*        Generation, records, runs

SECURITY NOTE:
  No authentication middleware. Identity is established upstream; every
  endpoint takes explicit employee ids. Payslip access relies on the
  unguessable record id.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Attendance routes
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/check-in", h.CheckIn)
			r.Post("/check-out", h.CheckOut)
			r.Get("/daily", h.DailyReport)
			r.Post("/mark", h.ManualMark)
			r.Route("/disputes", func(r chi.Router) {
				r.Get("/", h.ListDisputes)
				r.Post("/", h.SubmitDispute)
				r.Post("/{id}/resolve", h.ResolveDispute)
			})
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
			r.Get("/{id}", h.GetEmployee)
		})

		// Penalty routes
		r.Route("/penalties", func(r chi.Router) {
			r.Get("/", h.ListPenalties)
			r.Post("/", h.IssuePenalty)
			r.Delete("/{id}", h.DeletePenalty)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/generate", h.GeneratePayroll)
			r.Get("/records", h.ListPayrollRecords)
			r.Get("/records/{id}", h.GetPayslip)
			r.Get("/runs", h.ListPayrollRuns)
		})
	})

	return r
}
