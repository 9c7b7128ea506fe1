/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For when proxied
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for API clients

ROUTE GROUPS:
  /                   Web UI (splash, split editor, split table)
  /api/v1/*           JSON API
  /health             Liveness probe

SECURITY NOTE:
  No authentication middleware. Receipts are ephemeral per-session
  state; the only persisted data is participant name lists.

SEE ALSO:
  - handlers.go: Handler implementations
  - cli/serve.go: Server startup
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
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Web UI
	r.Get("/", h.Splash)
	r.Post("/receipts", h.CreateReceipt)
	r.Route("/receipts/{id}", func(r chi.Router) {
		r.Get("/", h.ShowReceipt)
		r.Get("/table", h.ShowTable)
		r.Post("/items", h.AddItemForm)
		r.Post("/items/{index}", h.UpdateItemForm)
		r.Post("/items/{index}/delete", h.DeleteItemForm)
	})

	// JSON API
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/receipts", h.CreateReceiptAPI)
		r.Route("/receipts/{id}", func(r chi.Router) {
			r.Get("/", h.GetReceiptAPI)
			r.Get("/splits", h.GetSplitsAPI)
			r.Post("/resolve", h.ResolveAPI)
			r.Post("/items", h.AddItemAPI)
			r.Patch("/items/{index}", h.UpdateItemAPI)
			r.Delete("/items/{index}", h.DeleteItemAPI)
		})
		r.Get("/groups", h.ListGroupsAPI)
	})

	return r
}
