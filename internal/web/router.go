package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// NewRouter wires the handler's endpoints.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           60 * 15,
	}))

	r.Get("/", h.Index)
	r.Get("/healthz", h.Health)
	r.Get("/ws", h.Play)

	r.Route("/api/records", func(rr chi.Router) {
		rr.Get("/top", h.TopRecords)
		rr.Get("/{player}", h.PlayerRecord)
	})

	return r
}
