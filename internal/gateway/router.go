package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter constructs the chi mux with all routes wired.
func (g *Gateway) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/", g.handleUI())
	r.Get("/api", g.handleAPIInfo())
	r.Get("/health", g.handleHealth())
	r.Get("/models", g.handleModels())
	r.Post("/chat", g.handleChat())
	r.Delete("/chat/session/{id}", g.handleDeleteSession())
	r.Handle("/metrics", g.recorder.Handler())

	return r
}
