package gateway

import (
	"context"
	"net/http"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status          string `json:"status"` // "healthy" or "degraded"
	OllamaReachable bool   `json:"ollama_reachable"`
	DefaultModel    string `json:"default_model"`
}

// handleHealth returns an http.HandlerFunc for GET /health. The
// response is 200 either way; degradation is carried in the body.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), g.config.Backend.ProbeTimeout)
		defer cancel()

		reachable := true
		if err := g.client.Ping(ctx); err != nil {
			reachable = false
			g.logger.Warn("health probe failed", "error", err)
		}

		status := "healthy"
		if !reachable {
			status = "degraded"
		}

		writeJSON(w, http.StatusOK, HealthResponse{
			Status:          status,
			OllamaReachable: reachable,
			DefaultModel:    g.config.Backend.DefaultModel,
		})
	}
}
