package gateway

import (
	"context"
	"net/http"
	"time"

	"github.com/flemzord/ollagate/internal/backend"
)

// ModelsResponse is the JSON response for GET /models.
type ModelsResponse struct {
	Models []backend.Model `json:"models"`
	Error  string          `json:"error,omitempty"`
}

// modelsTimeout bounds the model listing call, longer than the health
// probe since /api/tags stats every installed model on disk.
const modelsTimeout = 10 * time.Second

// handleModels returns an http.HandlerFunc for GET /models. Listing
// failure is soft: 200 with an empty list and an error string.
func (g *Gateway) handleModels() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), modelsTimeout)
		defer cancel()

		models, err := g.client.ListModels(ctx)
		if err != nil {
			g.logger.Error("model listing failed", "error", err)
			writeJSON(w, http.StatusOK, ModelsResponse{
				Models: []backend.Model{},
				Error:  err.Error(),
			})
			return
		}

		writeJSON(w, http.StatusOK, ModelsResponse{Models: models})
	}
}
