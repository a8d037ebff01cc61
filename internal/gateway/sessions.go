package gateway

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SessionResponse is the JSON response for DELETE /chat/session/{id}.
type SessionResponse struct {
	Message string `json:"message"`
}

// handleDeleteSession returns an http.HandlerFunc for
// DELETE /chat/session/{id}. A missing session is not an error; the
// outcome is carried in the message.
func (g *Gateway) handleDeleteSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if g.store.Clear(id) {
			g.logger.Info("session cleared", "session", id)
			writeJSON(w, http.StatusOK, SessionResponse{Message: "Session " + id + " cleared"})
			return
		}

		writeJSON(w, http.StatusOK, SessionResponse{Message: "Session not found"})
	}
}
