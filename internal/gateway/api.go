package gateway

import "net/http"

// handleAPIInfo returns an http.HandlerFunc for GET /api: a static
// discovery document listing the available endpoints.
func (g *Gateway) handleAPIInfo() http.HandlerFunc {
	doc := map[string]any{
		"message": "ollagate chat gateway API",
		"endpoints": map[string]string{
			"chat_ui":       "GET / (Web Interface)",
			"chat":          "POST /chat",
			"models":        "GET /models",
			"clear_session": "DELETE /chat/session/{id}",
			"health":        "GET /health",
			"metrics":       "GET /metrics",
		},
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, doc)
	}
}
