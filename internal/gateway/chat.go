package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/chat"
)

// ChatRequest is the JSON body for POST /chat.
type ChatRequest struct {
	Message   string           `json:"message"`
	Model     string           `json:"model,omitempty"`
	SessionID string           `json:"sessionId,omitempty"`
	Options   *backend.Options `json:"options,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleChat returns an http.HandlerFunc for POST /chat.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), g.config.Backend.ChatTimeout)
		defer cancel()

		resp, err := g.orchestrator.HandleChat(ctx, chat.Request{
			Message:   req.Message,
			Model:     req.Model,
			SessionID: req.SessionID,
			Options:   req.Options,
		})
		if err != nil {
			g.writeChatError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// writeChatError maps orchestrator failures onto HTTP responses: the
// backend's own status is forwarded with a generic body, transport
// failures become 503, and caller aborts get no body at all.
func (g *Gateway) writeChatError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		// Caller is gone; nothing useful to write.
		return
	}

	if se, ok := backend.AsStatusError(err); ok {
		writeJSON(w, se.Code, errorResponse{Error: "inference server error"})
		return
	}
	if errors.Is(err, backend.ErrUnreachable) || errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "inference server unreachable"})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}
