package gateway

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/chat.html
var templateFS embed.FS

var chatTemplate = template.Must(template.ParseFS(templateFS, "templates/chat.html"))

// handleUI returns an http.HandlerFunc for GET /: the embedded chat
// interface.
func (g *Gateway) handleUI() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := chatTemplate.Execute(w, map[string]string{
			"DefaultModel": g.config.Backend.DefaultModel,
		}); err != nil {
			g.logger.Error("render chat UI", "error", err)
		}
	}
}
