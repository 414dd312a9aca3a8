package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// PlaygroundHandler serves the editor page. Templates are parsed once at
// startup and reused.
type PlaygroundHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPlaygroundHandler parses the page templates. base.html holds the frame,
// playground.html fills its content block.
func NewPlaygroundHandler(templateDir string, logger *slog.Logger) (*PlaygroundHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "playground.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PlaygroundHandler{templates: tmpl, logger: logger}, nil
}

// HandlePlayground renders GET /.
func (h *PlaygroundHandler) HandlePlayground(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base.html", nil); err != nil {
		h.logger.Error("failed to render playground page", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
