package handler

import (
	"net/http"

	"github.com/sakif/online-compiler/internal/executor"
)

// HandleLanguages serves GET /api/languages: the fixed catalog of supported
// language identifiers the editor populates its dropdown from.
func HandleLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]executor.Language{
		"languages": executor.Languages(),
	})
}

// HandleHealth serves GET /health.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "Online Compiler API is running",
	})
}
