package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/online-compiler/internal/auth"
	"github.com/sakif/online-compiler/internal/model"
	"github.com/sakif/online-compiler/internal/service"
)

// SnippetHandler exposes the snippet CRUD API.
type SnippetHandler struct {
	service *service.SnippetService
	logger  *slog.Logger
}

func NewSnippetHandler(service *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{service: service, logger: logger}
}

// snippetRequest is the write payload for create and update.
type snippetRequest struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// HandleCreate processes POST /api/snippets.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	snippet, err := h.service.Create(r.Context(), userID, &model.Snippet{
		Name:        req.Name,
		Language:    req.Language,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleList processes GET /api/snippets?limit=&offset=&mine=.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	// mine=1 narrows the listing to the caller's own snippets.
	var owner string
	if r.URL.Query().Get("mine") != "" {
		if userID, ok := auth.UserIDFromContext(r.Context()); ok {
			owner = userID
		}
	}

	snippets, err := h.service.List(r.Context(), owner, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"snippets": snippets})
}

// HandleGetByID processes GET /api/snippets/{id}.
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.service.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleUpdate processes PUT /api/snippets/{id}.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	snippet, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &model.Snippet{
		Name:        req.Name,
		Language:    req.Language,
		Code:        req.Code,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete processes DELETE /api/snippets/{id}.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
