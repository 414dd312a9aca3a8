package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/online-compiler/internal/executor"
)

// ExecuteHandler handles code execution requests.
type ExecuteHandler struct {
	exec   executor.Executor
	logger *slog.Logger
}

func NewExecuteHandler(exec executor.Executor, logger *slog.Logger) *ExecuteHandler {
	return &ExecuteHandler{exec: exec, logger: logger}
}

// HandleExecute processes POST /api/execute. Failed snippets are still HTTP
// 200 — the result body's output/error split is the contract; 4xx/5xx are
// reserved for the request itself being broken or the service failing.
func (h *ExecuteHandler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	var req executor.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid execution request body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid request body",
		})
		return
	}

	if strings.TrimSpace(req.Code) == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "No code provided",
		})
		return
	}

	h.logger.Info("executing snippet", slog.String("language", req.Language))

	result, err := h.exec.Execute(r.Context(), req)
	if err != nil {
		h.logger.Error("execution failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "internal server error during execution",
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}
