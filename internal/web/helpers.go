package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/cleared-dev/basbook/internal/importer"
	"github.com/cleared-dev/basbook/internal/period"
	"github.com/cleared-dev/basbook/internal/session"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// handleError maps pipeline errors to HTTP responses.
func handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var schema *importer.SchemaError
	var selector *period.InvalidSelectorError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &schema):
		logger.Debug("schema error", zap.Strings("missing", schema.Missing))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: schema.Error(), Missing: schema.Missing})
	case errors.As(err, &selector):
		logger.Debug("invalid selector", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, selector.Error())
	case errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
	default:
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// outcome labels an error for metrics.
func outcome(err error) string {
	var schema *importer.SchemaError
	var selector *period.InvalidSelectorError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &schema):
		return "schema_error"
	case errors.As(err, &selector):
		return "invalid_selector"
	case errors.Is(err, session.ErrNotFound):
		return "no_session"
	}
	return "error"
}
