// internal/handlers/respond.go
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// responder writes JSON bodies for every handler in the package.
type responder struct {
	logger *slog.Logger
}

func (rs responder) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (rs responder) respondError(w http.ResponseWriter, status int, message string) {
	rs.respondJSON(w, status, map[string]string{"error": message})
}

// respondBadRequest hides decoder details behind a generic message.
func (rs responder) respondBadRequest(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidBody) {
		rs.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	rs.respondError(w, http.StatusBadRequest, err.Error())
}
