// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"net/http"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps service errors onto HTTP statuses: not-found -> 404,
// request/validation errors -> 400, everything else -> 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case appErrors.IsNotFound(err):
		status = http.StatusNotFound
	case appErrors.IsRequestError(err):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{"error": err.Error()})
}
