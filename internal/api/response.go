package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"procrastination-tracker/internal/database"
	"procrastination-tracker/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("⚠️ JSON encode error: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised
// is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case services.IsClientError(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrNotOwner):
		writeMessage(w, http.StatusForbidden, "access denied")
	default:
		log.Printf("❌ %s %s: %v", r.Method, r.URL.Path, err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}
