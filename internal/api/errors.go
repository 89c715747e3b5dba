package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"bookstore/internal/db"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSONError writes a JSON error response
func JSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// StoreError maps a store error onto a status code: invalid input 400, not
// found 404, forbidden 403, conflict 409. Everything else is a storage
// failure, logged and reported as 500 without leaking internals.
func StoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrInvalidInput):
		JSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, db.ErrNotFound):
		JSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, db.ErrForbidden):
		JSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, db.ErrConflict):
		JSONError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("storage error: %v", err)
		JSONError(w, "Database error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}
