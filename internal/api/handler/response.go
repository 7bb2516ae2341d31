package handler

import (
	"encoding/json"
	"net/http"
)

// Meta carries pagination metadata for list responses.
type Meta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// Envelope is the uniform response shape for every endpoint.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// JSON writes a success envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// JSONPage writes a success envelope with pagination metadata.
func JSONPage(w http.ResponseWriter, status int, message string, data any, meta Meta) {
	writeJSON(w, status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    &meta,
	})
}

// Error writes a failure envelope. No internal identifiers or stack
// detail leave the process; message is the whole story.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{
		Success: false,
		Message: message,
	})
}
