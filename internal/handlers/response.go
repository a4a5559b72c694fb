// Package handlers implements the HTTP endpoints of the blog API. Every
// response uses the same JSON envelope: success plus either data, a
// message, or an error with optional per-field details.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// fieldError points a validation failure at the offending input field.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// envelope is the standard response body.
type envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Details []fieldError `json:"details,omitempty"`
	Data    any          `json:"data,omitempty"`
}

// listEnvelope is the response body for paginated collections. Pagination
// fields are always present, even when zero.
type listEnvelope struct {
	Success      bool `json:"success"`
	Data         any  `json:"data"`
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	TotalCount   int  `json:"totalCount"`
	HasMorePages bool `json:"hasMorePages"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, msg string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: true, Message: msg})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

func respondInvalid(w http.ResponseWriter, details []fieldError) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Error:   "validation failed",
		Details: details,
	})
}

// serverError logs the underlying error and hides it from the client.
func serverError(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// decodeBody unmarshals a JSON request body into dst. Returns false after
// writing a 400 when the body is not valid JSON.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
