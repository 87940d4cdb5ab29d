// Package shared centralizes JSON response writing so every handler
// produces the same envelopes.
package shared

import (
	"encoding/json"
	"net/http"

	dErrors "matadan/pkg/domain-errors"
)

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the JSON error envelope. Callers act on the error code;
// the message is for humans.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError translates a domain error into its HTTP response.
func WriteError(w http.ResponseWriter, err error) {
	de := dErrors.From(err)
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), ErrorResponse{
		Error:   string(de.Code),
		Message: de.Message,
	})
}

// Decode parses a JSON request body into dst, reporting a bad-request
// domain error on malformed input.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return nil
}
