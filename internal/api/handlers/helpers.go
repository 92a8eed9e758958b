package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Envelope is the body of every JSON response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Recipe  string `json:"recipe,omitempty"`
	Token   string `json:"token,omitempty"`
}

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// At this point headers are already sent; log but cannot change status.
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// WriteError writes a failure envelope with the given HTTP status code.
// It is exported for middleware that rejects requests before a handler runs.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	WriteError(w, status, message)
}

// decodeJSON decodes the request body into dst. An empty body leaves dst at
// its zero value so that missing fields are reported by validation rather
// than as a parse error.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}
