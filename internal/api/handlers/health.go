package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Root handles GET / with a plain-text liveness message.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Mealcraft API is running"))
	}
}

// Ping handles GET /api/test.
func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Server is working!"})
	}
}

// Pinger is a backing store that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ready handles GET /api/ready. It answers 503 while the store is
// unreachable.
func Ready(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			slog.Error("readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "ready"})
	}
}
