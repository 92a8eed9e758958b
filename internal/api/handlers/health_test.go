package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReady(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantMsg    string
	}{
		{name: "reachable", wantStatus: http.StatusOK, wantMsg: "ready"},
		{name: "unreachable", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantMsg: "Database unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := pingerFunc(func(context.Context) error { return tt.pingErr })

			w := do(t, Ready(db), http.MethodGet, "/api/ready", "")
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatus)
			}
			env := decodeEnvelope(t, w)
			if env.Success != (tt.pingErr == nil) || env.Message != tt.wantMsg {
				t.Errorf("got %+v", env)
			}
		})
	}
}
