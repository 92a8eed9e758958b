package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/hoanghai1803/mealcraft/internal/auth"
)

func TestSignup(t *testing.T) {
	store := newTestStore(t)
	svc := newAuthService(store)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "created", body: `{"email":"cook@example.com","password":"hunter22"}`, wantStatus: http.StatusOK},
		{name: "duplicate", body: `{"email":"cook@example.com","password":"other1"}`, wantStatus: http.StatusBadRequest, wantMsg: "Email already in use"},
		{name: "missing password", body: `{"email":"new@example.com"}`, wantStatus: http.StatusBadRequest, wantMsg: "Email and password are required"},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest, wantMsg: "Email and password are required"},
		{name: "malformed", body: `{"email":`, wantStatus: http.StatusBadRequest, wantMsg: "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, Signup(svc), http.MethodPost, "/api/signup", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			env := decodeEnvelope(t, w)
			if tt.wantStatus == http.StatusOK {
				if !env.Success || env.Token == "" {
					t.Errorf("got %+v, want success with token", env)
				}
				return
			}
			if env.Success || env.Message != tt.wantMsg {
				t.Errorf("got %+v, want failure %q", env, tt.wantMsg)
			}
		})
	}

	if n := countRows(t, store, "users"); n != 1 {
		t.Errorf("got %d users, want 1", n)
	}
}

func TestLogin(t *testing.T) {
	store := newTestStore(t)
	svc := newAuthService(store)

	if _, err := svc.Signup(context.Background(), "cook@example.com", "hunter22"); err != nil {
		t.Fatalf("Signup() error: %v", err)
	}

	w := do(t, Login(svc), http.MethodPost, "/api/login", `{"email":"cook@example.com","password":"hunter22"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	env := decodeEnvelope(t, w)
	claims, err := svc.Tokens().Verify(env.Token)
	if err != nil {
		t.Fatalf("Verify(login token) error: %v", err)
	}
	if claims.UserID == "" {
		t.Error("token carries no user ID")
	}

	wrong := do(t, Login(svc), http.MethodPost, "/api/login", `{"email":"cook@example.com","password":"nope"}`)
	unknown := do(t, Login(svc), http.MethodPost, "/api/login", `{"email":"ghost@example.com","password":"hunter22"}`)

	if wrong.Code != http.StatusBadRequest || unknown.Code != http.StatusBadRequest {
		t.Fatalf("got statuses %d and %d, want 400 for both", wrong.Code, unknown.Code)
	}
	if wrong.Body.String() != unknown.Body.String() {
		t.Errorf("responses differ:\n%s\n%s", wrong.Body.String(), unknown.Body.String())
	}
}

// withUser returns a handler that runs next with userID in the request
// context, standing in for the bearer auth middleware.
func withUser(userID string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

func signupUser(t *testing.T, svc *auth.Service, email string) string {
	t.Helper()

	token, err := svc.Signup(context.Background(), email, "hunter22")
	if err != nil {
		t.Fatalf("Signup(%s) error: %v", email, err)
	}
	claims, err := svc.Tokens().Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	return claims.UserID
}

func TestUpdateEmail(t *testing.T) {
	store := newTestStore(t)
	svc := newAuthService(store)
	userID := signupUser(t, svc, "old@example.com")
	signupUser(t, svc, "taken@example.com")

	tests := []struct {
		name       string
		userID     string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "no user in context", body: `{"email":"x@example.com"}`, wantStatus: http.StatusUnauthorized, wantMsg: "No token provided"},
		{name: "invalid email", userID: userID, body: `{"email":"nope"}`, wantStatus: http.StatusBadRequest, wantMsg: "Invalid email"},
		{name: "taken", userID: userID, body: `{"email":"taken@example.com"}`, wantStatus: http.StatusBadRequest, wantMsg: "Email already in use"},
		{name: "deleted user", userID: "ghost", body: `{"email":"ghost@example.com"}`, wantStatus: http.StatusUnauthorized, wantMsg: "Invalid token"},
		{name: "updated", userID: userID, body: `{"email":"new@example.com"}`, wantStatus: http.StatusOK, wantMsg: "Email updated successfully"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h http.Handler = UpdateEmail(svc)
			if tt.userID != "" {
				h = withUser(tt.userID, h)
			}

			w := do(t, h, http.MethodPost, "/api/update-email", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d; body: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if env := decodeEnvelope(t, w); env.Message != tt.wantMsg {
				t.Errorf("got message %q, want %q", env.Message, tt.wantMsg)
			}
		})
	}

	u, err := store.GetUserByEmail(context.Background(), "new@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail(new) error: %v", err)
	}
	if u.ID != userID {
		t.Errorf("got user %q, want %q", u.ID, userID)
	}
}

func TestUpdatePassword(t *testing.T) {
	store := newTestStore(t)
	svc := newAuthService(store)
	userID := signupUser(t, svc, "cook@example.com")

	before, err := store.GetUserByID(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetUserByID() error: %v", err)
	}

	w := do(t, withUser(userID, UpdatePassword(svc)), http.MethodPost, "/api/update-password", `{"password":"12345"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password: got status %d, want %d", w.Code, http.StatusBadRequest)
	}
	if env := decodeEnvelope(t, w); env.Message != "Password must be at least 6 characters" {
		t.Errorf("got message %q", env.Message)
	}

	after, _ := store.GetUserByID(context.Background(), userID)
	if after.PasswordHash != before.PasswordHash {
		t.Error("short password changed the stored hash")
	}

	w = do(t, withUser(userID, UpdatePassword(svc)), http.MethodPost, "/api/update-password", `{"password":"123456"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	if env := decodeEnvelope(t, w); env.Message != "Password updated successfully" {
		t.Errorf("got message %q", env.Message)
	}

	if _, err := svc.Login(context.Background(), "cook@example.com", "123456"); err != nil {
		t.Errorf("Login with new password error: %v", err)
	}
}
