package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/mealcraft/internal/auth"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateEmailRequest struct {
	Email string `json:"email"`
}

type updatePasswordRequest struct {
	Password string `json:"password"`
}

// Signup handles POST /api/signup.
func Signup(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		token, err := svc.Signup(r.Context(), body.Email, body.Password)
		if err != nil {
			writeAuthError(w, "signup", err)
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Success: true, Token: token})
	}
}

// Login handles POST /api/login.
func Login(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body credentialsRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		token, err := svc.Login(r.Context(), body.Email, body.Password)
		if err != nil {
			writeAuthError(w, "login", err)
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Success: true, Token: token})
	}
}

// UpdateEmail handles POST /api/update-email. It must run behind the bearer
// auth middleware.
func UpdateEmail(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		var body updateEmailRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := svc.UpdateEmail(r.Context(), userID, body.Email); err != nil {
			writeAuthError(w, "update email", err)
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Email updated successfully"})
	}
}

// UpdatePassword handles POST /api/update-password. It must run behind the
// bearer auth middleware.
func UpdatePassword(svc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "No token provided")
			return
		}

		var body updatePasswordRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		if err := svc.UpdatePassword(r.Context(), userID, body.Password); err != nil {
			writeAuthError(w, "update password", err)
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Password updated successfully"})
	}
}

// writeAuthError maps auth service errors onto statuses and messages.
// Bad credentials are a 400, not a 401.
func writeAuthError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, http.StatusBadRequest, "Email and password are required")
	case errors.Is(err, auth.ErrEmailInUse):
		writeError(w, http.StatusBadRequest, "Email already in use")
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidEmail):
		writeError(w, http.StatusBadRequest, "Invalid email")
	case errors.Is(err, auth.ErrPasswordTooShort):
		writeError(w, http.StatusBadRequest, "Password must be at least 6 characters")
	case errors.Is(err, auth.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid token")
	default:
		slog.Error("failed to "+op, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}
