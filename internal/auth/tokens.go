// Package auth implements account management for mealcraft: signup, login,
// email and password updates, and the bearer tokens that authenticate them.
package auth

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTokenTTL is how long an issued token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned for tokens that are malformed, forged, expired
// or that name a user which no longer exists.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what a verified token says about its bearer.
type Claims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies bearer tokens bound to a user ID.
type TokenService interface {
	Issue(userID string) (string, error)
	Verify(token string) (*Claims, error)
}

// Token formats accepted by NewTokenService.
const (
	FormatJWT    = "jwt"
	FormatPASETO = "paseto"
)

// NewTokenService builds the TokenService for the given format from a shared
// secret.
func NewTokenService(format, secret string, ttl time.Duration) (TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	switch format {
	case "", FormatJWT:
		return NewJWTService(secret, ttl), nil
	case FormatPASETO:
		return NewPASETOService(secret, ttl)
	default:
		return nil, fmt.Errorf("unsupported token format: %q (use %q or %q)", format, FormatJWT, FormatPASETO)
	}
}
