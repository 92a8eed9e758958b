package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtClaims is the token payload: the user ID under "id" plus the
// registered iat and exp claims.
type jwtClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTService issues HS256-signed JWTs.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ TokenService = (*JWTService)(nil)

// NewJWTService creates a JWTService signing with secret.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for userID that expires after the configured TTL.
func (s *JWTService) Issue(userID string) (string, error) {
	now := s.now().UTC()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token. Any failure is reported
// as ErrInvalidToken.
func (s *JWTService) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	var c jwtClaims
	parsed, err := parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || c.UserID == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{
		UserID:    c.UserID,
		ExpiresAt: c.ExpiresAt.Time,
	}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time
	}
	return claims, nil
}
