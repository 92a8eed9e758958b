package auth

import (
	"crypto/sha256"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// PASETOService issues v4.local tokens (XChaCha20-Poly1305). The 32-byte key
// is the SHA-256 digest of the configured secret.
type PASETOService struct {
	key paseto.V4SymmetricKey
	ttl time.Duration
	now func() time.Time
}

var _ TokenService = (*PASETOService)(nil)

// NewPASETOService derives a symmetric key from secret.
func NewPASETOService(secret string, ttl time.Duration) (*PASETOService, error) {
	sum := sha256.Sum256([]byte(secret))
	key, err := paseto.V4SymmetricKeyFromBytes(sum[:])
	if err != nil {
		return nil, fmt.Errorf("creating symmetric key: %w", err)
	}
	return &PASETOService{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue encrypts a token for userID.
func (s *PASETOService) Issue(userID string) (string, error) {
	now := s.now().UTC()

	token := paseto.NewToken()
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.ttl))
	token.SetString("id", userID)

	return token.V4Encrypt(s.key, nil), nil
}

// Verify decrypts token and checks its expiry against the service clock.
func (s *PASETOService) Verify(token string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	parsed, err := parser.ParseV4Local(s.key, token, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := parsed.GetString("id")
	if err != nil || userID == "" {
		return nil, ErrInvalidToken
	}
	exp, err := parsed.GetExpiration()
	if err != nil || !s.now().Before(exp) {
		return nil, ErrInvalidToken
	}
	iat, err := parsed.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &Claims{UserID: userID, IssuedAt: iat, ExpiresAt: exp}, nil
}
