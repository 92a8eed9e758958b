package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/hoanghai1803/mealcraft/internal/models"
	"github.com/hoanghai1803/mealcraft/internal/storage"
)

// MinPasswordLength is the shortest password UpdatePassword accepts,
// counted in characters.
const MinPasswordLength = 6

// Errors returned by Service. Handlers map them onto HTTP statuses.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrPasswordTooLong    = errors.New("password too long")
)

// UserStore is the persistence the auth service needs. Implementations
// report storage.ErrNotFound and storage.ErrDuplicateEmail.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUserEmail(ctx context.Context, id, email string) error
	UpdateUserPassword(ctx context.Context, id, passwordHash string) error
}

// Service handles account operations.
type Service struct {
	users      UserStore
	tokens     TokenService
	bcryptCost int
}

// NewService creates a Service. A non-positive bcryptCost means
// bcrypt.DefaultCost.
func NewService(users UserStore, tokens TokenService, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

// Tokens returns the token service used to issue and verify bearer tokens.
func (s *Service) Tokens() TokenService {
	return s.tokens
}

// Signup registers a new user and returns a token for it.
func (s *Service) Signup(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return "", ErrEmailInUse
	case !errors.Is(err, storage.ErrNotFound):
		return "", fmt.Errorf("checking email: %w", err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return "", err
	}

	user, err := s.users.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateEmail) {
			return "", ErrEmailInUse
		}
		return "", fmt.Errorf("creating user: %w", err)
	}

	return s.tokens.Issue(user.ID)
}

// Login checks credentials and returns a fresh token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}

// UpdateEmail changes the email of the user with userID.
func (s *Service) UpdateEmail(ctx context.Context, userID, email string) error {
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil && existing.ID != userID:
		return ErrEmailInUse
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("checking email: %w", err)
	}

	if err := s.users.UpdateUserEmail(ctx, userID, email); err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			return ErrEmailInUse
		case errors.Is(err, storage.ErrNotFound):
			return ErrInvalidToken
		}
		return fmt.Errorf("updating email: %w", err)
	}
	return nil
}

// UpdatePassword replaces the password of the user with userID. Short
// passwords and unknown users are rejected before any hashing.
func (s *Service) UpdatePassword(ctx context.Context, userID, password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	if _, err := s.users.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("looking up user: %w", err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	if err := s.users.UpdateUserPassword(ctx, userID, hash); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("updating password: %w", err)
	}
	return nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
