package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hoanghai1803/mealcraft/internal/models"
)

type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string    `bun:"id,pk"`
	Email        string    `bun:"email,notnull"`
	PasswordHash string    `bun:"password_hash,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
}

func (r *userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

// CreateUser inserts a new user and returns it with its generated ID and
// creation time. Returns ErrDuplicateEmail if the email is already taken.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	row := &userRow{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return row.toModel(), nil
}

// GetUserByEmail returns the user with the given email.
// Returns ErrNotFound if no user has that email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := new(userRow)
	err := s.db.NewSelect().Model(row).Where("email = ?", email).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return row.toModel(), nil
}

// GetUserByID returns the user with the given ID.
// Returns ErrNotFound if the ID does not exist.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := new(userRow)
	err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return row.toModel(), nil
}

// UpdateUserEmail overwrites the email of the given user.
// Returns ErrNotFound if the user does not exist and ErrDuplicateEmail if
// another user already owns the address.
func (s *Store) UpdateUserEmail(ctx context.Context, id, email string) error {
	res, err := s.db.NewUpdate().
		Model((*userRow)(nil)).
		Set("email = ?", email).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("updating email for user %s: %w", id, err)
	}
	return checkAffected(res, id)
}

// UpdateUserPassword overwrites the stored password hash of the given user.
// Returns ErrNotFound if the user does not exist.
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.NewUpdate().
		Model((*userRow)(nil)).
		Set("password_hash = ?", passwordHash).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("updating password for user %s: %w", id, err)
	}
	return checkAffected(res, id)
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected for user %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
