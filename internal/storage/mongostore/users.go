package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/hoanghai1803/mealcraft/internal/models"
	"github.com/hoanghai1803/mealcraft/internal/storage"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

func (d *userDoc) toModel() *models.User {
	return &models.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

// CreateUser inserts a user. Returns storage.ErrDuplicateEmail if the email
// is taken.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	doc := &userDoc{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if err := translate(err); errors.Is(err, storage.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) findUser(ctx context.Context, filter bson.D) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.toModel(), nil
}

// GetUserByEmail returns the user with the given email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.findUser(ctx, bson.D{{Key: "email", Value: email}})
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return u, err
}

// GetUserByID returns the user with the given ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := s.findUser(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("getting user %s: %w", id, err)
	}
	return u, err
}

// UpdateUserEmail overwrites a user's email.
func (s *Store) UpdateUserEmail(ctx context.Context, id, email string) error {
	return s.setUserField(ctx, id, "email", email)
}

// UpdateUserPassword overwrites a user's password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id, passwordHash string) error {
	return s.setUserField(ctx, id, "passwordHash", passwordHash)
}

func (s *Store) setUserField(ctx context.Context, id, field string, value any) error {
	res, err := s.users.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: value}}}},
	)
	if err != nil {
		if err := translate(err); errors.Is(err, storage.ErrDuplicateEmail) {
			return err
		}
		return fmt.Errorf("updating %s for user %s: %w", field, id, err)
	}
	if res.MatchedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}
