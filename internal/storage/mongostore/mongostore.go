// Package mongostore is the MongoDB backend for mealcraft. It offers the same
// methods as storage.Store and reports the same sentinel errors, so services
// can run on either without knowing which one they have.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/hoanghai1803/mealcraft/internal/storage"
)

const defaultDatabase = "mealcraft"

const (
	usersCollection       = "users"
	preferencesCollection = "preferences"
	recipesCollection     = "recipes"
)

// Store holds a connected client and the collections mealcraft writes to.
type Store struct {
	client      *mongo.Client
	users       *mongo.Collection
	preferences *mongo.Collection
	recipes     *mongo.Collection
}

// Open connects to the MongoDB deployment at uri, verifies it is reachable
// and ensures the unique index on user email exists. The database name is
// taken from the URI path and defaults to "mealcraft".
func Open(ctx context.Context, uri string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}

	db := client.Database(databaseName(uri))
	s := &Store{
		client:      client,
		users:       db.Collection(usersCollection),
		preferences: db.Collection(preferencesCollection),
		recipes:     db.Collection(recipesCollection),
	}

	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	slog.Info("opened mongodb database", "database", db.Name())
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("creating users email index: %w", err)
	}

	_, err = s.preferences.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("creating preferences createdAt index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ping verifies the deployment is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// databaseName extracts the database from a mongodb:// or mongodb+srv:// URI.
func databaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDatabase
	}
	name := strings.TrimPrefix(u.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}

// translate maps driver errors onto the storage sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return storage.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return storage.ErrDuplicateEmail
	default:
		return err
	}
}
