// Package storage provides the SQL persistence layer for mealcraft.
//
// A Store runs on either SQLite or PostgreSQL through bun; the dialect is
// chosen when the database is opened and queries are written once for both.
// Users, preference sets and recipes each live in their own table.
package storage

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"
)

// Store wraps a bun database handle and provides typed query methods for all
// mealcraft domain entities.
type Store struct {
	db *bun.DB
}

// NewStore creates a Store backed by the given database handle.
func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *bun.DB for advanced use cases.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// isUniqueViolation reports whether err is a unique constraint failure from
// either PostgreSQL (SQLSTATE 23505) or SQLite.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
