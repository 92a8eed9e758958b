package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/hoanghai1803/mealcraft/internal/ai"
	"github.com/hoanghai1803/mealcraft/internal/auth"
	"github.com/hoanghai1803/mealcraft/internal/recipes"
	"github.com/hoanghai1803/mealcraft/internal/storage"
)

// newTestStore creates an in-memory SQLite store with migrations applied. It
// registers a cleanup function to close the database when the test completes.
func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return storage.NewStore(db)
}

func newAuthService(store *storage.Store) *auth.Service {
	return auth.NewService(store, auth.NewJWTService("test-secret", auth.DefaultTokenTTL), bcrypt.MinCost)
}

// stubProvider returns a fixed completion.
type stubProvider struct {
	completion ai.Completion
	err        error
}

func (s stubProvider) Generate(context.Context, string) (ai.Completion, error) {
	return s.completion, s.err
}

func newRecipeService(store *storage.Store, p ai.Provider) *recipes.Service {
	return recipes.NewService(store, p)
}

// do runs handler against a request with the given JSON body.
func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	return w
}

func countRows(t *testing.T, store *storage.Store, table string) int {
	t.Helper()

	var n int
	if err := store.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
