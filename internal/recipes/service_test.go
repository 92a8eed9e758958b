package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hoanghai1803/mealcraft/internal/ai"
	"github.com/hoanghai1803/mealcraft/internal/storage"
)

// fakeProvider records prompts and returns a canned completion.
type fakeProvider struct {
	completion ai.Completion
	err        error
	prompts    []string
}

func (f *fakeProvider) Generate(_ context.Context, prompt string) (ai.Completion, error) {
	f.prompts = append(f.prompts, prompt)
	return f.completion, f.err
}

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()

	db, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	return storage.NewStore(db)
}

func countRows(t *testing.T, store *storage.Store, table string) int {
	t.Helper()

	var n int
	if err := store.DB().QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}

func float(f float64) *float64 { return &f }

func TestSavePreferences(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, &fakeProvider{})
	ctx := context.Background()

	valid := PreferenceInput{
		Dietary:      []string{"vegan"},
		Equipment:    []string{},
		Budget:       float(0),
		CookingHours: float(0),
	}

	tests := []struct {
		name    string
		in      PreferenceInput
		wantErr bool
	}{
		{name: "valid with zeros", in: valid},
		{name: "missing dietary", in: PreferenceInput{Equipment: []string{}, Budget: float(1), CookingHours: float(1)}, wantErr: true},
		{name: "missing equipment", in: PreferenceInput{Dietary: []string{}, Budget: float(1), CookingHours: float(1)}, wantErr: true},
		{name: "missing budget", in: PreferenceInput{Dietary: []string{}, Equipment: []string{}, CookingHours: float(1)}, wantErr: true},
		{name: "missing cooking hours", in: PreferenceInput{Dietary: []string{}, Equipment: []string{}, Budget: float(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := countRows(t, store, "preference_sets")

			err := svc.SavePreferences(ctx, tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPreferences) {
					t.Fatalf("got error %v, want ErrInvalidPreferences", err)
				}
				if after := countRows(t, store, "preference_sets"); after != before {
					t.Errorf("got %d rows, want %d", after, before)
				}
				return
			}
			if err != nil {
				t.Fatalf("SavePreferences() error: %v", err)
			}
			if after := countRows(t, store, "preference_sets"); after != before+1 {
				t.Errorf("got %d rows, want %d", after, before+1)
			}
		})
	}
}

func TestGenerate_NoPreferences(t *testing.T) {
	store := newTestStore(t)
	provider := &fakeProvider{completion: ai.Completion{Text: "Crepes", OK: true}}
	svc := NewService(store, provider)
	ctx := context.Background()

	got, err := svc.Generate(ctx, []string{"egg", "flour"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != "Crepes" {
		t.Errorf("got %q, want %q", got, "Crepes")
	}

	if len(provider.prompts) != 1 {
		t.Fatalf("got %d provider calls, want 1", len(provider.prompts))
	}
	prompt := provider.prompts[0]
	for _, want := range []string{"egg, flour", "Dietary: None", "Equipment available: Any", "$flexible"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	var ingredients, text string
	err = store.DB().QueryRowContext(ctx, "SELECT ingredients, recipe_text FROM recipes").Scan(&ingredients, &text)
	if err != nil {
		t.Fatalf("reading stored recipe: %v", err)
	}
	if ingredients != `["egg","flour"]` {
		t.Errorf("got stored ingredients %s, want [\"egg\",\"flour\"]", ingredients)
	}
	if text != "Crepes" {
		t.Errorf("got stored text %q, want %q", text, "Crepes")
	}
}

func TestGenerate_UsesLatestPreferences(t *testing.T) {
	store := newTestStore(t)
	provider := &fakeProvider{completion: ai.Completion{Text: "Curry", OK: true}}
	svc := NewService(store, provider)
	ctx := context.Background()

	err := svc.SavePreferences(ctx, PreferenceInput{
		Dietary:      []string{"vegetarian"},
		Equipment:    []string{"stove"},
		Budget:       float(20),
		CookingHours: float(1),
		MealTimes:    json.RawMessage(`{"dinner":"19:00"}`),
	})
	if err != nil {
		t.Fatalf("SavePreferences() error: %v", err)
	}

	if _, err := svc.Generate(ctx, []string{"chickpeas"}); err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	prompt := provider.prompts[0]
	for _, want := range []string{"Dietary: vegetarian", "Equipment available: stove", "Budget: $20", `{"dinner":"19:00"}`} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestGenerate_MissingTextIsSubstituted(t *testing.T) {
	store := newTestStore(t)
	svc := NewService(store, &fakeProvider{completion: ai.Completion{OK: false}})
	ctx := context.Background()

	got, err := svc.Generate(ctx, []string{"rice"})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got != NoRecipeText {
		t.Errorf("got %q, want %q", got, NoRecipeText)
	}

	var text string
	if err := store.DB().QueryRowContext(ctx, "SELECT recipe_text FROM recipes").Scan(&text); err != nil {
		t.Fatalf("reading stored recipe: %v", err)
	}
	if text != NoRecipeText {
		t.Errorf("got stored text %q, want %q", text, NoRecipeText)
	}
}

func TestGenerate_Errors(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	svc := NewService(store, &fakeProvider{})
	if _, err := svc.Generate(ctx, nil); !errors.Is(err, ErrInvalidIngredients) {
		t.Errorf("nil ingredients: got error %v, want ErrInvalidIngredients", err)
	}

	failing := NewService(store, &fakeProvider{err: errors.New("connection refused")})
	if _, err := failing.Generate(ctx, []string{"egg"}); err == nil {
		t.Error("expected provider error, got nil")
	}

	if n := countRows(t, store, "recipes"); n != 0 {
		t.Errorf("got %d recipes after failures, want 0", n)
	}
}
