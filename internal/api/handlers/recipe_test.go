package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/hoanghai1803/mealcraft/internal/ai"
	"github.com/hoanghai1803/mealcraft/internal/recipes"
)

func TestGenerateRecipe(t *testing.T) {
	store := newTestStore(t)
	svc := newRecipeService(store, stubProvider{completion: ai.Completion{Text: "Pancakes", OK: true}})

	w := do(t, GenerateRecipe(svc), http.MethodPost, "/api/recipe", `{"ingredients":["egg","flour"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}
	env := decodeEnvelope(t, w)
	if !env.Success || env.Recipe != "Pancakes" {
		t.Errorf("got %+v, want recipe Pancakes", env)
	}
	if n := countRows(t, store, "recipes"); n != 1 {
		t.Errorf("got %d recipes, want 1", n)
	}
}

func TestGenerateRecipe_NoText(t *testing.T) {
	store := newTestStore(t)
	svc := newRecipeService(store, stubProvider{})

	w := do(t, GenerateRecipe(svc), http.MethodPost, "/api/recipe", `{"ingredients":["rice"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusOK)
	}
	if env := decodeEnvelope(t, w); env.Recipe != recipes.NoRecipeText {
		t.Errorf("got recipe %q, want %q", env.Recipe, recipes.NoRecipeText)
	}
}

func TestGenerateRecipe_BadInput(t *testing.T) {
	store := newTestStore(t)
	svc := newRecipeService(store, stubProvider{completion: ai.Completion{Text: "x", OK: true}})

	for _, body := range []string{
		`{}`,
		`{"ingredients":null}`,
		`{"ingredients":"egg, flour"}`,
		`{"ingredients":{"egg":1}}`,
		`{"ingredients":[1,2]}`,
		`not json`,
	} {
		t.Run(body, func(t *testing.T) {
			w := do(t, GenerateRecipe(svc), http.MethodPost, "/api/recipe", body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want %d", w.Code, http.StatusBadRequest)
			}
			if env := decodeEnvelope(t, w); env.Message != "Ingredients must be an array" {
				t.Errorf("got message %q", env.Message)
			}
		})
	}

	if n := countRows(t, store, "recipes"); n != 0 {
		t.Errorf("got %d recipes, want 0", n)
	}
}

func TestGenerateRecipe_ProviderFailure(t *testing.T) {
	store := newTestStore(t)
	svc := newRecipeService(store, stubProvider{err: errors.New("dial tcp: connection refused")})

	w := do(t, GenerateRecipe(svc), http.MethodPost, "/api/recipe", `{"ingredients":["egg"]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want %d", w.Code, http.StatusInternalServerError)
	}
	env := decodeEnvelope(t, w)
	if env.Message != "Failed to generate recipe" {
		t.Errorf("got message %q, want %q", env.Message, "Failed to generate recipe")
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Error("internal error detail leaked into the response")
	}
}
