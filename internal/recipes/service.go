// Package recipes turns saved cooking preferences and a list of ingredients
// into a generated recipe.
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hoanghai1803/mealcraft/internal/ai"
	"github.com/hoanghai1803/mealcraft/internal/models"
	"github.com/hoanghai1803/mealcraft/internal/storage"
)

// NoRecipeText is stored and returned when the model answers without text.
const NoRecipeText = "No recipe generated."

var (
	// ErrInvalidPreferences is returned when a required preference is absent.
	ErrInvalidPreferences = errors.New("invalid preference data")
	// ErrInvalidIngredients is returned when no ingredient list was sent.
	ErrInvalidIngredients = errors.New("ingredients must be a list")
)

// Store is the persistence the recipe service needs. LatestPreferenceSet
// reports storage.ErrNotFound when nothing has been saved.
type Store interface {
	CreatePreferenceSet(ctx context.Context, p *models.PreferenceSet) (*models.PreferenceSet, error)
	LatestPreferenceSet(ctx context.Context) (*models.PreferenceSet, error)
	CreateRecipe(ctx context.Context, ingredients []string, text string) (*models.Recipe, error)
}

// PreferenceInput is a preference submission. Nil fields were absent from
// the request; zero values are valid.
type PreferenceInput struct {
	Dietary      []string
	Equipment    []string
	Budget       *float64
	CookingHours *float64
	MealTimes    json.RawMessage
}

// Service saves preferences and generates recipes.
type Service struct {
	store    Store
	provider ai.Provider
}

// NewService creates a Service.
func NewService(store Store, provider ai.Provider) *Service {
	return &Service{store: store, provider: provider}
}

// SavePreferences appends a new preference set.
func (s *Service) SavePreferences(ctx context.Context, in PreferenceInput) error {
	if in.Dietary == nil || in.Equipment == nil || in.Budget == nil || in.CookingHours == nil {
		return ErrInvalidPreferences
	}

	_, err := s.store.CreatePreferenceSet(ctx, &models.PreferenceSet{
		Dietary:      in.Dietary,
		Equipment:    in.Equipment,
		Budget:       *in.Budget,
		CookingHours: *in.CookingHours,
		MealTimes:    in.MealTimes,
	})
	if err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

// Generate asks the provider for a recipe using ingredients and the latest
// preference set, stores the result and returns its text.
func (s *Service) Generate(ctx context.Context, ingredients []string) (string, error) {
	if ingredients == nil {
		return "", ErrInvalidIngredients
	}

	prefs, err := s.store.LatestPreferenceSet(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("loading preferences: %w", err)
		}
		prefs = nil
	}

	completion, err := s.provider.Generate(ctx, ai.RecipePrompt(ingredients, prefs))
	if err != nil {
		return "", fmt.Errorf("generating recipe: %w", err)
	}

	text := completion.Text
	if !completion.OK {
		slog.Warn("model response had no recipe text")
		text = NoRecipeText
	}

	if _, err := s.store.CreateRecipe(ctx, ingredients, text); err != nil {
		return "", fmt.Errorf("saving recipe: %w", err)
	}
	return text, nil
}
