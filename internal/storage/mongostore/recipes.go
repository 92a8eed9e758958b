package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hoanghai1803/mealcraft/internal/models"
)

type recipeDoc struct {
	ID          string    `bson:"_id"`
	Ingredients []string  `bson:"ingredients"`
	RecipeText  string    `bson:"recipeText"`
	CreatedAt   time.Time `bson:"createdAt"`
}

// CreateRecipe stores a generated recipe.
func (s *Store) CreateRecipe(ctx context.Context, ingredients []string, text string) (*models.Recipe, error) {
	doc := &recipeDoc{
		ID:          uuid.NewString(),
		Ingredients: nonNil(ingredients),
		RecipeText:  text,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.recipes.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("inserting recipe: %w", err)
	}
	return &models.Recipe{
		ID:          doc.ID,
		Ingredients: doc.Ingredients,
		RecipeText:  doc.RecipeText,
		CreatedAt:   doc.CreatedAt,
	}, nil
}
