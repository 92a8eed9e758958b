package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/hoanghai1803/mealcraft/internal/models"
)

type recipeRow struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID          string    `bun:"id,pk"`
	Ingredients string    `bun:"ingredients,notnull"`
	RecipeText  string    `bun:"recipe_text,notnull"`
	CreatedAt   time.Time `bun:"created_at,notnull"`
}

func (r *recipeRow) toModel() (*models.Recipe, error) {
	rec := &models.Recipe{
		ID:         r.ID,
		RecipeText: r.RecipeText,
		CreatedAt:  r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.Ingredients), &rec.Ingredients); err != nil {
		return nil, fmt.Errorf("decoding ingredients: %w", err)
	}
	return rec, nil
}

// CreateRecipe stores a generated recipe together with the ingredients it
// was generated from.
func (s *Store) CreateRecipe(ctx context.Context, ingredients []string, text string) (*models.Recipe, error) {
	encoded, err := json.Marshal(nonNil(ingredients))
	if err != nil {
		return nil, fmt.Errorf("encoding ingredients: %w", err)
	}

	row := &recipeRow{
		ID:          uuid.NewString(),
		Ingredients: string(encoded),
		RecipeText:  text,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return nil, fmt.Errorf("inserting recipe: %w", err)
	}
	return row.toModel()
}
