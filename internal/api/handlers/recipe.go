package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/mealcraft/internal/recipes"
)

type recipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

// GenerateRecipe handles POST /api/recipe. A body whose ingredients field is
// missing, null or anything but an array of strings is rejected.
func GenerateRecipe(svc *recipes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body recipeRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Ingredients must be an array")
			return
		}

		text, err := svc.Generate(r.Context(), body.Ingredients)
		if err != nil {
			if errors.Is(err, recipes.ErrInvalidIngredients) {
				writeError(w, http.StatusBadRequest, "Ingredients must be an array")
				return
			}
			slog.Error("failed to generate recipe", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to generate recipe")
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Success: true, Recipe: text})
	}
}
