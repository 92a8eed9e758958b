package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoanghai1803/mealcraft/internal/recipes"
)

// preferencesRequest is the body of POST /api/preferences. Pointer and slice
// fields stay nil when the key is absent or null.
type preferencesRequest struct {
	Dietary      []string        `json:"dietary"`
	Equipment    []string        `json:"equipment"`
	Budget       *float64        `json:"budget"`
	CookingHours *float64        `json:"cookingHours"`
	MealTimes    json.RawMessage `json:"mealTimes"`
}

// SavePreferences handles POST /api/preferences. Every valid submission
// creates a new preference set.
func SavePreferences(svc *recipes.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body preferencesRequest
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid preference data")
			return
		}

		err := svc.SavePreferences(r.Context(), recipes.PreferenceInput{
			Dietary:      body.Dietary,
			Equipment:    body.Equipment,
			Budget:       body.Budget,
			CookingHours: body.CookingHours,
			MealTimes:    body.MealTimes,
		})
		if err != nil {
			if errors.Is(err, recipes.ErrInvalidPreferences) {
				writeError(w, http.StatusBadRequest, "Invalid preference data")
				return
			}
			slog.Error("failed to save preferences", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save preferences")
			return
		}

		writeJSON(w, http.StatusOK, Envelope{Success: true, Message: "Preferences saved successfully"})
	}
}
