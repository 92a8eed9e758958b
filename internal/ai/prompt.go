package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/hoanghai1803/mealcraft/internal/models"
)

// Placeholders used when no preference set exists or a field is empty.
const (
	NoDietary      = "None"
	AnyEquipment   = "Any"
	FlexibleAmount = "flexible"
	NoMealTimes    = "{}"
)

const recipePromptTmpl = `Create a recipe using the following ingredients: %s.
Dietary: %s.
Equipment available: %s.
Budget: $%s.
Cooking time available: %s hours.
Meal times: %s.
Respond with a title, an ingredients list, and step-by-step instructions.`

// RecipePrompt builds the generation prompt for ingredients under prefs.
// A nil prefs renders every preference as its placeholder.
func RecipePrompt(ingredients []string, prefs *models.PreferenceSet) string {
	dietary, equipment := NoDietary, AnyEquipment
	budget, hours := FlexibleAmount, FlexibleAmount
	mealTimes := NoMealTimes

	if prefs != nil {
		if len(prefs.Dietary) > 0 {
			dietary = strings.Join(prefs.Dietary, ", ")
		}
		if len(prefs.Equipment) > 0 {
			equipment = strings.Join(prefs.Equipment, ", ")
		}
		budget = formatNumber(prefs.Budget)
		hours = formatNumber(prefs.CookingHours)
		mealTimes = compactJSON(prefs.MealTimes)
	}

	return fmt.Sprintf(recipePromptTmpl,
		strings.Join(ingredients, ", "), dietary, equipment, budget, hours, mealTimes)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// compactJSON renders raw on one line, or "{}" when absent or invalid.
func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return NoMealTimes
	}
	var b bytes.Buffer
	if err := json.Compact(&b, raw); err != nil {
		return NoMealTimes
	}
	if b.String() == "null" {
		return NoMealTimes
	}
	return b.String()
}
