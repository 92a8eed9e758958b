package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hoanghai1803/mealcraft/internal/models"
)

func TestRecipePrompt_NoPreferences(t *testing.T) {
	got := RecipePrompt([]string{"egg", "flour"}, nil)

	for _, want := range []string{
		"egg, flour",
		"Dietary: None",
		"Equipment available: Any",
		"Budget: $flexible",
		"flexible hours",
		"Meal times: {}",
		"title",
		"ingredients list",
		"step-by-step instructions",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRecipePrompt_WithPreferences(t *testing.T) {
	prefs := &models.PreferenceSet{
		Dietary:      []string{"vegan", "nut-free"},
		Equipment:    []string{"oven", "blender"},
		Budget:       12.5,
		CookingHours: 0,
		MealTimes:    json.RawMessage(`{ "lunch" : "12:00",  "dinner": ["18:00"] }`),
	}

	got := RecipePrompt([]string{"tofu"}, prefs)

	for _, want := range []string{
		"ingredients: tofu.",
		"Dietary: vegan, nut-free.",
		"Equipment available: oven, blender.",
		"Budget: $12.5.",
		"Cooking time available: 0 hours.",
		`Meal times: {"lunch":"12:00","dinner":["18:00"]}.`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRecipePrompt_EmptyListsFallBack(t *testing.T) {
	got := RecipePrompt([]string{"rice"}, &models.PreferenceSet{Dietary: []string{}, Budget: 5})

	if !strings.Contains(got, "Dietary: None.") || !strings.Contains(got, "Equipment available: Any.") {
		t.Errorf("empty lists did not fall back:\n%s", got)
	}
	if !strings.Contains(got, "Budget: $5.") {
		t.Errorf("budget not rendered:\n%s", got)
	}
}

func TestCompactJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "{}"},
		{"null", "{}"},
		{"not json", "{}"},
		{`{ "a" : 1 }`, `{"a":1}`},
		{`["x", "y"]`, `["x","y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := compactJSON(json.RawMessage(tt.in)); got != tt.want {
				t.Errorf("compactJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
