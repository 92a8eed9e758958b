package models

import (
	"encoding/json"
	"time"
)

// PreferenceSet is one submission of cooking preferences. Sets are global and
// append-only; recipe generation reads the most recently created one.
type PreferenceSet struct {
	ID           string          `json:"id"`
	Dietary      []string        `json:"dietary"`
	Equipment    []string        `json:"equipment"`
	Budget       float64         `json:"budget"`
	CookingHours float64         `json:"cookingHours"`
	MealTimes    json.RawMessage `json:"mealTimes,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}
