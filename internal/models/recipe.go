package models

import "time"

// Recipe pairs the ingredients a caller submitted with the text the language
// model produced for them.
type Recipe struct {
	ID          string    `json:"id"`
	Ingredients []string  `json:"ingredients"`
	RecipeText  string    `json:"recipeText"`
	CreatedAt   time.Time `json:"createdAt"`
}
