package recipe

// Difficulty tiers used across the corpus.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// IngredientLine is one ingredient as authored: free-text name, the raw
// amount string ("1 1/2", "2", "to taste", "") and an optional unit.
type IngredientLine struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// Nutrition holds per-recipe totals for the base serving count, not
// per-serving values.
type Nutrition struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Recipe is one corpus record. The engine treats it as a read-only borrow:
// the corpus collaborator owns the data and nothing here mutates it.
type Recipe struct {
	ID            int              `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Cuisine       string           `json:"cuisine"`
	Difficulty    string           `json:"difficulty"`
	CookingTime   int              `json:"cooking_time"` // minutes
	Servings      int              `json:"servings"`
	Nutrition     Nutrition        `json:"nutrition"`
	DietaryTags   []string         `json:"dietary_tags"`
	Ingredients   []IngredientLine `json:"ingredients"`
	Instructions  []string         `json:"instructions"`
	AverageRating float64          `json:"average_rating"`
	RatingCount   int              `json:"rating_count"`
}

// HasTag reports whether the recipe carries the given dietary tag.
func (r *Recipe) HasTag(tag string) bool {
	for _, t := range r.DietaryTags {
		if t == tag {
			return true
		}
	}
	return false
}
