package recipe

import (
	"fmt"
	"os"
	"strings"

	"recipe-recommender/internal/pkg/common"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Defaults applied to corpus records that omit a field.
const (
	defaultDifficulty  = DifficultyMedium
	defaultCookingTime = 30
	defaultServings    = 4
)

// rawRecipe tolerates the two dataset shapes in the wild: flat nutrition
// fields next to the recipe, or a nested nutrition object, and ingredients
// as either structured objects or free-text lines.
type rawRecipe struct {
	ID            int               `json:"id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Cuisine       string            `json:"cuisine"`
	Difficulty    string            `json:"difficulty"`
	CookingTime   int               `json:"cooking_time"`
	Servings      int               `json:"servings"`
	Calories      int               `json:"calories"`
	Protein       float64           `json:"protein"`
	Carbs         float64           `json:"carbs"`
	Fat           float64           `json:"fat"`
	Nutrition     *Nutrition        `json:"nutrition"`
	DietaryTags   []string          `json:"dietary_tags"`
	Ingredients   []json.RawMessage `json:"ingredients"`
	Instructions  []string          `json:"instructions"`
	AverageRating float64           `json:"average_rating"`
	RatingCount   int               `json:"rating_count"`
}

type rawIngredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
}

// LoadCorpus reads the recipe dataset from a JSON file. Records missing
// ingredients or instructions are skipped, defaults fill absent fields, and
// every accepted ingredient shape is converted to an IngredientLine here so
// downstream components never branch on input shape.
func LoadCorpus(path string) ([]Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus file: %w", err)
	}
	defer f.Close()

	var raw []rawRecipe
	if err := common.DecodeJSON(f, &raw); err != nil {
		return nil, common.NewError(common.ErrCodeInvalidCorpusFile, "failed to decode corpus file", err)
	}

	recipes := make([]Recipe, 0, len(raw))
	skipped := 0
	for i, rr := range raw {
		r, ok := convertRecipe(rr, i)
		if !ok {
			skipped++
			continue
		}
		recipes = append(recipes, r)
	}

	common.LogInfo("corpus loaded",
		zap.String("path", path),
		zap.Int("recipes", len(recipes)),
		zap.Int("skipped", skipped),
	)

	return recipes, nil
}

func convertRecipe(rr rawRecipe, index int) (Recipe, bool) {
	lines := make([]IngredientLine, 0, len(rr.Ingredients))
	for _, entry := range rr.Ingredients {
		line, ok := parseIngredientEntry(entry)
		if ok && line.Name != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) == 0 || len(rr.Instructions) == 0 {
		return Recipe{}, false
	}

	r := Recipe{
		ID:            rr.ID,
		Title:         rr.Title,
		Description:   rr.Description,
		Cuisine:       rr.Cuisine,
		Difficulty:    rr.Difficulty,
		CookingTime:   rr.CookingTime,
		Servings:      rr.Servings,
		DietaryTags:   rr.DietaryTags,
		Ingredients:   lines,
		Instructions:  rr.Instructions,
		AverageRating: rr.AverageRating,
		RatingCount:   rr.RatingCount,
	}

	if rr.Nutrition != nil {
		r.Nutrition = *rr.Nutrition
	} else {
		r.Nutrition = Nutrition{
			Calories: rr.Calories,
			Protein:  rr.Protein,
			Carbs:    rr.Carbs,
			Fat:      rr.Fat,
		}
	}

	if r.ID == 0 {
		r.ID = index + 1
	}
	if r.Difficulty == "" {
		r.Difficulty = defaultDifficulty
	}
	if r.CookingTime <= 0 {
		r.CookingTime = defaultCookingTime
	}
	if r.Servings <= 0 {
		r.Servings = defaultServings
	}

	return r, true
}

// parseIngredientEntry accepts a structured {name, amount, unit} object or a
// free-text line such as "2 cups flour".
func parseIngredientEntry(entry json.RawMessage) (IngredientLine, bool) {
	trimmed := strings.TrimSpace(string(entry))
	if trimmed == "" {
		return IngredientLine{}, false
	}

	if strings.HasPrefix(trimmed, "{") {
		var ri rawIngredient
		if err := common.ParseJSONBytes(entry, &ri); err != nil {
			return IngredientLine{}, false
		}
		return IngredientLine{
			Name:   strings.TrimSpace(ri.Name),
			Amount: strings.TrimSpace(ri.Amount),
			Unit:   strings.TrimSpace(ri.Unit),
		}, true
	}

	var text string
	if err := common.ParseJSONBytes(entry, &text); err != nil {
		return IngredientLine{}, false
	}
	line := ParseIngredientText(text)
	return line, line.Name != ""
}

// measurementUnits are the unit words recognized when splitting free-text
// ingredient lines.
var measurementUnits = map[string]struct{}{
	"cup": {}, "cups": {},
	"tbsp": {}, "tablespoon": {}, "tablespoons": {},
	"tsp": {}, "teaspoon": {}, "teaspoons": {},
	"g": {}, "gram": {}, "grams": {}, "kg": {},
	"ml": {}, "l": {}, "liter": {}, "liters": {},
	"oz": {}, "ounce": {}, "ounces": {},
	"lb": {}, "lbs": {}, "pound": {}, "pounds": {},
	"pinch": {}, "dash": {},
	"clove": {}, "cloves": {},
	"slice": {}, "slices": {},
	"piece": {}, "pieces": {},
	"can": {}, "cans": {},
	"bunch": {}, "bunches": {},
	"stick": {}, "sticks": {},
}

// ParseIngredientText splits a free-text line like "2 cups flour" or
// "1 1/2 tsp salt" into amount, unit and name. Lines with no leading
// quantity become a bare name ("salt to taste" stays intact).
func ParseIngredientText(text string) IngredientLine {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return IngredientLine{}
	}

	amountEnd := 0
	if isQuantityToken(fields[0]) {
		amountEnd = 1
		// Mixed numbers: "1 1/2 cups".
		if len(fields) > 1 && isFractionToken(fields[1]) {
			amountEnd = 2
		}
	}

	if amountEnd == 0 {
		return IngredientLine{Name: strings.Join(fields, " ")}
	}

	line := IngredientLine{Amount: strings.Join(fields[:amountEnd], " ")}
	rest := fields[amountEnd:]
	if len(rest) > 1 {
		if _, ok := measurementUnits[strings.ToLower(rest[0])]; ok {
			line.Unit = rest[0]
			rest = rest[1:]
		}
	}
	line.Name = strings.Join(rest, " ")
	return line
}

func isQuantityToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '/' {
			return false
		}
	}
	return true
}

func isFractionToken(s string) bool {
	if !strings.Contains(s, "/") {
		return false
	}
	return isQuantityToken(s)
}
