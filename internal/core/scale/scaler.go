// Package scale rescales a recipe's ingredient quantities and nutrition to a
// target serving count.
package scale

import (
	"math"

	"recipe-recommender/internal/core/ingredient"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"go.uber.org/zap"
)

// ScaledIngredient is one ingredient line after scaling. Non-numeric amounts
// keep the authored string in both fields.
type ScaledIngredient struct {
	Name           string `json:"name"`
	Amount         string `json:"amount"`
	Unit           string `json:"unit"`
	OriginalAmount string `json:"original_amount"`
}

// Adjustment is the outcome of rescaling a recipe. It is computed fresh per
// request and owned by the caller; nothing caches it.
type Adjustment struct {
	RecipeID         int                `json:"recipe_id"`
	OriginalServings int                `json:"original_servings"`
	TargetServings   int                `json:"target_servings"`
	Multiplier       float64            `json:"multiplier"`
	Ingredients      []ScaledIngredient `json:"ingredients"`
	Nutrition        recipe.Nutrition   `json:"nutrition"`
}

// Scale rescales r to target servings using r.Servings as the base count.
// Identical inputs always produce identical outputs.
func Scale(r *recipe.Recipe, target int, fractionTolerance float64) (*Adjustment, error) {
	if target < 1 {
		return nil, common.ErrInvalidServingCount
	}

	original := r.Servings
	if original < 1 {
		// Malformed corpus record; leave quantities untouched.
		common.LogWarn("recipe has no base serving count, scaling skipped",
			zap.Int("recipe_id", r.ID),
		)
		original = target
	}

	multiplier := float64(target) / float64(original)

	return &Adjustment{
		RecipeID:         r.ID,
		OriginalServings: original,
		TargetServings:   target,
		Multiplier:       multiplier,
		Ingredients:      ScaleLines(r.Ingredients, multiplier, fractionTolerance),
		Nutrition:        scaleNutrition(r.Nutrition, multiplier),
	}, nil
}

// ScaleLines multiplies every parseable amount by multiplier and reformats
// it. An amount that fails to parse is not an error: the original string is
// passed through unscaled, and the condition is logged and counted.
func ScaleLines(lines []recipe.IngredientLine, multiplier, fractionTolerance float64) []ScaledIngredient {
	scaled := make([]ScaledIngredient, 0, len(lines))
	for _, line := range lines {
		out := ScaledIngredient{
			Name:           line.Name,
			Unit:           line.Unit,
			OriginalAmount: line.Amount,
		}

		amount := ingredient.ParseAmount(line.Amount)
		if amount.Numeric {
			out.Amount = ingredient.FormatAmount(amount.Value*multiplier, fractionTolerance)
		} else {
			out.Amount = line.Amount
			if line.Amount != "" {
				metrics.MalformedAmountsTotal.Inc()
				common.LogWarn("non-numeric amount passed through",
					zap.String("ingredient", line.Name),
					zap.String("amount", line.Amount),
				)
			}
		}

		scaled = append(scaled, out)
	}
	return scaled
}

func scaleNutrition(n recipe.Nutrition, multiplier float64) recipe.Nutrition {
	return recipe.Nutrition{
		Calories: int(math.Round(float64(n.Calories) * multiplier)),
		Protein:  math.Round(n.Protein * multiplier),
		Carbs:    math.Round(n.Carbs * multiplier),
		Fat:      math.Round(n.Fat * multiplier),
	}
}
