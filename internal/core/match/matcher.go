package match

import (
	"sort"
	"strings"

	"recipe-recommender/internal/core/ingredient"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"
)

// DefaultTopK bounds result lists when the caller does not specify a limit.
const DefaultTopK = 20

// Cooking-time buckets accepted by Filters.TimeBucket.
const (
	TimeBucketQuick    = "Quick"    // under 30 minutes
	TimeBucketModerate = "Moderate" // 30 to 60 minutes
	TimeBucketLong     = "Long"     // over 60 minutes
)

// Filters narrows match candidates. Every field defaults to "no constraint";
// a filtered-out recipe is dropped regardless of its score.
type Filters struct {
	DietaryTags []string // recipe must carry ALL requested tags
	Difficulty  string   // exact match
	Cuisine     string   // exact match, case-insensitive
	TimeBucket  string   // Quick, Moderate or Long
}

// Allows reports whether the recipe passes every constraint.
func (f Filters) Allows(r *recipe.Recipe) bool {
	for _, tag := range f.DietaryTags {
		if !r.HasTag(tag) {
			return false
		}
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	if f.Cuisine != "" && !strings.EqualFold(r.Cuisine, f.Cuisine) {
		return false
	}
	switch f.TimeBucket {
	case TimeBucketQuick:
		if r.CookingTime >= 30 {
			return false
		}
	case TimeBucketModerate:
		if r.CookingTime < 30 || r.CookingTime > 60 {
			return false
		}
	case TimeBucketLong:
		if r.CookingTime <= 60 {
			return false
		}
	}
	return true
}

// Canonical returns an order-independent string form of the filters, used as
// part of the cache key.
func (f Filters) Canonical() string {
	tags := make([]string, len(f.DietaryTags))
	copy(tags, f.DietaryTags)
	sort.Strings(tags)

	var sb strings.Builder
	sb.WriteString("tags=")
	sb.WriteString(strings.Join(tags, ","))
	sb.WriteString("|difficulty=")
	sb.WriteString(f.Difficulty)
	sb.WriteString("|cuisine=")
	sb.WriteString(strings.ToLower(f.Cuisine))
	sb.WriteString("|time=")
	sb.WriteString(f.TimeBucket)
	return sb.String()
}

// MatchResult is one ranked recommendation. MatchedIngredients is the
// intersection of the query's normalized tokens and the recipe's normalized
// ingredient names, sorted.
type MatchResult struct {
	Recipe             *recipe.Recipe `json:"recipe"`
	Score              float64        `json:"score"`
	MatchedIngredients []string       `json:"matched_ingredients"`
	Rank               int            `json:"rank"`
}

// Match scores every recipe in the index against the query tokens and
// returns up to topK results ordered by score descending, then rating mean
// descending, then recipe id ascending. Tokens are normalized here; a query
// with no usable tokens after normalization fails with ErrEmptyQuery.
// Recipes with zero similarity never appear in the result.
func (idx *Index) Match(tokens []string, filters Filters, topK int) ([]MatchResult, error) {
	normalized := ingredient.NormalizeSet(tokens)
	if len(normalized) == 0 {
		return nil, common.ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	qvec := idx.VectorizeQuery(normalized)
	qnorm := vectorNorm(qvec)

	results := make([]MatchResult, 0, topK)
	for i := range idx.recipes {
		r := &idx.recipes[i]
		if !filters.Allows(r) {
			continue
		}
		score := cosine(qvec, idx.vectors[i], qnorm, idx.norms[i])
		if score <= 0 {
			continue
		}
		results = append(results, MatchResult{
			Recipe:             r,
			Score:              score,
			MatchedIngredients: idx.matchedIngredients(normalized, i),
		})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		if results[a].Recipe.AverageRating != results[b].Recipe.AverageRating {
			return results[a].Recipe.AverageRating > results[b].Recipe.AverageRating
		}
		return results[a].Recipe.ID < results[b].Recipe.ID
	})

	if len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

func (idx *Index) matchedIngredients(normalized []string, doc int) []string {
	matched := make([]string, 0, len(normalized))
	for _, token := range normalized {
		if _, ok := idx.docTerms[doc][token]; ok {
			matched = append(matched, token)
		}
	}
	// normalized is sorted, so matched is too.
	return matched
}
