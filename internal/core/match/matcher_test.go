package match

import (
	"testing"

	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pancakeCorpus() []recipe.Recipe {
	return []recipe.Recipe{
		{
			ID:          1,
			Title:       "Pancakes",
			Difficulty:  recipe.DifficultyEasy,
			Cuisine:     "American",
			CookingTime: 20,
			Servings:    4,
			DietaryTags: []string{"Vegetarian"},
			Ingredients: []recipe.IngredientLine{
				{Name: "flour", Amount: "2", Unit: "cups"},
				{Name: "egg", Amount: "1"},
				{Name: "milk", Amount: "1", Unit: "cup"},
			},
			Instructions:  []string{"Mix", "Fry"},
			AverageRating: 4.2,
		},
		{
			ID:          2,
			Title:       "Vegan Flatbread",
			Difficulty:  recipe.DifficultyMedium,
			Cuisine:     "Indian",
			CookingTime: 45,
			Servings:    2,
			DietaryTags: []string{"Vegan", "Vegetarian"},
			Ingredients: []recipe.IngredientLine{
				{Name: "flour", Amount: "3", Unit: "cups"},
				{Name: "water", Amount: "1", Unit: "cup"},
			},
			Instructions:  []string{"Knead", "Bake"},
			AverageRating: 4.8,
		},
		{
			ID:          3,
			Title:       "Omelette",
			Difficulty:  recipe.DifficultyEasy,
			Cuisine:     "French",
			CookingTime: 10,
			Servings:    1,
			DietaryTags: []string{"Vegetarian", "Gluten-Free"},
			Ingredients: []recipe.IngredientLine{
				{Name: "egg", Amount: "3"},
				{Name: "butter", Amount: "1", Unit: "tbsp"},
			},
			Instructions:  []string{"Whisk", "Cook"},
			AverageRating: 4.5,
		},
	}
}

func TestBuildIndexEmptyCorpus(t *testing.T) {
	_, err := BuildIndex(nil)
	assert.ErrorIs(t, err, common.ErrEmptyCorpus)

	// Recipes whose ingredient names normalize away also yield no index.
	_, err = BuildIndex([]recipe.Recipe{
		{ID: 1, Ingredients: []recipe.IngredientLine{{Name: "   "}}},
	})
	assert.ErrorIs(t, err, common.ErrEmptyCorpus)
}

func TestBuildIndexDeterministic(t *testing.T) {
	corpus := pancakeCorpus()
	a, err := BuildIndex(corpus)
	require.NoError(t, err)
	b, err := BuildIndex(corpus)
	require.NoError(t, err)

	resA, err := a.Match([]string{"flour", "egg"}, Filters{}, 10)
	require.NoError(t, err)
	resB, err := b.Match([]string{"flour", "egg"}, Filters{}, 10)
	require.NoError(t, err)

	require.Equal(t, len(resA), len(resB))
	for i := range resA {
		assert.Equal(t, resA[i].Recipe.ID, resB[i].Recipe.ID)
		assert.InDelta(t, resA[i].Score, resB[i].Score, 1e-12)
	}
}

func TestMatchSingleRecipeSingleIngredient(t *testing.T) {
	idx, err := BuildIndex([]recipe.Recipe{pancakeCorpus()[0]})
	require.NoError(t, err)

	results, err := idx.Match([]string{"flour"}, Filters{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 1, results[0].Recipe.ID)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, []string{"flour"}, results[0].MatchedIngredients)
	assert.Equal(t, 1, results[0].Rank)
}

func TestMatchEmptyQuery(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	_, err = idx.Match(nil, Filters{}, 10)
	assert.ErrorIs(t, err, common.ErrEmptyQuery)

	_, err = idx.Match([]string{"", "   "}, Filters{}, 10)
	assert.ErrorIs(t, err, common.ErrEmptyQuery)
}

func TestMatchExcludesZeroScores(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	results, err := idx.Match([]string{"egg"}, Filters{}, 10)
	require.NoError(t, err)

	for _, res := range results {
		assert.Greater(t, res.Score, 0.0)
		assert.NotEqual(t, 2, res.Recipe.ID, "flatbread has no egg and must not appear")
	}
}

func TestMatchOutOfVocabularyQuery(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	results, err := idx.Match([]string{"dragonfruit"}, Filters{}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchOrderingAndTieBreaks(t *testing.T) {
	// Identical ingredient documents force identical scores; ordering then
	// falls back to rating mean descending, then id ascending.
	corpus := []recipe.Recipe{
		{ID: 5, AverageRating: 4.0, Ingredients: []recipe.IngredientLine{{Name: "rice"}}, Instructions: []string{"x"}},
		{ID: 2, AverageRating: 4.5, Ingredients: []recipe.IngredientLine{{Name: "rice"}}, Instructions: []string{"x"}},
		{ID: 3, AverageRating: 4.0, Ingredients: []recipe.IngredientLine{{Name: "rice"}}, Instructions: []string{"x"}},
	}
	idx, err := BuildIndex(corpus)
	require.NoError(t, err)

	results, err := idx.Match([]string{"rice"}, Filters{}, 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []int{2, 3, 5}, []int{results[0].Recipe.ID, results[1].Recipe.ID, results[2].Recipe.ID})
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
		assert.Equal(t, i+1, results[i].Rank)
	}
}

func TestMatchDietaryFilterRequiresAllTags(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	// Pancakes match "flour" and "egg" best but lack the Vegan tag.
	results, err := idx.Match([]string{"flour", "egg"}, Filters{DietaryTags: []string{"Vegan"}}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Recipe.ID)

	// Requiring both tags keeps only recipes carrying both.
	results, err = idx.Match([]string{"flour"}, Filters{DietaryTags: []string{"Vegan", "Vegetarian"}}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Recipe.ID)
}

func TestMatchDifficultyAndCuisineFilters(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	results, err := idx.Match([]string{"flour"}, Filters{Difficulty: recipe.DifficultyMedium}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Recipe.ID)

	// Cuisine matching is case-insensitive.
	results, err = idx.Match([]string{"flour"}, Filters{Cuisine: "american"}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Recipe.ID)
}

func TestMatchTimeBucketFilter(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	results, err := idx.Match([]string{"flour", "egg"}, Filters{TimeBucket: TimeBucketQuick}, 10)
	require.NoError(t, err)
	for _, res := range results {
		assert.Less(t, res.Recipe.CookingTime, 30)
	}

	results, err = idx.Match([]string{"flour", "egg"}, Filters{TimeBucket: TimeBucketModerate}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Recipe.ID)

	results, err = idx.Match([]string{"flour", "egg"}, Filters{TimeBucket: TimeBucketLong}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchTruncatesToTopK(t *testing.T) {
	corpus := make([]recipe.Recipe, 0, 30)
	for i := 1; i <= 30; i++ {
		corpus = append(corpus, recipe.Recipe{
			ID:          i,
			Ingredients: []recipe.IngredientLine{{Name: "rice"}},
			Instructions: []string{
				"cook",
			},
		})
	}
	idx, err := BuildIndex(corpus)
	require.NoError(t, err)

	results, err := idx.Match([]string{"rice"}, Filters{}, 7)
	require.NoError(t, err)
	assert.Len(t, results, 7)

	// topK <= 0 falls back to the package default.
	results, err = idx.Match([]string{"rice"}, Filters{}, 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestMatchNormalizesQueryTokens(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	// "Eggs" normalizes to "egg" and matches the corpus' normalized names.
	results, err := idx.Match([]string{"  Eggs "}, Filters{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, []string{"egg"}, results[0].MatchedIngredients)
}

func TestFiltersCanonicalOrderIndependent(t *testing.T) {
	a := Filters{DietaryTags: []string{"Vegan", "Gluten-Free"}, Cuisine: "Indian"}
	b := Filters{DietaryTags: []string{"Gluten-Free", "Vegan"}, Cuisine: "indian"}
	assert.Equal(t, a.Canonical(), b.Canonical())
}

func TestIndexRecipeLookup(t *testing.T) {
	idx, err := BuildIndex(pancakeCorpus())
	require.NoError(t, err)

	r := idx.Recipe(3)
	require.NotNil(t, r)
	assert.Equal(t, "Omelette", r.Title)

	assert.Nil(t, idx.Recipe(99))
	assert.Equal(t, 3, idx.Size())
}
