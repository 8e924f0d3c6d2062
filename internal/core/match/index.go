// Package match implements the TF-IDF vector index over the recipe corpus
// and the cosine-similarity matcher that ranks recipes against an
// ingredient query.
package match

import (
	"math"

	"recipe-recommender/internal/core/ingredient"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/pkg/common"

	"go.uber.org/zap"
)

// Index is an immutable TF-IDF representation of one corpus snapshot. Build
// a new Index and swap it in atomically rather than mutating one in place.
type Index struct {
	recipes []recipe.Recipe
	byID    map[int]int // recipe id -> position

	vocabulary map[string]int // normalized term -> column
	idf        []float64      // per column
	vectors    []sparseVector // per recipe, TF-IDF weighted
	norms      []float64      // per recipe, euclidean norm
	docTerms   []map[string]struct{} // per recipe, distinct normalized names
}

type sparseVector map[int]float64

// BuildIndex constructs an Index from the corpus snapshot. It is
// deterministic given the same corpus and normalization. Recipes whose
// ingredient lists normalize to nothing stay in the corpus but can never
// match. When no recipe yields a usable document the build fails with
// ErrEmptyCorpus and the caller keeps whatever index it had.
func BuildIndex(recipes []recipe.Recipe) (*Index, error) {
	idx := &Index{
		recipes:    recipes,
		byID:       make(map[int]int, len(recipes)),
		vocabulary: make(map[string]int),
		vectors:    make([]sparseVector, len(recipes)),
		norms:      make([]float64, len(recipes)),
		docTerms:   make([]map[string]struct{}, len(recipes)),
	}

	// First pass: tokenize documents and build the vocabulary plus document
	// frequencies. The normalized ingredient-name multiset is the document.
	docs := make([][]string, len(recipes))
	docFreq := make(map[string]int)
	usable := 0
	for i := range recipes {
		idx.byID[recipes[i].ID] = i
		terms := make([]string, 0, len(recipes[i].Ingredients))
		distinct := make(map[string]struct{})
		for _, line := range recipes[i].Ingredients {
			n := ingredient.Normalize(line.Name)
			if n == "" {
				continue
			}
			terms = append(terms, n)
			distinct[n] = struct{}{}
		}
		docs[i] = terms
		idx.docTerms[i] = distinct
		if len(terms) > 0 {
			usable++
		}
		for term := range distinct {
			if _, ok := idx.vocabulary[term]; !ok {
				idx.vocabulary[term] = len(idx.vocabulary)
			}
			docFreq[term]++
		}
	}

	if usable == 0 {
		return nil, common.ErrEmptyCorpus
	}

	// Smoothed inverse document frequency over the corpus.
	n := float64(len(recipes))
	idx.idf = make([]float64, len(idx.vocabulary))
	for term, col := range idx.vocabulary {
		idx.idf[col] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	// Second pass: per-recipe TF-IDF weight vectors and norms.
	for i, terms := range docs {
		vec := make(sparseVector, len(idx.docTerms[i]))
		if len(terms) > 0 {
			counts := make(map[string]int, len(terms))
			for _, term := range terms {
				counts[term]++
			}
			for term, count := range counts {
				col := idx.vocabulary[term]
				vec[col] = float64(count) / float64(len(terms)) * idx.idf[col]
			}
		}
		idx.vectors[i] = vec
		idx.norms[i] = vectorNorm(vec)
	}

	common.LogDebug("vector index built",
		zap.Int("recipes", len(recipes)),
		zap.Int("vocabulary", len(idx.vocabulary)),
		zap.Int("empty_documents", len(recipes)-usable),
	)

	return idx, nil
}

// Size returns the number of recipes in the index.
func (idx *Index) Size() int {
	return len(idx.recipes)
}

// Recipe returns the recipe with the given id, or nil when the id is not in
// this snapshot.
func (idx *Index) Recipe(id int) *recipe.Recipe {
	if i, ok := idx.byID[id]; ok {
		return &idx.recipes[i]
	}
	return nil
}

// VectorizeQuery maps a normalized token set into the index's vector space.
// Out-of-vocabulary tokens contribute zero weight: they cannot match any
// recipe but do not error.
func (idx *Index) VectorizeQuery(tokens []string) sparseVector {
	vec := make(sparseVector, len(tokens))
	if len(tokens) == 0 {
		return vec
	}
	tf := 1.0 / float64(len(tokens))
	for _, token := range tokens {
		col, ok := idx.vocabulary[token]
		if !ok {
			continue
		}
		vec[col] = tf * idx.idf[col]
	}
	return vec
}

func vectorNorm(vec sparseVector) float64 {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// cosine computes the cosine similarity between two sparse vectors with
// precomputed norms. Result is in [0,1] because all weights are non-negative.
func cosine(a, b sparseVector, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	// Iterate the smaller vector.
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for col, w := range a {
		if bw, ok := b[col]; ok {
			dot += w * bw
		}
	}
	return dot / (normA * normB)
}
