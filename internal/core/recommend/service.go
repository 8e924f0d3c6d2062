// Package recommend wires the vector index, result cache and serving scaler
// into the engine facade the request layer talks to. The index and the cache
// are the only shared mutable state; the index is published by atomic swap,
// the cache serializes its own writers.
package recommend

import (
	"sync/atomic"
	"time"

	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/match"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/core/scale"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Service is the recommendation engine. Construct isolated instances per
// test; there is no ambient global state.
type Service struct {
	cfg   *config.Config
	index atomic.Pointer[match.Index]
	cache *cache.Manager
}

// NewService creates an engine with no index yet; call Rebuild with a corpus
// snapshot before matching.
func NewService(cfg *config.Config) *Service {
	return &Service{
		cfg:   cfg,
		cache: cache.NewManager(cfg.Cache),
	}
}

// Rebuild constructs a fresh index from the corpus snapshot off to the side
// and publishes it with a single atomic swap, so concurrent readers see
// either the old index in full or the new one in full. On failure the
// previous index stays in service and the error is returned to the caller
// that triggered the rebuild. A successful rebuild invalidates the cache.
func (s *Service) Rebuild(recipes []recipe.Recipe) error {
	idx, err := match.BuildIndex(recipes)
	if err != nil {
		metrics.IndexRebuildsTotal.WithLabelValues("failure").Inc()
		common.LogError("index rebuild failed, keeping previous index",
			zap.Int("recipes", len(recipes)),
			zap.Error(err),
		)
		return err
	}

	s.index.Store(idx)
	s.cache.InvalidateAll()

	metrics.IndexRebuildsTotal.WithLabelValues("success").Inc()
	metrics.CorpusRecipes.Set(float64(idx.Size()))

	common.LogInfo("index rebuilt",
		zap.Int("recipes", idx.Size()),
	)
	return nil
}

// Match ranks recipes against the raw ingredient tokens, going through the
// result cache. topK <= 0 uses the configured default.
func (s *Service) Match(tokens []string, filters match.Filters, topK int) ([]match.MatchResult, error) {
	requestID := common.GenerateRequestID()
	start := time.Now()

	idx := s.index.Load()
	if idx == nil {
		return nil, common.ErrIndexNotReady
	}
	if topK <= 0 {
		topK = s.cfg.Match.TopK
	}

	key := cache.Key(tokens, filters, topK)
	results, err := s.cache.GetOrCompute(key, func() ([]match.MatchResult, error) {
		return idx.Match(tokens, filters, topK)
	})

	duration := time.Since(start)
	metrics.MatchDuration.Observe(duration.Seconds())
	common.LogMatchQuery(requestID, len(tokens), len(results), duration, err)

	return results, err
}

// Scale rescales the identified recipe to the target serving count. Results
// are computed fresh per request and never cached: target serving counts are
// high-cardinality and cheap to recompute.
func (s *Service) Scale(recipeID, targetServings int) (*scale.Adjustment, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, common.ErrIndexNotReady
	}

	r := idx.Recipe(recipeID)
	if r == nil {
		return nil, common.ErrRecipeNotFound
	}

	return scale.Scale(r, targetServings, s.cfg.Scale.FractionTolerance)
}

// Recipe returns the recipe with the given id from the current snapshot.
func (s *Service) Recipe(recipeID int) (*recipe.Recipe, bool) {
	idx := s.index.Load()
	if idx == nil {
		return nil, false
	}
	r := idx.Recipe(recipeID)
	return r, r != nil
}

// CorpusSize returns the number of recipes in the active index.
func (s *Service) CorpusSize() int {
	idx := s.index.Load()
	if idx == nil {
		return 0
	}
	return idx.Size()
}

// InvalidateCache clears every cached result.
func (s *Service) InvalidateCache() {
	s.cache.InvalidateAll()
}

// CacheStats returns a snapshot of cache counters.
func (s *Service) CacheStats() map[string]interface{} {
	return s.cache.Stats()
}

// Close releases the cache's background resources.
func (s *Service) Close() error {
	return s.cache.Close()
}
