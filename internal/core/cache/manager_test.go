package cache

import (
	"fmt"
	"testing"
	"time"

	"recipe-recommender/internal/core/match"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:         true,
		MaxEntries:      3,
		TTL:             time.Hour,
		CleanupInterval: time.Hour,
	}
}

func fakeResults(id int) []match.MatchResult {
	return []match.MatchResult{
		{Recipe: &recipe.Recipe{ID: id, Title: fmt.Sprintf("Recipe %d", id)}, Score: 0.5, Rank: 1},
	}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	calls := 0
	compute := func() ([]match.MatchResult, error) {
		calls++
		return fakeResults(1), nil
	}

	first, err := m.GetOrCompute("k1", compute)
	require.NoError(t, err)
	second, err := m.GetOrCompute("k1", compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "second call must not invoke compute")
	assert.Equal(t, first, second)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	calls := 0
	failing := func() ([]match.MatchResult, error) {
		calls++
		return nil, fmt.Errorf("boom")
	}

	_, err := m.GetOrCompute("k1", failing)
	require.Error(t, err)
	_, err = m.GetOrCompute("k1", failing)
	require.Error(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, m.Len())
}

func TestLRUEviction(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	insert := func(key string, id int) {
		_, err := m.GetOrCompute(key, func() ([]match.MatchResult, error) {
			return fakeResults(id), nil
		})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct access timestamps
	}

	insert("a", 1)
	insert("b", 2)
	insert("c", 3)
	require.Equal(t, 3, m.Len())

	// Touch a and b so c becomes the least recently used entry.
	insert("a", 1)
	insert("b", 2)

	insert("d", 4)

	assert.Equal(t, 3, m.Len(), "exactly one entry must have been evicted")
	assert.False(t, m.Contains("c"), "the LRU entry must be gone")
	assert.True(t, m.Contains("a"))
	assert.True(t, m.Contains("b"))
	assert.True(t, m.Contains("d"))
}

func TestTTLExpiry(t *testing.T) {
	cfg := testCacheConfig()
	cfg.TTL = 15 * time.Millisecond
	m := NewManager(cfg)
	require.NotNil(t, m)
	defer m.Close()

	calls := 0
	compute := func() ([]match.MatchResult, error) {
		calls++
		return fakeResults(1), nil
	}

	_, err := m.GetOrCompute("k", compute)
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	_, err = m.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "expired entry must be recomputed")
}

func TestZeroTTLNeverExpires(t *testing.T) {
	cfg := testCacheConfig()
	cfg.TTL = 0
	m := NewManager(cfg)
	require.NotNil(t, m)
	defer m.Close()

	calls := 0
	compute := func() ([]match.MatchResult, error) {
		calls++
		return fakeResults(1), nil
	}

	_, err := m.GetOrCompute("k", compute)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = m.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "entries without TTL must not expire on time")
}

func TestInvalidateAll(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	for i, key := range []string{"a", "b", "c"} {
		id := i + 1
		_, err := m.GetOrCompute(key, func() ([]match.MatchResult, error) {
			return fakeResults(id), nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 3, m.Len())

	m.InvalidateAll()
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Contains("a"))
}

func TestNilManagerComputesEveryCall(t *testing.T) {
	var m *Manager // disabled cache

	calls := 0
	compute := func() ([]match.MatchResult, error) {
		calls++
		return fakeResults(1), nil
	}

	_, err := m.GetOrCompute("k", compute)
	require.NoError(t, err)
	_, err = m.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	m.InvalidateAll() // must not panic
	assert.Equal(t, 0, m.Len())
	assert.NoError(t, m.Close())
}

func TestDisabledConfigReturnsNil(t *testing.T) {
	cfg := testCacheConfig()
	cfg.Enabled = false
	assert.Nil(t, NewManager(cfg))
}

func TestReturnedSliceIsIsolated(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	compute := func() ([]match.MatchResult, error) {
		return []match.MatchResult{
			{Recipe: &recipe.Recipe{ID: 1}, Score: 0.9, Rank: 1},
			{Recipe: &recipe.Recipe{ID: 2}, Score: 0.5, Rank: 2},
		}, nil
	}

	first, err := m.GetOrCompute("k", compute)
	require.NoError(t, err)

	// Mangle the returned slice; the stored entry must not change.
	first[0], first[1] = first[1], first[0]

	second, err := m.GetOrCompute("k", compute)
	require.NoError(t, err)
	assert.Equal(t, 1, second[0].Recipe.ID)
	assert.Equal(t, 2, second[1].Recipe.ID)
}

func TestStats(t *testing.T) {
	m := NewManager(testCacheConfig())
	require.NotNil(t, m)
	defer m.Close()

	compute := func() ([]match.MatchResult, error) { return fakeResults(1), nil }

	_, _ = m.GetOrCompute("k", compute)
	_, _ = m.GetOrCompute("k", compute)

	stats := m.Stats()
	assert.Equal(t, true, stats["enabled"])
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestKeyOrderIndependence(t *testing.T) {
	f := match.Filters{DietaryTags: []string{"Vegan"}}
	k1 := Key([]string{"flour", "Eggs", "milk"}, f, 20)
	k2 := Key([]string{"Milk", "egg", "FLOUR"}, f, 20)
	assert.Equal(t, k1, k2, "token order and casing must not change the key")

	k3 := Key([]string{"flour"}, f, 20)
	assert.NotEqual(t, k1, k3)

	k4 := Key([]string{"flour", "Eggs", "milk"}, match.Filters{}, 20)
	assert.NotEqual(t, k1, k4, "filters are part of the key")

	k5 := Key([]string{"flour", "Eggs", "milk"}, f, 5)
	assert.NotEqual(t, k1, k5, "result limit is part of the key")
}
