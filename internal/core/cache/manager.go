// Package cache memoizes matcher results keyed by the canonical query, with
// TTL expiry and LRU eviction under capacity pressure.
package cache

import (
	"sync"
	"time"

	"recipe-recommender/internal/core/match"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
	"recipe-recommender/internal/pkg/metrics"

	"go.uber.org/zap"
)

// Manager is the result cache. Many concurrent readers are expected; writes
// (inserts, touches, evictions) are serialized behind the mutex.
type Manager struct {
	cfg   config.CacheConfig
	mu    sync.RWMutex
	store map[string]*entry
	stats cacheStats
	done  chan struct{}
}

// entry values are never mutated after insertion; a changed corpus produces
// a new entry via invalidation, never an in-place edit.
type entry struct {
	value       []match.MatchResult
	createdAt   time.Time
	expiresAt   time.Time // zero when TTL is disabled
	lastAccess  time.Time
	accessCount int
}

type cacheStats struct {
	hits      int64
	misses    int64
	evictions int64
}

// NewManager creates a result cache. It returns nil when caching is
// disabled; a nil Manager is safe to use and computes every query.
func NewManager(cfg config.CacheConfig) *Manager {
	if !cfg.Enabled {
		common.LogInfo("result cache disabled")
		return nil
	}

	m := &Manager{
		cfg:   cfg,
		store: make(map[string]*entry),
		done:  make(chan struct{}),
	}

	if cfg.TTL > 0 && cfg.CleanupInterval > 0 {
		go m.startCleanup()
	}

	common.LogInfo("result cache initialized",
		zap.Int("max_entries", cfg.MaxEntries),
		zap.Duration("ttl", cfg.TTL),
		zap.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	return m
}

// GetOrCompute returns the cached result for key, or invokes compute and
// stores its result. Concurrent misses for the same key may both compute;
// last writer wins, which is acceptable because compute is deterministic.
func (m *Manager) GetOrCompute(key string, compute func() ([]match.MatchResult, error)) ([]match.MatchResult, error) {
	if m == nil {
		return compute()
	}

	now := time.Now()

	m.mu.RLock()
	e, ok := m.store[key]
	if ok && !expired(e, now) {
		value := e.value
		m.mu.RUnlock()
		m.touch(key, now)
		metrics.CacheHitsTotal.Inc()
		common.LogCacheHit("result", key)
		return copyResults(value), nil
	}
	m.mu.RUnlock()

	metrics.CacheMissesTotal.Inc()
	common.LogCacheMiss("result", key)

	value, err := compute()
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.misses++

	if old, ok := m.store[key]; ok && expired(old, now) {
		delete(m.store, key)
		m.stats.evictions++
		metrics.CacheEvictionsTotal.WithLabelValues("expired").Inc()
	}

	if _, ok := m.store[key]; !ok && len(m.store) >= m.cfg.MaxEntries {
		if m.removeExpiredLocked(now) == 0 {
			m.evictLRULocked()
		}
	}

	m.store[key] = &entry{
		value:       value,
		createdAt:   now,
		expiresAt:   expiry(now, m.cfg.TTL),
		lastAccess:  now,
		accessCount: 0,
	}

	return copyResults(value), nil
}

// touch refreshes the LRU position of a hit entry.
func (m *Manager) touch(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.store[key]; ok {
		e.lastAccess = now
		e.accessCount++
		m.stats.hits++
	}
}

// InvalidateAll clears every entry. Used when the corpus is reloaded or
// rating aggregates shift enough to affect tie-breaking.
func (m *Manager) InvalidateAll() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.store)
	m.store = make(map[string]*entry)
	m.stats.evictions += int64(n)
	metrics.CacheEvictionsTotal.WithLabelValues("invalidate").Add(float64(n))

	common.LogInfo("result cache invalidated", zap.Int("entries", n))
}

// Len returns the number of stored entries.
func (m *Manager) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store)
}

// Contains reports whether key is currently cached and unexpired.
func (m *Manager) Contains(key string) bool {
	if m == nil {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[key]
	return ok && !expired(e, time.Now())
}

// Stats returns a snapshot of cache counters.
func (m *Manager) Stats() map[string]interface{} {
	if m == nil {
		return map[string]interface{}{"enabled": false}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := m.stats.hits + m.stats.misses
	hitRatio := 0.0
	if total > 0 {
		hitRatio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"enabled":     true,
		"size":        len(m.store),
		"max_entries": m.cfg.MaxEntries,
		"hits":        m.stats.hits,
		"misses":      m.stats.misses,
		"evictions":   m.stats.evictions,
		"hit_ratio":   hitRatio,
	}
}

// Close stops the cleanup goroutine and drops all entries.
func (m *Manager) Close() error {
	if m == nil {
		return nil
	}
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.store = make(map[string]*entry)

	common.LogInfo("result cache closed",
		zap.Int64("hits", m.stats.hits),
		zap.Int64("misses", m.stats.misses),
		zap.Int64("evictions", m.stats.evictions),
	)
	return nil
}

func (m *Manager) startCleanup() {
	ticker := time.NewTicker(m.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			removed := m.removeExpiredLocked(time.Now())
			m.mu.Unlock()
			if removed > 0 {
				common.LogDebug("expired cache entries removed", zap.Int("count", removed))
			}
		}
	}
}

func (m *Manager) removeExpiredLocked(now time.Time) int {
	count := 0
	for key, e := range m.store {
		if expired(e, now) {
			delete(m.store, key)
			count++
			m.stats.evictions++
			metrics.CacheEvictionsTotal.WithLabelValues("expired").Inc()
		}
	}
	return count
}

// evictLRULocked removes the single least-recently-accessed entry.
func (m *Manager) evictLRULocked() {
	var oldestKey string
	var oldestAccess time.Time

	for key, e := range m.store {
		if oldestKey == "" || e.lastAccess.Before(oldestAccess) {
			oldestKey = key
			oldestAccess = e.lastAccess
		}
	}

	if oldestKey != "" {
		delete(m.store, oldestKey)
		m.stats.evictions++
		metrics.CacheEvictionsTotal.WithLabelValues("lru").Inc()
		common.LogDebug("cache entry evicted", zap.String("key", oldestKey))
	}
}

func expired(e *entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}

// copyResults hands callers their own slice so a stored entry can never be
// reordered or truncated from outside.
func copyResults(v []match.MatchResult) []match.MatchResult {
	out := make([]match.MatchResult, len(v))
	copy(out, v)
	return out
}
