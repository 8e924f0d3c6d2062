package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"recipe-recommender/internal/core/ingredient"
	"recipe-recommender/internal/core/match"
)

// Canonical builds the order-independent string form of a query: normalized
// tokens sorted lexicographically, joined with the canonical filter string
// and the result limit. Two queries with the same token set in different
// input order produce the same canonical form. The limit is part of the key
// because it changes where a stored result list is truncated.
func Canonical(tokens []string, filters match.Filters, topK int) string {
	normalized := ingredient.NormalizeSet(tokens)
	return strings.Join(normalized, ",") + "|" + filters.Canonical() + "|top=" + strconv.Itoa(topK)
}

// Key hashes the canonical query into the cache key.
func Key(tokens []string, filters match.Filters, topK int) string {
	sum := sha256.Sum256([]byte(Canonical(tokens, filters, topK)))
	return hex.EncodeToString(sum[:])
}
