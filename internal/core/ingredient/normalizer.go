// Package ingredient provides the canonical ingredient token normalizer and
// the amount parser/formatter shared by the matcher and the serving scaler.
package ingredient

import (
	"sort"
	"strings"
)

// Normalize canonicalizes a free-text ingredient token: lowercase, trimmed,
// internal whitespace collapsed, and a trailing plural "s" stripped when the
// simple heuristic is safe. It never fails; empty input yields "".
func Normalize(token string) string {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return ""
	}

	token = strings.Join(strings.Fields(token), " ")

	// Strip a trailing plural "s", but not for short words ("gas") or words
	// ending in "ss" ("swiss", "watercress").
	if len(token) > 3 && strings.HasSuffix(token, "s") && !strings.HasSuffix(token, "ss") {
		token = token[:len(token)-1]
	}

	return token
}

// NormalizeSet normalizes every token, drops empties and duplicates, and
// returns the result sorted lexicographically. The sorted order doubles as
// the canonical ordering used for cache keys.
func NormalizeSet(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))

	for _, token := range tokens {
		n := Normalize(token)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}

	sort.Strings(out)
	return out
}
