package identify

import "strings"

// Normalize lower-cases s and drops every character outside [a-z0-9].
// It is total and idempotent: Normalize("ABC-123") == Normalize("abc123") == "abc123".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokens splits a description on whitespace and normalizes each word.
// Empty and repeated tokens are dropped; first-seen order is kept.
func Tokens(description string) []string {
	var tokens []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(description) {
		t := Normalize(word)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}

// hasWord reports whether some whitespace-separated word of text normalizes to token.
func hasWord(text, token string) bool {
	for _, word := range strings.Fields(text) {
		if Normalize(word) == token {
			return true
		}
	}
	return false
}
