package finsight

import "strings"

// Account code patterns come from the mapping CSV as semicolon-separated
// lists. A pattern ending in '*' matches any code sharing its prefix
// ("70*" matches "701000"); any other pattern matches the exact code only.
// Matching is case-sensitive.

// SplitPatterns converts a semicolon-separated pattern string into a list.
// Blank items are dropped, so "" and " ; " both yield an empty list.
func SplitPatterns(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var patterns []string
	for _, p := range strings.Split(s, ";") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

// MatchesAny reports whether the account code matches at least one pattern.
// An empty pattern list matches nothing.
func MatchesAny(code string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasSuffix(p, "*") {
			if strings.HasPrefix(code, strings.TrimSuffix(p, "*")) {
				return true
			}
		} else if code == p {
			return true
		}
	}
	return false
}
