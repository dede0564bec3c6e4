// Package matching decides whether two team names printed by different sources name the same team.
package matching

import (
	"strings"
	"unicode"
)

// Normalize reduces a team name to its comparison key: trimmed, lower-cased, with all
// whitespace removed. "  Manchester United " and "manchesterunited" share a key.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
