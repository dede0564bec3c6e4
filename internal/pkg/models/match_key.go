package models

import (
	"net/url"
	"strings"
)

// FixtureKey is the natural composite key of a stored fixture: (home_team, away_team, match_time).
//
// Team names are kept as the primary source printed them (trimmed only). Normalizing here would
// merge rows that the store treats as distinct and break upserts against existing data.
type FixtureKey struct {
	HomeTeam  string
	AwayTeam  string
	MatchTime string
}

// String renders the key as home|away|time with each part escaped, so distinct keys never collide.
func (k FixtureKey) String() string {
	return escapeKeyPart(k.HomeTeam) + "|" + escapeKeyPart(k.AwayTeam) + "|" + escapeKeyPart(k.MatchTime)
}

// IsZero reports whether either team part is missing.
func (k FixtureKey) IsZero() bool {
	return strings.TrimSpace(k.HomeTeam) == "" || strings.TrimSpace(k.AwayTeam) == ""
}

func escapeKeyPart(s string) string {
	return url.QueryEscape(strings.TrimSpace(s))
}
