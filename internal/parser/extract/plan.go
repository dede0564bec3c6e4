package extract

import (
	"time"

	"github.com/Vodeneev/matchsync/internal/pkg/enums"
)

// Field is an ordered list of selector fallbacks for one fixture attribute, evaluated relative to
// the candidate element. The first selector that matches an element with readable text wins.
type Field struct {
	Selectors []string
	// Timeout bounds each read. Zero means the extractor's default for the field kind.
	Timeout time.Duration
}

// Empty reports whether the field has no selectors, i.e. the source never shows this attribute.
func (f Field) Empty() bool {
	return len(f.Selectors) == 0
}

// Plan describes how fixtures are laid out on one source page. It is pure data.
type Plan struct {
	Source string
	Role   enums.Role

	// Strategies are candidate-element selectors tried in order. The first one that matches
	// anything is used for the whole run.
	Strategies []string
	// MaxRecords caps the number of candidates parsed. Zero or negative disables the cap.
	MaxRecords int

	MatchTime Field
	Sport     Field
	HomeTeam  Field
	AwayTeam  Field
	OddsHome  Field
	OddsDraw  Field
	OddsAway  Field
	Score     Field // "2-1" or "2:1"
	Status    Field

	Markers StatusMarkers
}

// StatusMarkers are substrings that identify a status token. Matching is case-sensitive and
// finished markers are checked first.
type StatusMarkers struct {
	Finished []string
	Live     []string
}

// DefaultStatusMarkers covers the Korean and English tokens seen on results pages.
func DefaultStatusMarkers() StatusMarkers {
	return StatusMarkers{
		Finished: []string{"종료", "FT"},
		Live:     []string{"진행", "LIVE"},
	}
}
