package validation

import (
	"regexp"
	"strings"

	"github.com/Vodeneev/matchsync/internal/pkg/models"
)

const (
	maxTeamNameRunes = 100
	maxTextRunes     = 200
)

var (
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	spaceRuns    = regexp.MustCompile(`\s+`)
)

// Sanitizer cleans text read from page elements before it becomes part of a fixture.
type Sanitizer struct{}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

// SanitizeFixture cleans every text field of f in place. Numeric fields are left alone.
func (s *Sanitizer) SanitizeFixture(f *models.RawFixture) {
	if f == nil {
		return
	}
	f.HomeTeam = s.TeamName(f.HomeTeam)
	f.AwayTeam = s.TeamName(f.AwayTeam)
	f.MatchTime = s.Text(f.MatchTime)
	f.Sport = s.Text(f.Sport)
}

// TeamName trims, drops control characters and collapses whitespace runs (rendered text often
// splits a name over lines) into one space.
func (s *Sanitizer) TeamName(name string) string {
	sanitized := controlChars.ReplaceAllString(name, "")
	sanitized = spaceRuns.ReplaceAllString(strings.TrimSpace(sanitized), " ")
	return truncateRunes(sanitized, maxTeamNameRunes)
}

// Text trims and drops control characters, keeping inner spacing.
func (s *Sanitizer) Text(str string) string {
	sanitized := strings.TrimSpace(controlChars.ReplaceAllString(str, ""))
	return truncateRunes(sanitized, maxTextRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
