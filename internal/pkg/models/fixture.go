package models

import (
	"strings"
	"time"

	"github.com/Vodeneev/matchsync/internal/pkg/enums"
)

// RawFixture is one fixture as read from a single source page.
// Optional numeric fields are nil when the source did not show a usable value.
type RawFixture struct {
	Source     string       `json:"source"`
	Role       enums.Role   `json:"role"`
	MatchTime  string       `json:"match_time"` // source-local text, not normalized
	Sport      string       `json:"sport,omitempty"`
	HomeTeam   string       `json:"home_team"`
	AwayTeam   string       `json:"away_team"`
	OddsHome   *float64     `json:"odds_home,omitempty"`
	OddsDraw   *float64     `json:"odds_draw,omitempty"`
	OddsAway   *float64     `json:"odds_away,omitempty"`
	HomeScore  *int         `json:"home_score,omitempty"`
	AwayScore  *int         `json:"away_score,omitempty"`
	Status     enums.Status `json:"status"`
	CapturedAt time.Time    `json:"captured_at"`
}

// HasTeams reports whether both team names survive trimming.
func (f RawFixture) HasTeams() bool {
	return strings.TrimSpace(f.HomeTeam) != "" && strings.TrimSpace(f.AwayTeam) != ""
}

// HasScore reports whether both halves of the score are known.
func (f RawFixture) HasScore() bool {
	return f.HomeScore != nil && f.AwayScore != nil
}

// MergedFixture is a primary fixture enriched with the result data of its counterpart.
// Score and Status of the embedded fixture come from the counterpart when there is one.
type MergedFixture struct {
	RawFixture
	CounterpartHomeTeam *string `json:"counterpart_home_team,omitempty"`
	CounterpartAwayTeam *string `json:"counterpart_away_team,omitempty"`
	MatchConfidence     float64 `json:"match_confidence"`
}

// Matched reports whether a counterpart was accepted.
func (m MergedFixture) Matched() bool {
	return m.CounterpartHomeTeam != nil
}

// StoredFixtureRow is the persisted projection of a MergedFixture.
type StoredFixtureRow struct {
	HomeTeam            string    `db:"home_team" json:"home_team"`
	AwayTeam            string    `db:"away_team" json:"away_team"`
	MatchTime           string    `db:"match_time" json:"match_time"`
	Sport               *string   `db:"sport" json:"sport,omitempty"`
	OddsHome            *float64  `db:"odds_home" json:"odds_home,omitempty"`
	OddsDraw            *float64  `db:"odds_draw" json:"odds_draw,omitempty"`
	OddsAway            *float64  `db:"odds_away" json:"odds_away,omitempty"`
	HomeScore           *int      `db:"home_score" json:"home_score,omitempty"`
	AwayScore           *int      `db:"away_score" json:"away_score,omitempty"`
	Status              string    `db:"status" json:"status"`
	Source              string    `db:"source" json:"source"`
	CounterpartHomeTeam *string   `db:"counterpart_home_team" json:"counterpart_home_team,omitempty"`
	CounterpartAwayTeam *string   `db:"counterpart_away_team" json:"counterpart_away_team,omitempty"`
	MatchScore          float64   `db:"match_score" json:"match_score"`
	ScrapedAt           time.Time `db:"scraped_at" json:"scraped_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// NewStoredFixtureRow projects a merged fixture into its row form, stamping updatedAt.
func NewStoredFixtureRow(m MergedFixture, updatedAt time.Time) StoredFixtureRow {
	row := StoredFixtureRow{
		HomeTeam:            strings.TrimSpace(m.HomeTeam),
		AwayTeam:            strings.TrimSpace(m.AwayTeam),
		MatchTime:           strings.TrimSpace(m.MatchTime),
		OddsHome:            m.OddsHome,
		OddsDraw:            m.OddsDraw,
		OddsAway:            m.OddsAway,
		HomeScore:           m.HomeScore,
		AwayScore:           m.AwayScore,
		Status:              string(m.Status),
		Source:              m.Source,
		CounterpartHomeTeam: m.CounterpartHomeTeam,
		CounterpartAwayTeam: m.CounterpartAwayTeam,
		MatchScore:          m.MatchConfidence,
		ScrapedAt:           m.CapturedAt.UTC(),
		UpdatedAt:           updatedAt.UTC(),
	}
	if row.Status == "" {
		row.Status = string(enums.StatusScheduled)
	}
	if sport := strings.TrimSpace(m.Sport); sport != "" {
		row.Sport = &sport
	}
	return row
}

// Key returns the natural composite key of the row.
func (r StoredFixtureRow) Key() FixtureKey {
	return FixtureKey{HomeTeam: r.HomeTeam, AwayTeam: r.AwayTeam, MatchTime: r.MatchTime}
}
