// Package livescore defines the results provider source (www.livescore.co.kr).
package livescore

import (
	"github.com/Vodeneev/matchsync/internal/parser/extract"
	"github.com/Vodeneev/matchsync/internal/parser/sources"
	"github.com/Vodeneev/matchsync/internal/pkg/config"
)

const (
	Name = "livescore"
	URL  = "https://www.livescore.co.kr/"
)

func init() {
	sources.Register(Name, func(cfg config.SourceConfig) sources.Definition {
		return sources.ApplyOverrides(Definition(), cfg)
	})
}

func Definition() sources.Definition {
	return sources.Definition{
		Name: Name,
		URL:  URL,
		Plan: extract.Plan{
			Source: Name,
			Strategies: []string{
				".match-row, .game-row",
				".live-match, .fixture",
				`div[class*="match"]`,
				"tr.match",
			},
			MaxRecords: 30,
			MatchTime:  extract.Field{Selectors: []string{".match-time", ".time", `[class*="time"]`}},
			HomeTeam:   extract.Field{Selectors: []string{".team-home", ".home", `[class*="home"]`}},
			AwayTeam:   extract.Field{Selectors: []string{".team-away", ".away", `[class*="away"]`}},
			Score:      extract.Field{Selectors: []string{".score", `[class*="score"]`}},
			Status:     extract.Field{Selectors: []string{".status", `[class*="status"]`}},
			Markers: extract.StatusMarkers{
				Finished: []string{"종료", "FT", "Finished"},
				Live:     []string{"진행", "LIVE", "Live"},
			},
		},
	}
}
