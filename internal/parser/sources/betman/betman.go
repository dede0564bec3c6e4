// Package betman defines the odds provider source (www.betman.co.kr, proto fixtures).
package betman

import (
	"github.com/Vodeneev/matchsync/internal/parser/extract"
	"github.com/Vodeneev/matchsync/internal/parser/sources"
	"github.com/Vodeneev/matchsync/internal/pkg/config"
)

const (
	Name      = "betman"
	WarmupURL = "https://www.betman.co.kr/main.do"
	URL       = "https://www.betman.co.kr/sports/proto.do"
)

func init() {
	sources.Register(Name, func(cfg config.SourceConfig) sources.Definition {
		return sources.ApplyOverrides(Definition(), cfg)
	})
}

func Definition() sources.Definition {
	return sources.Definition{
		Name:      Name,
		WarmupURL: WarmupURL,
		URL:       URL,
		Plan: extract.Plan{
			Source: Name,
			Strategies: []string{
				".game-list tr.game-row",
				".match-list .match-item",
				"table.proto-list tbody tr",
				".sports-list .match",
			},
			MaxRecords: 20,
			MatchTime:  extract.Field{Selectors: []string{".game-time", ".match-time", "td:nth-child(1)"}},
			Sport:      extract.Field{Selectors: []string{".sport-type", ".league-name", "td:nth-child(2)"}},
			HomeTeam:   extract.Field{Selectors: []string{".home-team", ".team-home", "td:nth-child(3)"}},
			AwayTeam:   extract.Field{Selectors: []string{".away-team", ".team-away", "td:nth-child(4)"}},
			OddsHome:   extract.Field{Selectors: []string{".odds-home", ".odds-1", "td:nth-child(5)"}},
			OddsDraw:   extract.Field{Selectors: []string{".odds-draw", ".odds-x", "td:nth-child(6)"}},
			OddsAway:   extract.Field{Selectors: []string{".odds-away", ".odds-2", "td:nth-child(7)"}},
		},
	}
}
