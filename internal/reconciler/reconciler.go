// Package reconciler pairs primary fixtures with their counterparts from the secondary source.
package reconciler

import (
	"log/slog"

	"github.com/Vodeneev/matchsync/internal/pkg/enums"
	"github.com/Vodeneev/matchsync/internal/pkg/matching"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
)

const (
	DefaultAcceptanceFloor = 70.0
	// ExactConfidence is recorded when both team names pass the equivalence threshold.
	ExactConfidence = 100.0
)

type Options struct {
	Threshold       int     // per-name equivalence threshold, 0 means matching.DefaultThreshold
	AcceptanceFloor float64 // fuzzy pairings must score strictly above this
	// ExclusiveCounterparts stops a secondary fixture from being claimed by more than one primary
	// fixture. Off by default: a secondary fixture may back several primary ones.
	ExclusiveCounterparts bool
	Logger                *slog.Logger
}

type Reconciler struct {
	scorer    *matching.Scorer
	floor     float64
	exclusive bool
	log       *slog.Logger
}

func New(opts Options) *Reconciler {
	r := &Reconciler{
		scorer:    matching.NewScorer(opts.Threshold),
		floor:     opts.AcceptanceFloor,
		exclusive: opts.ExclusiveCounterparts,
		log:       opts.Logger,
	}
	if r.floor <= 0 {
		r.floor = DefaultAcceptanceFloor
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	return r
}

// Reconcile returns one merged fixture per primary fixture, in primary order.
//
// For each primary fixture the secondary list is scanned for the first pairing where both home
// and away names are equivalent. Failing that, the pairing with the highest average name score
// is accepted if it beats the acceptance floor; on equal scores the earlier one wins.
func (r *Reconciler) Reconcile(primary, secondary []models.RawFixture) []models.MergedFixture {
	merged := make([]models.MergedFixture, 0, len(primary))
	claimed := make(map[int]struct{})
	matched := 0

	for _, p := range primary {
		idx, confidence := r.findCounterpart(p, secondary, claimed)
		if idx < 0 {
			merged = append(merged, unmatched(p))
			r.log.Debug("No counterpart", "home", p.HomeTeam, "away", p.AwayTeam)
			continue
		}
		if r.exclusive {
			claimed[idx] = struct{}{}
		}
		matched++
		s := secondary[idx]
		merged = append(merged, merge(p, s, confidence))
		r.log.Debug("Counterpart found",
			"home", p.HomeTeam, "away", p.AwayTeam,
			"counterpart_home", s.HomeTeam, "counterpart_away", s.AwayTeam,
			"confidence", confidence)
	}

	r.log.Info("Reconciliation finished", "primary", len(primary), "secondary", len(secondary), "matched", matched, "unmatched", len(primary)-matched)
	return merged
}

// findCounterpart returns the index of the accepted secondary fixture and its confidence, or -1.
func (r *Reconciler) findCounterpart(p models.RawFixture, secondary []models.RawFixture, claimed map[int]struct{}) (int, float64) {
	for i, s := range secondary {
		if _, taken := claimed[i]; taken {
			continue
		}
		if r.scorer.IsEquivalent(p.HomeTeam, s.HomeTeam) && r.scorer.IsEquivalent(p.AwayTeam, s.AwayTeam) {
			return i, ExactConfidence
		}
	}

	best, bestScore := -1, 0.0
	for i, s := range secondary {
		if _, taken := claimed[i]; taken {
			continue
		}
		score := (r.scorer.Score(p.HomeTeam, s.HomeTeam) + r.scorer.Score(p.AwayTeam, s.AwayTeam)) / 2
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best >= 0 && bestScore > 0 && bestScore > r.floor {
		return best, bestScore
	}
	return -1, 0
}

func merge(p, s models.RawFixture, confidence float64) models.MergedFixture {
	home, away := s.HomeTeam, s.AwayTeam
	m := models.MergedFixture{
		RawFixture:          p,
		CounterpartHomeTeam: &home,
		CounterpartAwayTeam: &away,
		MatchConfidence:     confidence,
	}
	m.HomeScore = s.HomeScore
	m.AwayScore = s.AwayScore
	m.Status = s.Status
	if !m.Status.IsValid() {
		m.Status = enums.StatusScheduled
	}
	return m
}

func unmatched(p models.RawFixture) models.MergedFixture {
	m := models.MergedFixture{RawFixture: p}
	m.HomeScore = nil
	m.AwayScore = nil
	m.Status = enums.StatusScheduled
	return m
}
