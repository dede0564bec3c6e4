// Package persister writes merged fixtures to a FixtureStore, one independent upsert per fixture.
package persister

import (
	"context"
	"log/slog"
	"time"

	"github.com/Vodeneev/matchsync/internal/pkg/errs"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
	"github.com/Vodeneev/matchsync/internal/pkg/storage"
)

// Result counts the outcome of a batch.
type Result struct {
	Saved  int
	Failed int
	// Errors holds one entry per failed fixture, each marked errs.ErrPersist.
	Errors []error
}

type Gateway struct {
	store storage.FixtureStore
	now   func() time.Time
	log   *slog.Logger
}

type Option func(*Gateway)

// WithClock overrides the updated_at clock.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

func New(store storage.FixtureStore, opts ...Option) *Gateway {
	g := &Gateway{store: store, now: time.Now, log: slog.Default()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Upsert writes one fixture. Failures are marked errs.ErrPersist.
func (g *Gateway) Upsert(ctx context.Context, m models.MergedFixture) error {
	row := models.NewStoredFixtureRow(m, g.now())
	if row.Key().IsZero() {
		return errs.Newf(errs.ErrPersist, "fixture without team names cannot be keyed")
	}
	if err := g.store.UpsertFixture(ctx, row); err != nil {
		return errs.Markf(err, errs.ErrPersist, "upsert %s", row.Key())
	}
	return nil
}

// UpsertAll writes every fixture in order. A failed fixture is logged and counted; it never stops
// the batch, and nothing is retried.
func (g *Gateway) UpsertAll(ctx context.Context, fixtures []models.MergedFixture) Result {
	var res Result
	for _, m := range fixtures {
		if err := g.Upsert(ctx, m); err != nil {
			res.Failed++
			res.Errors = append(res.Errors, err)
			g.log.Error("Failed to save fixture", "home", m.HomeTeam, "away", m.AwayTeam, "match_time", m.MatchTime, "error", err)
			continue
		}
		res.Saved++
		g.log.Debug("Fixture saved", "home", m.HomeTeam, "away", m.AwayTeam, "status", m.Status)
	}
	g.log.Info("Persistence finished", "saved", res.Saved, "failed", res.Failed)
	return res
}
