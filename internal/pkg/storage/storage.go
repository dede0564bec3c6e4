// Package storage provides the keyed fixture stores behind the persistence gateway.
package storage

import (
	"context"
	"fmt"

	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/errs"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
)

// FixtureStore upserts rows by their composite key (home_team, away_team, match_time).
// UpsertFixture must be a single atomic insert-or-update at the store; callers never read first.
type FixtureStore interface {
	UpsertFixture(ctx context.Context, row models.StoredFixtureRow) error
	Close() error
}

// FixtureReader is implemented by stores that can return a row by key. Used by tests and tooling.
type FixtureReader interface {
	GetFixture(ctx context.Context, key models.FixtureKey) (*models.StoredFixtureRow, error)
}

// Open builds the store selected by cfg.Storage.Driver. Failure is marked errs.ErrSession.
func Open(ctx context.Context, cfg *config.Config) (FixtureStore, error) {
	var (
		store FixtureStore
		err   error
	)
	switch cfg.Storage.Driver {
	case "postgres":
		store, err = NewPostgresFixtureStorage(ctx, &cfg.Postgres, cfg.Storage.Table)
	case "redis":
		store, err = NewRedisFixtureStorage(ctx, &cfg.Redis)
	case "memory":
		store = NewMemoryFixtureStorage()
	default:
		err = fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
	if err != nil {
		return nil, errs.Markf(err, errs.ErrSession, "open %s store", cfg.Storage.Driver)
	}
	return store, nil
}
