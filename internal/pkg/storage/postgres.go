package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
)

// DefaultTable is the table created by the embedded migrations.
const DefaultTable = "sports_matches"

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	_ FixtureStore  = (*PostgresFixtureStorage)(nil)
	_ FixtureReader = (*PostgresFixtureStorage)(nil)
)

// PostgresFixtureStorage keeps fixture rows in PostgreSQL.
type PostgresFixtureStorage struct {
	db         *sqlx.DB
	table      string
	upsertStmt string
	selectStmt string
}

// NewPostgresFixtureStorage connects, prepares the schema and returns the store.
// table must be a plain identifier; config validation guarantees that.
func NewPostgresFixtureStorage(ctx context.Context, cfg *config.PostgresConfig, table string) (*PostgresFixtureStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	if table == "" {
		table = DefaultTable
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	db, err := sqlx.ConnectContext(pingCtx, "postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	s := &PostgresFixtureStorage{
		db:         db,
		table:      table,
		upsertStmt: buildUpsert(table),
		selectStmt: fmt.Sprintf(`SELECT %s FROM %s WHERE home_team = $1 AND away_team = $2 AND match_time = $3`, strings.Join(rowColumns, ", "), table),
	}

	if cfg.RunMigrations {
		err = s.migrate(ctx)
	} else {
		err = s.initSchema(ctx)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL fixture storage initialized successfully", "table", table, "migrations", cfg.RunMigrations)
	return s, nil
}

// migrate applies the embedded migrations, which always target DefaultTable.
func (s *PostgresFixtureStorage) migrate(ctx context.Context) error {
	if s.table != DefaultTable {
		return fmt.Errorf("migrations manage %q only, got table %q", DefaultTable, s.table)
	}

	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{MigrationsTable: "matchsync_schema_migrations"})
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// initSchema creates the table in place when migrations are not managed by this process.
func (s *PostgresFixtureStorage) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id SERIAL PRIMARY KEY,
		home_team VARCHAR(200) NOT NULL,
		away_team VARCHAR(200) NOT NULL,
		match_time VARCHAR(100) NOT NULL,
		sport VARCHAR(100),
		odds_home DECIMAL(10, 4),
		odds_draw DECIMAL(10, 4),
		odds_away DECIMAL(10, 4),
		home_score INTEGER,
		away_score INTEGER,
		status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
		source VARCHAR(50) NOT NULL,
		counterpart_home_team VARCHAR(200),
		counterpart_away_team VARCHAR(200),
		match_score DECIMAL(6, 2) NOT NULL DEFAULT 0,
		scraped_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE(home_team, away_team, match_time)
	);

	CREATE INDEX IF NOT EXISTS idx_%[1]s_status ON %[1]s(status);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_updated_at ON %[1]s(updated_at DESC);
	`, s.table)

	_, err := s.db.ExecContext(ctx, query)
	return err
}

var rowColumns = []string{
	"home_team", "away_team", "match_time", "sport",
	"odds_home", "odds_draw", "odds_away",
	"home_score", "away_score", "status", "source",
	"counterpart_home_team", "counterpart_away_team",
	"match_score", "scraped_at", "updated_at",
}

var keyColumns = map[string]bool{"home_team": true, "away_team": true, "match_time": true}

func buildUpsert(table string) string {
	named := make([]string, len(rowColumns))
	var updates []string
	for i, c := range rowColumns {
		named[i] = ":" + c
		if !keyColumns[c] {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
		}
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)
ON CONFLICT (home_team, away_team, match_time) DO UPDATE SET %s`,
		table, strings.Join(rowColumns, ", "), strings.Join(named, ", "), strings.Join(updates, ", "))
}

// UpsertFixture inserts the row or overwrites every non-key column of the existing one.
func (s *PostgresFixtureStorage) UpsertFixture(ctx context.Context, row models.StoredFixtureRow) error {
	if _, err := s.db.NamedExecContext(ctx, s.upsertStmt, row); err != nil {
		return fmt.Errorf("failed to upsert fixture %s: %w", row.Key(), err)
	}
	return nil
}

func (s *PostgresFixtureStorage) GetFixture(ctx context.Context, key models.FixtureKey) (*models.StoredFixtureRow, error) {
	var row models.StoredFixtureRow
	err := s.db.GetContext(ctx, &row, s.selectStmt, key.HomeTeam, key.AwayTeam, key.MatchTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture %s: %w", key, err)
	}
	return &row, nil
}

func (s *PostgresFixtureStorage) Close() error {
	return s.db.Close()
}
