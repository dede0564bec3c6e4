package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vodeneev/matchsync/internal/parser/page"
	_ "github.com/Vodeneev/matchsync/internal/parser/sources/all"
	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/diagnostics"
	"github.com/Vodeneev/matchsync/internal/pkg/enums"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
	"github.com/Vodeneev/matchsync/internal/pkg/performance"
	"github.com/Vodeneev/matchsync/internal/pkg/storage"
)

const betmanPage = `<html><body>
<table class="proto-list"><tbody>
  <tr><td>03.14 19:00</td><td>Football</td><td>Real Madrid</td><td>Barcelona</td><td>1.85</td><td>3.40</td><td>4.10</td></tr>
  <tr><td>03.14 21:00</td><td>Football</td><td>Arsenal</td><td>Chelsea</td><td>2.10</td><td>3.10</td><td>2.95</td></tr>
</tbody></table>
</body></html>`

const livescorePage = `<html><body>
<div class="match-row"><span class="time">19:00</span><span class="home">real madrid</span><span class="away">barcelona</span><span class="score">2-1</span><span class="status">FT</span></div>
<div class="match-row"><span class="time">20:00</span><span class="home">Bayern Munich</span><span class="away">Dortmund</span><span class="score">0-0</span><span class="status">LIVE</span></div>
</body></html>`

const emptyPage = `<html><body><p>점검 중입니다</p></body></html>`

type site struct {
	betman, livescore string
	status            int
}

func newSite(t *testing.T, s site) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.status != 0 {
			w.WriteHeader(s.status)
			return
		}
		switch r.URL.Path {
		case "/main.do":
			_, _ = w.Write([]byte("<html></html>"))
		case "/sports/proto.do":
			_, _ = w.Write([]byte(s.betman))
		case "/livescore/":
			_, _ = w.Write([]byte(s.livescore))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Defaults()
	cfg.Browser.Driver = "static"
	cfg.Storage.Driver = "memory"
	cfg.Pacing.Enabled = false
	cfg.Sources.Primary.WarmupURL = baseURL + "/main.do"
	cfg.Sources.Primary.URL = baseURL + "/sports/proto.do"
	cfg.Sources.Secondary.URL = baseURL + "/livescore/"
	return cfg
}

func newTestPipeline(t *testing.T, cfg *config.Config, store storage.FixtureStore, snapDir string) *Pipeline {
	t.Helper()
	session, err := OpenSession(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	clock := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	p, err := New(cfg, Deps{
		Session:     session,
		Store:       store,
		Diagnostics: diagnostics.NewFileRecorder(snapDir),
		Now:         func() time.Time { return clock },
	})
	require.NoError(t, err)
	return p
}

func TestRun_EndToEnd(t *testing.T) {
	srv := newSite(t, site{betman: betmanPage, livescore: livescorePage})
	store := storage.NewMemoryFixtureStorage()
	p := newTestPipeline(t, testConfig(srv.URL), store, t.TempDir())

	report := p.Run(context.Background())

	assert.Equal(t, ExitOK, report.ExitCode)
	require.Len(t, report.Merged, 2)
	assert.Equal(t, 2, report.Summary.Merged)
	assert.Equal(t, 1, report.Summary.Matched)
	assert.Equal(t, 2, report.Summary.Saved)

	rows := store.Rows()
	require.Len(t, rows, 2)

	madrid := rows[0]
	assert.Equal(t, "Real Madrid", madrid.HomeTeam)
	assert.Equal(t, "finished", madrid.Status)
	require.NotNil(t, madrid.HomeScore)
	assert.Equal(t, 2, *madrid.HomeScore)
	assert.Equal(t, 1, *madrid.AwayScore)
	assert.Equal(t, 100.0, madrid.MatchScore)
	require.NotNil(t, madrid.CounterpartHomeTeam)
	assert.Equal(t, "real madrid", *madrid.CounterpartHomeTeam)
	assert.Equal(t, "betman", madrid.Source)

	arsenal := rows[1]
	assert.Equal(t, "scheduled", arsenal.Status)
	assert.Nil(t, arsenal.HomeScore)
	assert.Nil(t, arsenal.CounterpartHomeTeam)
	assert.Equal(t, 0.0, arsenal.MatchScore)
}

func TestRun_RepeatedRunsUpdateInPlace(t *testing.T) {
	srv := newSite(t, site{betman: betmanPage, livescore: livescorePage})
	store := storage.NewMemoryFixtureStorage()
	cfg := testConfig(srv.URL)

	newTestPipeline(t, cfg, store, t.TempDir()).Run(context.Background())
	newTestPipeline(t, cfg, store, t.TempDir()).Run(context.Background())

	assert.Len(t, store.Rows(), 2)
	assert.Equal(t, 4, store.Upserts())
}

func TestRun_BothSourcesEmpty(t *testing.T) {
	srv := newSite(t, site{betman: emptyPage, livescore: emptyPage})
	store := storage.NewMemoryFixtureStorage()
	snapDir := t.TempDir()
	p := newTestPipeline(t, testConfig(srv.URL), store, snapDir)

	report := p.Run(context.Background())

	assert.Empty(t, report.Merged)
	assert.Equal(t, 0, store.Upserts())
	assert.Equal(t, ExitDegraded, report.ExitCode)
	require.Len(t, report.Summary.Sources, 2)
	for _, src := range report.Summary.Sources {
		assert.Equal(t, performance.OutcomeZeroYield, src.Outcome, src.Source)
	}

	for _, name := range []string{"betman_debug.html", "livescore_debug.html"} {
		_, err := os.Stat(filepath.Join(snapDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_SecondaryUnreachable(t *testing.T) {
	srv := newSite(t, site{betman: betmanPage, livescore: livescorePage})
	cfg := testConfig(srv.URL)
	cfg.Sources.Secondary.URL = srv.URL + "/missing"
	store := storage.NewMemoryFixtureStorage()
	dir := t.TempDir()

	report := newTestPipeline(t, cfg, store, dir).Run(context.Background())

	assert.Equal(t, ExitDegraded, report.ExitCode)
	assert.Equal(t, performance.OutcomeAborted, report.Summary.Sources[1].Outcome)
	// The failed navigation dropped betman's page, so there is nothing to save under livescore's name.
	assert.NoFileExists(t, filepath.Join(dir, "livescore_error.html"))
	require.Len(t, report.Merged, 2)
	for _, m := range report.Merged {
		assert.False(t, m.Matched())
		assert.Equal(t, enums.StatusScheduled, m.Status)
	}
	assert.Equal(t, 2, store.Upserts())
}

type failingStore struct{ *storage.MemoryFixtureStorage }

func (failingStore) UpsertFixture(context.Context, models.StoredFixtureRow) error {
	return assert.AnError
}

func TestRun_PersistFailuresWinOverDegraded(t *testing.T) {
	srv := newSite(t, site{betman: betmanPage, livescore: emptyPage})
	store := failingStore{storage.NewMemoryFixtureStorage()}

	report := newTestPipeline(t, testConfig(srv.URL), store, t.TempDir()).Run(context.Background())

	assert.Equal(t, ExitPersistFailures, report.ExitCode)
	assert.Equal(t, 2, report.Summary.Failed)
	assert.Equal(t, 0, report.Summary.Saved)
}

func TestNew_UnknownSource(t *testing.T) {
	cfg := config.Defaults()
	cfg.Sources.Primary.Name = "nowhere"
	_, err := New(cfg, Deps{Session: &page.Static{}, Store: storage.NewMemoryFixtureStorage()})
	assert.Error(t, err)
}

func TestExitCode(t *testing.T) {
	ok := performance.SourceRun{Outcome: performance.OutcomeOK}
	tests := []struct {
		name string
		sum  performance.RunSummary
		want int
	}{
		{"clean", performance.RunSummary{Sources: []performance.SourceRun{ok, ok}, Merged: 3, Saved: 3}, ExitOK},
		{"persist failure", performance.RunSummary{Sources: []performance.SourceRun{ok, ok}, Merged: 3, Saved: 2, Failed: 1}, ExitPersistFailures},
		{"nothing merged", performance.RunSummary{Sources: []performance.SourceRun{ok, ok}}, ExitDegraded},
		{"aborted phase", performance.RunSummary{Sources: []performance.SourceRun{ok, {Outcome: performance.OutcomeAborted}}, Merged: 1, Saved: 1}, ExitDegraded},
		{"zero yield", performance.RunSummary{Sources: []performance.SourceRun{ok, {Outcome: performance.OutcomeZeroYield}}, Merged: 1, Saved: 1}, ExitDegraded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.sum))
		})
	}
}
