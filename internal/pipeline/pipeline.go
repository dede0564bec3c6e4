// Package pipeline runs one sync: extract the primary source, extract the secondary source,
// reconcile, persist. Every step runs after the previous one on a single goroutine.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Vodeneev/matchsync/internal/parser/extract"
	"github.com/Vodeneev/matchsync/internal/parser/page"
	"github.com/Vodeneev/matchsync/internal/parser/sources"
	"github.com/Vodeneev/matchsync/internal/persister"
	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/diagnostics"
	"github.com/Vodeneev/matchsync/internal/pkg/enums"
	"github.com/Vodeneev/matchsync/internal/pkg/errs"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
	"github.com/Vodeneev/matchsync/internal/pkg/notify"
	"github.com/Vodeneev/matchsync/internal/pkg/parserutil"
	"github.com/Vodeneev/matchsync/internal/pkg/performance"
	"github.com/Vodeneev/matchsync/internal/pkg/storage"
	"github.com/Vodeneev/matchsync/internal/reconciler"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitFatal: a precondition failed (config, browsing session, store) and nothing ran.
	ExitFatal = 1
	// ExitPersistFailures: the run completed but at least one fixture was not saved.
	ExitPersistFailures = 2
	// ExitDegraded: a source phase was aborted or yielded nothing, or nothing was merged.
	ExitDegraded = 3
)

const snapshotTimeout = 10 * time.Second

// Deps are the collaborators owned by the caller for the lifetime of one run.
type Deps struct {
	Session     page.Session
	Store       storage.FixtureStore
	Diagnostics diagnostics.Recorder
	Notifier    notify.Notifier
	Now         func() time.Time
}

type Pipeline struct {
	cfg       *config.Config
	primary   sources.Definition
	secondary sources.Definition

	session    page.Session
	extractor  *extract.Extractor
	reconciler *reconciler.Reconciler
	gateway    *persister.Gateway
	pacer      *parserutil.Pacer
	snapshots  diagnostics.Recorder
	notifier   notify.Notifier
	now        func() time.Time
}

// Report is the outcome of Run.
type Report struct {
	Summary  performance.RunSummary
	Merged   []models.MergedFixture
	ExitCode int
}

func New(cfg *config.Config, deps Deps) (*Pipeline, error) {
	primary, err := sources.Resolve(cfg.Sources.Primary, enums.RolePrimary)
	if err != nil {
		return nil, fmt.Errorf("primary source: %w", err)
	}
	secondary, err := sources.Resolve(cfg.Sources.Secondary, enums.RoleSecondary)
	if err != nil {
		return nil, fmt.Errorf("secondary source: %w", err)
	}
	if deps.Session == nil || deps.Store == nil {
		return nil, errs.Newf(errs.ErrSession, "pipeline needs a page session and a store")
	}

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	snapshots := deps.Diagnostics
	if snapshots == nil {
		snapshots = diagnostics.Disabled{}
	}
	notifier := deps.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Pipeline{
		cfg:       cfg,
		primary:   primary,
		secondary: secondary,
		session:   deps.Session,
		extractor: extract.New(extract.Options{
			FieldTimeout:         cfg.Timeouts.Field,
			OptionalFieldTimeout: cfg.Timeouts.OptionalField,
			Now:                  now,
		}),
		reconciler: reconciler.New(reconciler.Options{
			Threshold:             cfg.Matching.Threshold,
			AcceptanceFloor:       cfg.Matching.AcceptanceFloor,
			ExclusiveCounterparts: cfg.Matching.ExclusiveCounterparts,
		}),
		gateway:   persister.New(deps.Store, persister.WithClock(now)),
		pacer:     parserutil.NewPacer(cfg.Pacing),
		snapshots: snapshots,
		notifier:  notifier,
		now:       now,
	}, nil
}

// Run executes the whole sync. It never fails as a whole; problems are reflected in the
// report's exit code and summary.
func (p *Pipeline) Run(ctx context.Context) Report {
	tracker := performance.NewTracker(p.now)
	slog.Info("Sync started", "primary", p.primary.Name, "secondary", p.secondary.Name)

	primary := p.extractPhase(ctx, p.primary, tracker)
	p.pace(ctx, p.pacer.BetweenSources)
	secondary := p.extractPhase(ctx, p.secondary, tracker)

	var merged []models.MergedFixture
	start := p.now()
	if len(primary) == 0 {
		slog.Warn("No primary fixtures, skipping reconciliation", "source", p.primary.Name)
	} else {
		p.pace(ctx, p.pacer.BeforeMerge)
		start = p.now()
		merged = p.reconciler.Reconcile(primary, secondary)
	}
	tracker.RecordReconcile(len(merged), countMatched(merged), p.now().Sub(start))

	start = p.now()
	res := p.gateway.UpsertAll(ctx, merged)
	tracker.RecordPersist(res.Saved, res.Failed, p.now().Sub(start))

	summary := tracker.Finish()
	performance.PrintSummary(summary)
	if err := p.notifier.NotifySummary(ctx, summary); err != nil {
		slog.Warn("Failed to send run summary", "error", err)
	}

	return Report{Summary: summary, Merged: merged, ExitCode: exitCode(summary)}
}

func (p *Pipeline) pace(ctx context.Context, step func(context.Context) error) {
	if err := step(ctx); err != nil {
		slog.Debug("Pacing interrupted", "error", err)
	}
}

// extractPhase loads the source page and extracts it. Failures stay inside the phase: the
// fixtures collected so far are returned and the outcome goes to the tracker.
func (p *Pipeline) extractPhase(ctx context.Context, def sources.Definition, tracker *performance.Tracker) []models.RawFixture {
	start := p.now()
	parserutil.LogPhaseStart(def.Name, def.Plan.Role.String(), def.URL, p.cfg.Timeouts.Phase)

	phaseCtx, cancel := parserutil.CreatePhaseContext(ctx, p.cfg.Timeouts.Phase)
	fixtures, err := p.runPhase(phaseCtx, def)
	cancel()

	run := performance.SourceRun{
		Source:   def.Name,
		Role:     def.Plan.Role.String(),
		Records:  len(fixtures),
		Duration: p.now().Sub(start),
		Outcome:  performance.OutcomeOK,
	}

	switch {
	case errors.Is(err, errs.ErrPhaseFatal) || (err != nil && !errors.Is(err, errs.ErrZeroYield)):
		run.Outcome = performance.OutcomeAborted
		run.Error = err.Error()
		slog.Error("Extraction aborted", "source", def.Name, "records", len(fixtures), "error", err)
		p.snapshot(ctx, def.Name, diagnostics.KindError)
	case len(fixtures) == 0:
		run.Outcome = performance.OutcomeZeroYield
		if err != nil {
			run.Error = err.Error()
		}
		slog.Warn("No fixtures found, saving page snapshot", "source", def.Name, "reason", err)
		p.snapshot(ctx, def.Name, diagnostics.KindDebug)
	}

	tracker.RecordSource(run)
	parserutil.LogPhaseFinish(def.Name, len(fixtures), run.Duration)
	return fixtures
}

func (p *Pipeline) runPhase(ctx context.Context, def sources.Definition) (fixtures []models.RawFixture, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Newf(errs.ErrPhaseFatal, "%s: panic during extraction: %v", def.Name, r)
		}
	}()

	if def.WarmupURL != "" {
		if err := p.session.Navigate(ctx, def.WarmupURL); err != nil {
			slog.Warn("Warm-up page failed, going to target directly", "source", def.Name, "url", def.WarmupURL, "error", err)
		} else {
			p.pace(ctx, p.pacer.AfterNavigate)
		}
	}

	if err := p.session.Navigate(ctx, def.URL); err != nil {
		return nil, errs.Markf(err, errs.ErrPhaseFatal, "navigate to %s", def.URL)
	}
	p.pace(ctx, p.pacer.AfterNavigate)

	return p.extractor.Extract(ctx, p.session, def.Plan)
}

func (p *Pipeline) snapshot(ctx context.Context, source, kind string) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotTimeout)
	defer cancel()
	if _, err := p.snapshots.Record(sctx, p.session, source, kind); err != nil {
		slog.Warn("Failed to save page snapshot", "source", source, "kind", kind, "error", err)
	}
}

func countMatched(merged []models.MergedFixture) int {
	n := 0
	for _, m := range merged {
		if m.Matched() {
			n++
		}
	}
	return n
}

// exitCode ranks persistence failures above degraded extraction.
func exitCode(s performance.RunSummary) int {
	if s.Failed > 0 {
		return ExitPersistFailures
	}
	if s.Merged == 0 || s.Aborted() {
		return ExitDegraded
	}
	for _, src := range s.Sources {
		if src.Outcome == performance.OutcomeZeroYield {
			return ExitDegraded
		}
	}
	return ExitOK
}
