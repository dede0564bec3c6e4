// Package extract turns candidate elements of a page source into RawFixture records.
//
// Strategies and field selectors come from a Plan. The extractor tolerates missing fields and
// broken records; only a dead context aborts it.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/Vodeneev/matchsync/internal/parser/page"
	"github.com/Vodeneev/matchsync/internal/pkg/errs"
	"github.com/Vodeneev/matchsync/internal/pkg/models"
	"github.com/Vodeneev/matchsync/internal/pkg/validation"
)

const (
	DefaultFieldTimeout         = time.Second
	DefaultOptionalFieldTimeout = 500 * time.Millisecond
)

type Options struct {
	FieldTimeout         time.Duration // time, sport, team and odds reads
	OptionalFieldTimeout time.Duration // score and status reads
	Now                  func() time.Time
	Logger               *slog.Logger
}

type Extractor struct {
	fieldTimeout    time.Duration
	optionalTimeout time.Duration
	now             func() time.Time
	log             *slog.Logger
	sanitizer       *validation.Sanitizer
}

func New(opts Options) *Extractor {
	e := &Extractor{
		fieldTimeout:    opts.FieldTimeout,
		optionalTimeout: opts.OptionalFieldTimeout,
		now:             opts.Now,
		log:             opts.Logger,
		sanitizer:       validation.NewSanitizer(),
	}
	if e.fieldTimeout <= 0 {
		e.fieldTimeout = DefaultFieldTimeout
	}
	if e.optionalTimeout <= 0 {
		e.optionalTimeout = DefaultOptionalFieldTimeout
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Extract reads fixtures from the document currently loaded in src.
//
// The returned error is nil, or marked errs.ErrZeroYield when nothing usable was found, or
// errs.ErrPhaseFatal when ctx ended mid-way. Records collected so far are returned in every case.
func (e *Extractor) Extract(ctx context.Context, src page.Source, plan Plan) ([]models.RawFixture, error) {
	log := e.log.With("source", plan.Source)

	candidates, strategy := e.locate(ctx, src, plan, log)
	if err := ctx.Err(); err != nil {
		return nil, errs.Markf(err, errs.ErrPhaseFatal, "locate candidates on %s", plan.Source)
	}
	if len(candidates) == 0 {
		return nil, errs.Newf(errs.ErrZeroYield, "%s: no strategy matched any element (%d tried)", plan.Source, len(plan.Strategies))
	}

	total := len(candidates)
	if plan.MaxRecords > 0 && len(candidates) > plan.MaxRecords {
		candidates = candidates[:plan.MaxRecords]
	}
	log.Info("Candidates located", "strategy", strategy, "found", total, "parsing", len(candidates))

	fixtures := make([]models.RawFixture, 0, len(candidates))
	for idx, el := range candidates {
		if err := ctx.Err(); err != nil {
			return fixtures, errs.Markf(err, errs.ErrPhaseFatal, "%s: stopped after %d of %d candidates", plan.Source, idx, len(candidates))
		}

		fx, err := e.parseRecord(ctx, el, plan)
		if err != nil {
			log.Debug("Skipping candidate", "index", idx+1, "error", err)
			continue
		}
		fixtures = append(fixtures, fx)
		log.Info("Fixture extracted", "index", idx+1, "home", fx.HomeTeam, "away", fx.AwayTeam, "status", fx.Status)
	}

	if err := ctx.Err(); err != nil {
		return fixtures, errs.Markf(err, errs.ErrPhaseFatal, "%s: extraction interrupted", plan.Source)
	}
	if len(fixtures) == 0 {
		return fixtures, errs.Newf(errs.ErrZeroYield, "%s: %d candidates, none usable", plan.Source, len(candidates))
	}
	return fixtures, nil
}

// locate returns the candidates of the first strategy that matches anything. Later strategies
// are not queried once one succeeds.
func (e *Extractor) locate(ctx context.Context, src page.Source, plan Plan, log *slog.Logger) ([]page.Element, string) {
	for _, sel := range plan.Strategies {
		if ctx.Err() != nil {
			return nil, ""
		}
		elems, err := src.QueryAll(ctx, sel)
		if err != nil {
			log.Debug("Strategy failed", "strategy", sel, "error", err)
			continue
		}
		if len(elems) > 0 {
			return elems, sel
		}
		log.Debug("Strategy matched nothing", "strategy", sel)
	}
	return nil, ""
}

// parseRecord builds one fixture. A panic anywhere below is converted into a record error.
func (e *Extractor) parseRecord(ctx context.Context, el page.Element, plan Plan) (fx models.RawFixture, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Newf(errs.ErrRecordExtraction, "panic while parsing record: %v", r)
		}
	}()

	home, _ := e.readText(ctx, el, plan.HomeTeam, e.fieldTimeout)
	away, _ := e.readText(ctx, el, plan.AwayTeam, e.fieldTimeout)

	fx = models.RawFixture{
		Source:     plan.Source,
		Role:       plan.Role,
		HomeTeam:   e.sanitizer.TeamName(home),
		AwayTeam:   e.sanitizer.TeamName(away),
		CapturedAt: e.now(),
	}
	// An empty trimmed name is exactly an empty normalized name.
	if !fx.HasTeams() {
		return models.RawFixture{}, errs.Newf(errs.ErrRecordExtraction, "missing team name (home=%q away=%q)", fx.HomeTeam, fx.AwayTeam)
	}
	fx.MatchTime, _ = e.readText(ctx, el, plan.MatchTime, e.fieldTimeout)
	fx.Sport, _ = e.readText(ctx, el, plan.Sport, e.fieldTimeout)
	e.sanitizer.SanitizeFixture(&fx)

	fx.OddsHome = e.readOdds(ctx, el, plan.OddsHome)
	fx.OddsDraw = e.readOdds(ctx, el, plan.OddsDraw)
	fx.OddsAway = e.readOdds(ctx, el, plan.OddsAway)

	if scoreText, ok := e.readText(ctx, el, plan.Score, e.optionalTimeout); ok {
		fx.HomeScore, fx.AwayScore = parseScore(scoreText)
	}

	markers := plan.Markers
	if len(markers.Finished) == 0 && len(markers.Live) == 0 {
		markers = DefaultStatusMarkers()
	}
	token, _ := e.readText(ctx, el, plan.Status, e.optionalTimeout)
	fx.Status = inferStatus(token, markers, fx.HomeScore, fx.AwayScore)

	return fx, nil
}

func (e *Extractor) readOdds(ctx context.Context, el page.Element, f Field) *float64 {
	text, ok := e.readText(ctx, el, f, e.fieldTimeout)
	if !ok {
		return nil
	}
	v, _ := parseOdds(text)
	return v
}

// readText tries each selector of f in order and returns the trimmed text of the first match.
// ok is false when the field is not defined, matched nothing, or every read failed.
func (e *Extractor) readText(ctx context.Context, el page.Element, f Field, timeout time.Duration) (string, bool) {
	if f.Empty() {
		return "", false
	}
	if f.Timeout > 0 {
		timeout = f.Timeout
	}

	var lastErr error
	for _, sel := range f.Selectors {
		text, err := readFirst(ctx, el, sel, timeout)
		if err != nil {
			lastErr = err
			continue
		}
		return strings.TrimSpace(text), true
	}
	if lastErr != nil {
		e.log.Debug("Field unreadable", "selectors", f.Selectors, "error", errs.Mark(lastErr, errs.ErrFieldExtraction, "read field"))
	}
	return "", false
}

var errNoMatch = errors.New("no element matched")

func readFirst(ctx context.Context, el page.Element, selector string, timeout time.Duration) (string, error) {
	fctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	elems, err := el.QueryAll(fctx, selector)
	if err != nil {
		return "", fmt.Errorf("query %q: %w", selector, err)
	}
	if len(elems) == 0 {
		return "", fmt.Errorf("query %q: %w", selector, errNoMatch)
	}
	text, err := elems[0].InnerText(fctx)
	if err != nil {
		return "", fmt.Errorf("read %q: %w", selector, err)
	}
	return text, nil
}
