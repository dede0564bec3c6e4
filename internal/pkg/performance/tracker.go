package performance

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Phase outcomes recorded per source.
const (
	OutcomeOK        = "ok"
	OutcomeZeroYield = "zero_yield"
	OutcomeAborted   = "aborted"
)

// SourceRun is the result of one extraction phase.
type SourceRun struct {
	Source   string
	Role     string
	Records  int
	Duration time.Duration
	Outcome  string
	Error    string
}

// RunSummary is a snapshot of a tracker.
type RunSummary struct {
	StartedAt         time.Time
	Sources           []SourceRun
	Merged            int
	Matched           int
	Saved             int
	Failed            int
	ReconcileDuration time.Duration
	PersistDuration   time.Duration
	TotalDuration     time.Duration
}

// Aborted reports whether any extraction phase was cut short.
func (s RunSummary) Aborted() bool {
	for _, src := range s.Sources {
		if src.Outcome == OutcomeAborted {
			return true
		}
	}
	return false
}

// Tracker collects the counters of one sync run.
type Tracker struct {
	mu  sync.Mutex
	now func() time.Time
	sum RunSummary
}

func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now, sum: RunSummary{StartedAt: now()}}
}

func (t *Tracker) RecordSource(run SourceRun) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.Sources = append(t.sum.Sources, run)
}

func (t *Tracker) RecordReconcile(merged, matched int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.Merged = merged
	t.sum.Matched = matched
	t.sum.ReconcileDuration = d
}

func (t *Tracker) RecordPersist(saved, failed int, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.Saved = saved
	t.sum.Failed = failed
	t.sum.PersistDuration = d
}

// Finish stamps the total duration and returns the summary.
func (t *Tracker) Finish() RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sum.TotalDuration = t.now().Sub(t.sum.StartedAt)
	return t.snapshot()
}

func (t *Tracker) Summary() RunSummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot()
}

func (t *Tracker) snapshot() RunSummary {
	out := t.sum
	out.Sources = append([]SourceRun(nil), t.sum.Sources...)
	return out
}

// PrintSummary logs the run summary as a banner.
func PrintSummary(s RunSummary) {
	banner := strings.Repeat("=", 50)
	slog.Info(banner)
	slog.Info("SYNC SUMMARY")
	for _, src := range s.Sources {
		args := []any{"source", src.Source, "role", src.Role, "records", src.Records, "outcome", src.Outcome, "duration", src.Duration}
		if src.Error != "" {
			args = append(args, "error", src.Error)
		}
		slog.Info("Source", args...)
	}

	matchRate := 0.0
	if s.Merged > 0 {
		matchRate = float64(s.Matched) / float64(s.Merged) * 100
	}
	slog.Info("Reconciliation", "merged", s.Merged, "matched", s.Matched, "match_rate_percent", matchRate, "duration", s.ReconcileDuration)
	slog.Info("Persistence", "saved", s.Saved, "failed", s.Failed, "duration", s.PersistDuration)
	slog.Info("Total", "duration", s.TotalDuration, "duration_sec", s.TotalDuration.Seconds())
	slog.Info(banner)
}
