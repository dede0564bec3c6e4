package parserutil

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Vodeneev/matchsync/internal/pkg/config"
)

// Pacer inserts randomized pauses between network-facing steps so the browsing session looks
// less scripted. Pauses carry no correctness meaning; a disabled pacer never sleeps.
type Pacer struct {
	cfg   config.PacingConfig
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(cfg config.PacingConfig) *Pacer {
	return &Pacer{cfg: cfg, sleep: sleepCtx}
}

func (p *Pacer) AfterNavigate(ctx context.Context) error {
	return p.pause(ctx, "after_navigate", p.cfg.AfterNavigate)
}

func (p *Pacer) BetweenSources(ctx context.Context) error {
	return p.pause(ctx, "between_sources", p.cfg.BetweenSources)
}

func (p *Pacer) BeforeMerge(ctx context.Context) error {
	return p.pause(ctx, "before_merge", p.cfg.BeforeMerge)
}

func (p *Pacer) pause(ctx context.Context, step string, r config.DurationRange) error {
	if p == nil || !p.cfg.Enabled {
		return nil
	}
	d := RandomDuration(r)
	if d <= 0 {
		return nil
	}
	slog.Debug("Pacing", "step", step, "delay", d)
	return p.sleep(ctx, d)
}

// RandomDuration picks uniformly from [Min, Max]. An inverted range yields Min.
func RandomDuration(r config.DurationRange) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rand.N(r.Max-r.Min+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// CreatePhaseContext bounds one extraction phase. A non-positive timeout leaves ctx unbounded.
func CreatePhaseContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// LogPhaseStart logs the start of an extraction phase
func LogPhaseStart(source, role, url string, timeout time.Duration) {
	slog.Info("Starting extraction", "source", source, "role", role, "url", url, "timeout", timeout)
}

// LogPhaseFinish logs the end of an extraction phase
func LogPhaseFinish(source string, records int, duration time.Duration) {
	slog.Info("Extraction finished", "source", source, "records", records, "duration", duration, "duration_sec", duration.Seconds())
}
