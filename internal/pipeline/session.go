package pipeline

import (
	"context"

	"github.com/Vodeneev/matchsync/internal/parser/page"
	"github.com/Vodeneev/matchsync/internal/pkg/config"
	"github.com/Vodeneev/matchsync/internal/pkg/errs"
)

// OpenSession starts the page session selected by browser.driver. Failure is marked
// errs.ErrSession and is fatal to the run.
func OpenSession(ctx context.Context, cfg *config.Config) (page.Session, error) {
	switch cfg.Browser.Driver {
	case "chromedp":
		b, err := page.NewBrowser(ctx, page.BrowserOptions{
			Headless:          cfg.Browser.Headless,
			UserAgent:         cfg.Browser.UserAgent,
			WindowWidth:       cfg.Browser.WindowWidth,
			WindowHeight:      cfg.Browser.WindowHeight,
			Flags:             cfg.Browser.Flags,
			NavigationTimeout: cfg.Timeouts.Navigation,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	case "static":
		return page.NewStatic(page.StaticOptions{
			UserAgent: cfg.Browser.UserAgent,
			Headers:   cfg.Browser.Headers,
			Timeout:   cfg.Timeouts.Navigation,
		}), nil
	default:
		return nil, errs.Newf(errs.ErrSession, "unknown browser driver %q", cfg.Browser.Driver)
	}
}
