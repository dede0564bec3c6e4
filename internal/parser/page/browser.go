package page

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/Vodeneev/matchsync/internal/pkg/errs"
)

// hideWebdriverJS runs before any page script so automation checks see a regular browser.
const hideWebdriverJS = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
window.chrome = window.chrome || {runtime: {}};
Object.defineProperty(navigator, 'languages', {get: () => ['ko-KR', 'ko', 'en-US', 'en']});`

// BrowserOptions configures the headless Chrome session.
type BrowserOptions struct {
	Headless          bool
	UserAgent         string
	WindowWidth       int
	WindowHeight      int
	Flags             map[string]string
	NavigationTimeout time.Duration
}

// Browser is a single Chrome tab driven through the DevTools protocol.
// It is not safe for concurrent use; one run drives one tab sequentially.
type Browser struct {
	tabCtx            context.Context
	cancelTab         context.CancelFunc
	cancelAlloc       context.CancelFunc
	navigationTimeout time.Duration
}

var _ Session = (*Browser)(nil)

// NewBrowser launches Chrome and opens one tab. Failure here is fatal to the run.
func NewBrowser(ctx context.Context, opts BrowserOptions) (*Browser, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.WindowWidth > 0 && opts.WindowHeight > 0 {
		allocOpts = append(allocOpts, chromedp.WindowSize(opts.WindowWidth, opts.WindowHeight))
	}
	for name, value := range opts.Flags {
		allocOpts = append(allocOpts, chromedp.Flag(name, flagValue(value)))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, v ...interface{}) {
		slog.Debug("chromedp", "message", fmt.Sprintf(format, v...))
	}))

	err := chromedp.Run(tabCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := cdppage.AddScriptToEvaluateOnNewDocument(hideWebdriverJS).Do(ctx)
		return err
	}))
	if err != nil {
		cancelTab()
		cancelAlloc()
		return nil, errs.Mark(err, errs.ErrSession, "failed to start browser")
	}

	timeout := opts.NavigationTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	slog.Info("Browser session started", "headless", opts.Headless, "window", fmt.Sprintf("%dx%d", opts.WindowWidth, opts.WindowHeight))
	return &Browser{
		tabCtx:            tabCtx,
		cancelTab:         cancelTab,
		cancelAlloc:       cancelAlloc,
		navigationTimeout: timeout,
	}, nil
}

// flagValue turns YAML flag strings into what chromedp expects: bools stay bools.
func flagValue(v string) interface{} {
	if v == "" {
		return true
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return v
}

// runCtx derives a context on the tab that also honours the caller's deadline and cancellation.
func (b *Browser) runCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	rctx, cancel := context.WithCancel(b.tabCtx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		rctx, cancelDeadline = context.WithDeadline(rctx, deadline)
		prev := cancel
		cancel = func() { cancelDeadline(); prev() }
	}
	stop := context.AfterFunc(ctx, cancel)
	return rctx, func() {
		stop()
		cancel()
	}
}

// Navigate loads url, bounded by the navigation timeout.
func (b *Browser) Navigate(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, b.navigationTimeout)
	defer cancel()
	rctx, done := b.runCtx(ctx)
	defer done()

	if err := chromedp.Run(rctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (b *Browser) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return b.queryAll(ctx, selector, nil)
}

func (b *Browser) queryAll(ctx context.Context, selector string, root *cdp.Node) ([]Element, error) {
	rctx, done := b.runCtx(ctx)
	defer done()

	opts := []chromedp.QueryOption{chromedp.ByQueryAll, chromedp.AtLeast(0)}
	if root != nil {
		opts = append(opts, chromedp.FromNode(root))
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(rctx, chromedp.Nodes(selector, &nodes, opts...)); err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}

	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, &browserElement{browser: b, node: n})
	}
	return out, nil
}

// Snapshot captures a PNG of the viewport.
func (b *Browser) Snapshot(ctx context.Context) ([]byte, string, error) {
	rctx, done := b.runCtx(ctx)
	defer done()

	var buf []byte
	if err := chromedp.Run(rctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, "", fmt.Errorf("capture screenshot: %w", err)
	}
	return buf, ".png", nil
}

// Close shuts the tab and the browser process.
func (b *Browser) Close() error {
	b.cancelTab()
	b.cancelAlloc()
	slog.Info("Browser session closed")
	return nil
}

type browserElement struct {
	browser *Browser
	node    *cdp.Node
}

func (e *browserElement) QueryAll(ctx context.Context, selector string) ([]Element, error) {
	return e.browser.queryAll(ctx, selector, e.node)
}

func (e *browserElement) InnerText(ctx context.Context) (string, error) {
	rctx, done := e.browser.runCtx(ctx)
	defer done()

	var text string
	err := chromedp.Run(rctx, chromedp.JavascriptAttribute([]cdp.NodeID{e.node.NodeID}, "innerText", &text, chromedp.ByNodeID))
	if err != nil {
		return "", fmt.Errorf("read innerText of <%s>: %w", strings.ToLower(e.node.NodeName), err)
	}
	return text, nil
}
