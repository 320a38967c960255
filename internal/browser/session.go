package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// stealthScript masks the automation fingerprints that platform bot
// detectors commonly probe. Injected before any document script runs.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {
    get: () => undefined
});
Object.defineProperty(navigator, 'plugins', {
    get: () => [1, 2, 3, 4, 5]
});
Object.defineProperty(navigator, 'languages', {
    get: () => ['pt-BR', 'pt', 'en-US', 'en']
});
window.chrome = {
    runtime: {}
};
Object.defineProperty(navigator, 'permissions', {
    get: () => ({
        query: () => Promise.resolve({ state: 'granted' })
    })
});
`

// Options configures a browser session.
type Options struct {
	Headless       bool
	UserAgent      string
	AcceptLanguage string
	ViewportWidth  int
	ViewportHeight int
	NavTimeout     time.Duration
}

// Session owns one browser process and one browsing context. All pages opened
// through NewPage share that context's cookies and storage. Start must be
// called exactly once before use; calling it again without an intervening
// Stop is not supported.
type Session struct {
	opts   Options
	logger *zap.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
}

func NewSession(opts Options, logger *zap.Logger) *Session {
	return &Session{opts: opts, logger: logger}
}

// Start launches the browser process with anti-automation flags and creates
// the shared browsing context. A launch failure is fatal to the caller;
// nothing can proceed without a live browser.
func (s *Session) Start(ctx context.Context) error {
	execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-site-isolation-trials", true),
		chromedp.Flag("ignore-certificate-errors", true),
		chromedp.UserAgent(s.opts.UserAgent),
		chromedp.WindowSize(s.opts.ViewportWidth, s.opts.ViewportHeight),
	)

	s.allocCtx, s.allocCancel = chromedp.NewExecAllocator(ctx, execOpts...)

	var browserCancel context.CancelFunc
	s.browserCtx, browserCancel = chromedp.NewContext(s.allocCtx)

	// An empty Run forces the browser process to launch now, so a missing or
	// broken Chrome binary surfaces here instead of on the first page.
	if err := chromedp.Run(s.browserCtx); err != nil {
		browserCancel()
		s.allocCancel()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	s.logger.Info("browser session started",
		zap.Bool("headless", s.opts.Headless),
		zap.Int("viewport_width", s.opts.ViewportWidth),
		zap.Int("viewport_height", s.opts.ViewportHeight),
	)
	return nil
}

// Stop tears down the browsing context, the browser, and the allocator in
// that order. Each step is best-effort: a failure is logged and the next
// step still runs.
func (s *Session) Stop() {
	if s.browserCtx != nil {
		if err := chromedp.Cancel(s.browserCtx); err != nil {
			s.logger.Warn("failed to close browser context", zap.Error(err))
		}
		s.browserCtx = nil
	}
	if s.allocCancel != nil {
		s.allocCancel()
		s.allocCancel = nil
	}
	s.logger.Info("browser session stopped")
}

// NewPage opens a tab in the shared browsing context with the stealth init
// script, locale headers, and viewport emulation applied.
func (s *Session) NewPage() (Page, error) {
	if s.browserCtx == nil {
		return nil, fmt.Errorf("browser session is not started")
	}

	pageCtx, cancel := chromedp.NewContext(s.browserCtx)

	headers := network.Headers{
		"Accept-Language":           s.opts.AcceptLanguage,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Upgrade-Insecure-Requests": "1",
	}

	err := chromedp.Run(pageCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
			return err
		}),
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.EmulateViewport(int64(s.opts.ViewportWidth), int64(s.opts.ViewportHeight)),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &chromePage{ctx: pageCtx, cancel: cancel, navTimeout: s.opts.NavTimeout}, nil
}
