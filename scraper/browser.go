package scraper

import (
	"context"
	"log/slog"
	"sync"

	"github.com/chromedp/chromedp"
)

// Browser owns the single shared headless Chrome session for a run.
// The session is constructed lazily on first Acquire and torn down by
// Release; at most one live session exists at any time.
type Browser struct {
	headless  bool
	userAgent string

	mu         sync.Mutex
	browserCtx context.Context
	cancel     context.CancelFunc
}

// NewBrowser prepares a browser manager without launching anything.
func NewBrowser(headless bool, userAgent string) *Browser {
	return &Browser{
		headless:  headless,
		userAgent: userAgent,
	}
}

// Acquire returns the shared browser context, launching Chrome on the
// first call. Launch failure (missing binary, broken environment) is
// fatal and surfaced as ErrBrowserStart.
func (b *Browser) Acquire(ctx context.Context) (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	slog.Info("starting browser", slog.Bool("headless", b.headless))

	// Environment-compatibility flags, matching the deployment the
	// demo site scrape runs in. Not tuning knobs.
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(b.userAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	cancel := func() {
		browserCancel()
		allocCancel()
	}

	// An empty run forces the browser process to start so a missing
	// binary fails here instead of mid-scrape.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, ErrBrowserStart{Err: err}
	}

	b.browserCtx = browserCtx
	b.cancel = cancel
	return browserCtx, nil
}

// Release closes the underlying session and clears the shared handle so
// a future Acquire would construct anew. Safe to call more than once.
func (b *Browser) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx == nil {
		return
	}

	slog.Info("closing browser")
	b.cancel()
	b.browserCtx = nil
	b.cancel = nil
}
