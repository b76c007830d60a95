package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

const (
	cookieSelector    = "button.acceptCookies"
	loadMoreSelector  = "a.ecomerce-items-scroll-more"
	hiddenStyleMarker = "display: none"
)

// pageState tracks where the expansion loop is. A page either never had a
// load-more control, still has more content to reveal, or is fully expanded.
type pageState int

const (
	stateNoAffordance pageState = iota
	stateExpandable
	stateExhausted
)

// pageDriver abstracts the browser operations the expansion loop needs,
// so the loop itself can be exercised without a live Chrome.
type pageDriver interface {
	Navigate(ctx context.Context, url string) error
	DismissCookies(ctx context.Context) (bool, error)
	AffordancePresent(ctx context.Context) (bool, error)
	AffordanceStyle(ctx context.Context) (string, error)
	Activate(ctx context.Context) error
	AwaitAffordance(ctx context.Context, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
}

// Materializer fully expands a listing page's lazy-loaded content before
// extraction.
type Materializer struct {
	driver          pageDriver
	reappearTimeout time.Duration
	metrics         *Metrics
}

// NewMaterializer builds a materializer backed by a live browser session.
func NewMaterializer(settle, reappearTimeout time.Duration, metrics *Metrics) *Materializer {
	return &Materializer{
		driver:          chromeDriver{settle: settle},
		reappearTimeout: reappearTimeout,
		metrics:         metrics,
	}
}

// Materialize navigates to url on the given browser context, dismisses the
// cookie banner if present, and activates the load-more control until its
// inline style reports it hidden. It returns the fully expanded document
// markup and the number of expansion iterations performed.
func (m *Materializer) Materialize(ctx context.Context, url string) (string, int, error) {
	slog.Info("fetching page", slog.String("url", url))
	start := time.Now()

	if err := m.driver.Navigate(ctx, url); err != nil {
		return "", 0, ErrNavigation{URL: url, Err: err}
	}

	if dismissed, err := m.driver.DismissCookies(ctx); err != nil {
		// Consent dismissal is best-effort only.
		slog.Warn("cookie dismissal failed", slog.String("url", url), slog.Any("error", err))
	} else if dismissed {
		slog.Info("accepted cookies", slog.String("url", url))
	}

	state := stateNoAffordance
	present, err := m.driver.AffordancePresent(ctx)
	if err != nil {
		return "", 0, ErrNavigation{URL: url, Err: err}
	}
	if present {
		state = stateExpandable
	}

	expansions := 0
	for state == stateExpandable {
		style, err := m.driver.AffordanceStyle(ctx)
		if err != nil {
			return "", expansions, ErrNavigation{URL: url, Err: err}
		}
		if strings.Contains(style, hiddenStyleMarker) {
			state = stateExhausted
			break
		}

		if err := m.driver.Activate(ctx); err != nil {
			return "", expansions, ErrNavigation{URL: url, Err: err}
		}
		if err := m.driver.AwaitAffordance(ctx, m.reappearTimeout); err != nil {
			return "", expansions, ErrReappearTimeout{URL: url, Err: err}
		}

		expansions++
		m.metrics.IncExpansion()
		slog.Debug("expanded page",
			slog.String("url", url),
			slog.Int("iteration", expansions),
		)
	}

	html, err := m.driver.HTML(ctx)
	if err != nil {
		return "", expansions, ErrNavigation{URL: url, Err: err}
	}

	m.metrics.IncPage()
	m.metrics.ObserveMaterialize(time.Since(start))
	slog.Info("page fully expanded",
		slog.String("url", url),
		slog.Int("expansions", expansions),
	)
	return html, expansions, nil
}

// chromeDriver implements pageDriver against a chromedp browser context.
type chromeDriver struct {
	settle time.Duration
}

func (d chromeDriver) Navigate(ctx context.Context, url string) error {
	// The listing renders asynchronously after load; a fixed settle
	// delay stands in for a readiness signal the site does not expose.
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(d.settle),
	)
}

func (d chromeDriver) DismissCookies(ctx context.Context) (bool, error) {
	var clicked bool
	script := `(() => {
		const btn = document.querySelector('` + cookieSelector + `');
		if (!btn) { return false; }
		btn.click();
		return true;
	})()`
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &clicked))
	return clicked, err
}

func (d chromeDriver) AffordancePresent(ctx context.Context) (bool, error) {
	var nodes []*cdp.Node
	err := chromedp.Run(ctx,
		chromedp.Nodes(loadMoreSelector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
	)
	return len(nodes) > 0, err
}

func (d chromeDriver) AffordanceStyle(ctx context.Context) (string, error) {
	var style string
	var ok bool
	err := chromedp.Run(ctx,
		chromedp.AttributeValue(loadMoreSelector, "style", &style, &ok, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}
	if !ok {
		// No inline style means the control is visible.
		return "", nil
	}
	return style, nil
}

func (d chromeDriver) Activate(ctx context.Context) error {
	// Direct JS click instead of a simulated pointer click: the control
	// sits under scroll overlays that break MouseClicked dispatch.
	script := `document.querySelector('` + loadMoreSelector + `').click()`
	return chromedp.Run(ctx, chromedp.Evaluate(script, nil))
}

func (d chromeDriver) AwaitAffordance(ctx context.Context, timeout time.Duration) error {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return chromedp.Run(waitCtx, chromedp.WaitReady(loadMoreSelector, chromedp.ByQuery))
}

func (d chromeDriver) HTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}
