package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// Renderer captures the DOM of a page after rendering it in headless Chrome.
// It is the escalation path for pages the static client cannot read.
type Renderer struct {
	headless    bool
	userAgent   string
	chromePath  string
	proxy       string
	timeout     time.Duration
	settle      time.Duration
	scrollSteps int
	scrollDelta int
	scrollPause time.Duration
}

// RendererOptions configures a Renderer.
type RendererOptions struct {
	Headless    bool
	UserAgent   string
	ChromePath  string
	Proxy       string
	Timeout     time.Duration
	Settle      time.Duration
	ScrollSteps int
	ScrollDelta int
	ScrollPause time.Duration
}

// NewRenderer creates a Renderer with the given options.
func NewRenderer(opts RendererOptions) *Renderer {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.Settle == 0 {
		opts.Settle = 1500 * time.Millisecond
	}
	return &Renderer{
		headless:    opts.Headless,
		userAgent:   opts.UserAgent,
		chromePath:  opts.ChromePath,
		proxy:       opts.Proxy,
		timeout:     opts.Timeout,
		settle:      opts.Settle,
		scrollSteps: opts.ScrollSteps,
		scrollDelta: opts.ScrollDelta,
		scrollPause: opts.ScrollPause,
	}
}

// Render navigates to the URL, waits for the page to settle, auto-scrolls to
// trigger lazy-loaded content, and returns the rendered DOM. The browser
// process is released on every exit path.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", r.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("single-process", true),
		chromedp.UserAgent(r.userAgent),
	}
	if r.chromePath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(r.chromePath))
	}
	if r.proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(r.proxy))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			select {
			case <-time.After(r.settle):
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		}),
		r.autoScroll(),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("browser render failed: %w", err)
	}

	log.Debug().
		Str("url", url).
		Int("bytes", len(html)).
		Dur("elapsed", time.Since(start)).
		Msg("Render completed")

	return html, nil
}

// autoScroll performs a bounded scroll sequence so lazy-loaded images and
// descriptions end up in the DOM before capture.
func (r *Renderer) autoScroll() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		for i := 0; i < r.scrollSteps; i++ {
			script := fmt.Sprintf("window.scrollBy(0, %d);", r.scrollDelta)
			if err := chromedp.Evaluate(script, nil).Do(ctx); err != nil {
				return err
			}
			select {
			case <-time.After(r.scrollPause):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		// Back to top so above-the-fold screenshots stay meaningful.
		return chromedp.Evaluate("window.scrollTo(0, 0);", nil).Do(ctx)
	})
}
