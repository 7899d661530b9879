// Package fetch resolves product URLs to HTML. It tries a lightweight HTTP
// GET first and escalates to a headless-browser render when the response
// looks blocked or insufficient.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/gomag-tools/importer/internal/config"
	"github.com/gomag-tools/importer/internal/ratelimit"
	"github.com/gomag-tools/importer/internal/retry"
	"github.com/gomag-tools/importer/pkg/models"
)

// Result is a fetched page plus the method that produced it.
type Result struct {
	URL        string
	HTML       string
	Method     models.FetchMethod
	StatusCode int
}

// Fetcher fetches supplier pages with static-first, render-on-block policy.
type Fetcher struct {
	client    *http.Client
	renderer  *Renderer
	limiter   *ratelimit.DomainLimiter
	policy    retry.Policy
	userAgent string
	minBytes  int
}

// New creates a Fetcher from application config.
func New(cfg *config.Config) *Fetcher {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.HTTPTimeout,
	}

	renderer := NewRenderer(RendererOptions{
		Headless:    cfg.BrowserHeadless,
		UserAgent:   cfg.UserAgent,
		ChromePath:  cfg.ChromePath,
		Proxy:       cfg.Proxy,
		Timeout:     cfg.RenderTimeout,
		Settle:      cfg.RenderSettle,
		ScrollSteps: cfg.ScrollSteps,
		ScrollDelta: cfg.ScrollDeltaPx,
		ScrollPause: cfg.ScrollPause,
	})

	return &Fetcher{
		client:    client,
		renderer:  renderer,
		limiter:   ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		policy:    retry.DefaultPolicy(),
		userAgent: cfg.UserAgent,
		minBytes:  cfg.BlockedMinBytes,
	}
}

// Fetch resolves a URL to HTML, reporting which method succeeded. When both
// the static GET and the browser render fail, the error describes the last
// failure and no partial result is returned.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Result, error) {
	if err := f.limiter.Wait(ctx, url); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	start := time.Now()

	html, status, staticErr := f.fetchStatic(ctx, url)
	if staticErr == nil && !Blocked(status, html, f.minBytes) {
		log.Debug().
			Str("url", url).
			Int("status", status).
			Int("bytes", len(html)).
			Dur("elapsed", time.Since(start)).
			Msg("Static fetch sufficient")
		return &Result{URL: url, HTML: html, Method: models.MethodStatic, StatusCode: status}, nil
	}

	if staticErr != nil {
		log.Debug().Err(staticErr).Str("url", url).Msg("Static fetch failed, escalating to render")
	} else {
		log.Debug().
			Str("url", url).
			Int("status", status).
			Int("bytes", len(html)).
			Msg("Static response looks blocked, escalating to render")
	}

	var rendered string
	err := retry.Do(ctx, f.policy, func() error {
		var rerr error
		rendered, rerr = f.renderer.Render(ctx, url)
		return rerr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch failed for %s: %w", url, err)
	}

	return &Result{URL: url, HTML: rendered, Method: models.MethodRender, StatusCode: http.StatusOK}, nil
}

// fetchStatic performs the lightweight GET with browser-like headers and
// charset-aware decoding. Retried for transient failures only.
func (f *Fetcher) fetchStatic(ctx context.Context, url string) (string, int, error) {
	var body string
	var status int

	err := retry.Do(ctx, f.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "ro-RO,ro;q=0.9,en-US;q=0.8,en;q=0.7")

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		status = resp.StatusCode

		reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
		if err != nil {
			reader = resp.Body
		}
		raw, err := io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		body = string(raw)

		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return retry.HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
		}
		return nil
	})

	return body, status, err
}
