package gomag

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// SessionOptions configures the automation browser.
type SessionOptions struct {
	Headless    bool
	UserAgent   string
	ProxyServer string
	Timeout     time.Duration
}

// DefaultSessionOptions returns options suitable for the target platform.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Headless: true,
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36",
		Timeout: 30 * time.Second,
	}
}

// Session owns one browser, one context and one page for a full
// login-to-verify import run. It must be closed on every exit path.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
}

// NewSession launches the browser and opens the automation page.
func NewSession(opts SessionOptions) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-blink-features=AutomationControlled",
			"--ignore-certificate-errors",
		},
	}
	if opts.ProxyServer != "" {
		launchOpts.Proxy = &playwright.Proxy{Server: opts.ProxyServer}
	}

	browser, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(opts.UserAgent),
		IgnoreHttpsErrors: playwright.Bool(true),
		Viewport:          &playwright.Size{Width: 1366, Height: 768},
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("creating browser context: %w", err)
	}

	if err := context.AddInitScript(playwright.Script{
		Content: playwright.String("Object.defineProperty(navigator, 'webdriver', {get: () => undefined});"),
	}); err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("installing init script: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("opening page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	return &Session{pw: pw, browser: browser, context: context, page: page}, nil
}

// Page returns the session's single automation page.
func (s *Session) Page() playwright.Page { return s.page }

// Close tears down the page, context, browser and driver. Safe to call after
// partial failures.
func (s *Session) Close() error {
	var errs []string
	if s.context != nil {
		if err := s.context.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing session: %s", strings.Join(errs, "; "))
	}
	return nil
}

// gotoSafe navigates with an https-to-http fallback for shops behind broken
// TLS setups.
func gotoSafe(page playwright.Page, url string, timeout time.Duration) error {
	opts := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	}
	if _, err := page.Goto(url, opts); err != nil {
		if strings.HasPrefix(url, "https://") {
			if _, err2 := page.Goto("http://"+strings.TrimPrefix(url, "https://"), opts); err2 == nil {
				return nil
			}
		}
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}
