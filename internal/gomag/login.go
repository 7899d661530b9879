package gomag

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Credential field discovery is best-effort attribute matching; the platform
// has changed its login markup before.
var (
	usernameSelectors = []string{
		`input[type="email"]`,
		`input[name*="user"]`,
		`input[name*="email"]`,
		`input[id*="user"]`,
		`input[placeholder*="mail"]`,
		`form input[type="text"]`,
	}
	submitSelectors = []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button:has-text("Autentificare")`,
		`button:has-text("Login")`,
		`button:has-text("Intra in cont")`,
	}
)

func (a *Automator) login() error {
	a.setState(StateLoggingIn)

	page := a.session.Page()
	if err := gotoSafe(page, a.cfg.BaseURL+a.cfg.LoginPath, a.navTimeout); err != nil {
		return err
	}

	if err := fillFirst(page, usernameSelectors, a.cfg.Username); err != nil {
		return fmt.Errorf("filling username: %w", err)
	}
	password := page.Locator(`input[type="password"]`).First()
	if err := password.Fill(a.cfg.Password); err != nil {
		return fmt.Errorf("filling password: %w", err)
	}

	// Click the submit control; when none is clickable, Enter in the
	// password field submits most login forms.
	if err := clickFirst(page, submitSelectors); err != nil {
		if err := password.Press("Enter"); err != nil {
			return fmt.Errorf("submitting login form: %w", err)
		}
	}

	waitNetworkIdle(page, a.navTimeout)

	html, err := page.Content()
	if err != nil {
		return fmt.Errorf("reading post-login page: %w", err)
	}
	if IsLoginPage(html) {
		return fmt.Errorf("login rejected for %s: %w", a.cfg.Username, ErrSessionLost)
	}

	a.log.Debug().Str("user", a.cfg.Username).Msg("Logged in")
	return nil
}

func fillFirst(page playwright.Page, selectors []string, value string) error {
	for _, sel := range selectors {
		loc := page.Locator(sel).First()
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		if visible, err := loc.IsVisible(); err != nil || !visible {
			continue
		}
		if err := loc.Fill(value); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no fillable field among %s", strings.Join(selectors, ", "))
}

func clickFirst(page playwright.Page, selectors []string) error {
	for _, sel := range selectors {
		loc := page.Locator(sel).First()
		count, err := loc.Count()
		if err != nil || count == 0 {
			continue
		}
		if err := loc.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no clickable control among %s", strings.Join(selectors, ", "))
}

func waitNetworkIdle(page playwright.Page, timeout time.Duration) {
	// Best effort; busy pages with long-polling never go idle.
	_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
}
