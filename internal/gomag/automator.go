// Package gomag drives the shop's admin UI through a real browser: login,
// category discovery, import-file upload and result verification. The
// platform has no import API, so the UI is the contract.
package gomag

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gomag-tools/importer/internal/config"
	"github.com/gomag-tools/importer/internal/retry"
	"github.com/gomag-tools/importer/pkg/models"
)

// State names one step of the import automation.
type State string

const (
	StateLoggedOut          State = "logged_out"
	StateLoggingIn          State = "logging_in"
	StateCategoriesOrImport State = "categories_or_import_form"
	StateFileAttached       State = "file_attached"
	StateImportSubmitted    State = "import_submitted"
	StateVerifyingResult    State = "verifying_result"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// Automator runs one import session against one shop account. It is
// single-flight: login, upload and verification happen in strict sequence on
// one browser context.
type Automator struct {
	cfg          config.Gomag
	session      *Session
	artifactsDir string
	navTimeout   time.Duration
	settle       time.Duration
	policy       retry.Policy

	state State
	log   zerolog.Logger
}

// New creates an automator over an open session. The caller owns the
// session's lifetime.
func New(cfg config.Gomag, session *Session, artifactsDir string) *Automator {
	return &Automator{
		cfg:          cfg,
		session:      session,
		artifactsDir: artifactsDir,
		navTimeout:   60 * time.Second,
		settle:       time.Second,
		policy:       retry.DefaultPolicy(),
		state:        StateLoggedOut,
		log:          log.With().Str("component", "gomag").Logger(),
	}
}

// State returns the current automation state.
func (a *Automator) State() State { return a.state }

func (a *Automator) setState(s State) {
	a.log.Debug().Str("from", string(a.state)).Str("to", string(s)).Msg("State transition")
	a.state = s
}

// Categories discovers the shop's category names. Idempotent, so navigation
// and parsing are retried under the shared policy.
func (a *Automator) Categories(ctx context.Context) ([]string, error) {
	if a.state == StateLoggedOut {
		if err := a.login(); err != nil {
			a.setState(StateFailed)
			return nil, err
		}
		a.setState(StateCategoriesOrImport)
	}

	var names []string
	err := retry.Do(ctx, a.policy, func() error {
		html, err := a.openPage(a.cfg.CategoriesPath)
		if err != nil {
			return err
		}
		if IsLoginPage(html) {
			return retry.Permanent(fmt.Errorf("category page: %w", ErrSessionLost))
		}

		names = ParseCategoryTable(html)
		if len(names) == 0 {
			names = ParseCategoryAnchors(html, a.cfg.CategoriesPath)
		}
		if len(names) == 0 {
			return ErrNoCategories
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.log.Debug().Int("count", len(names)).Msg("Categories discovered")
	return names, nil
}

// CreateCategory adds a category through the UI form and confirms it shows
// up in a re-read of the listing.
func (a *Automator) CreateCategory(ctx context.Context, name string) error {
	if _, err := a.openPage(a.cfg.CategoriesPath); err != nil {
		return err
	}

	page := a.session.Page()
	if err := fillFirst(page, []string{
		`input[name*="categ"]`,
		`input[placeholder*="categor"]`,
		`form input[type="text"]`,
	}, name); err != nil {
		return fmt.Errorf("category name field: %w", err)
	}
	if err := clickFirst(page, []string{
		`button:has-text("Adaugă")`,
		`button:has-text("Adauga")`,
		`button:has-text("Salveaza")`,
		`button[type="submit"]`,
	}); err != nil {
		return fmt.Errorf("category create control: %w", err)
	}
	waitNetworkIdle(page, a.navTimeout)

	names, err := a.Categories(ctx)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return fmt.Errorf("category %q not present after creation", name)
}

// Run executes one full import: attach the file, submit, and verify the
// outcome against the import history. Every failure path ends in a terminal
// result; the browser session itself is closed by the caller.
func (a *Automator) Run(ctx context.Context, filePath string) *models.ImportResult {
	if a.state == StateLoggedOut {
		if err := a.login(); err != nil {
			return a.fail("login", err)
		}
		a.setState(StateCategoriesOrImport)
	}

	html, err := a.openPage(a.cfg.ImportPath)
	if err != nil {
		return a.fail("open import page", err)
	}
	if IsLoginPage(html) {
		return a.fail("open import page", ErrSessionLost)
	}

	// Snapshot before submitting; the comparison afterwards is the only
	// reliable signal that the submission registered.
	before := FirstHistoryRowText(html)

	strategy, err := a.attachFile(filePath)
	if err != nil {
		return a.failWithArtifacts("attach file", err)
	}
	if err := a.confirmAttachment(filePath); err != nil {
		return a.failWithArtifacts("confirm attachment", err)
	}
	a.setState(StateFileAttached)
	a.log.Debug().Str("strategy", strategy).Msg("File attached")

	// Submission is never auto-retried: a duplicate import is worse than a
	// missed one.
	if err := a.startImport(); err != nil {
		return a.failWithArtifacts("start import", err)
	}
	a.setState(StateImportSubmitted)

	a.setState(StateVerifyingResult)
	result := a.verify(ctx, before)
	if result.Status == models.StatusFatal {
		a.setState(StateFailed)
	} else {
		a.setState(StateDone)
	}
	return result
}

func (a *Automator) verify(ctx context.Context, before string) *models.ImportResult {
	time.Sleep(2 * a.settle)

	html, err := a.openPage(a.cfg.ImportPath)
	if err != nil {
		return &models.ImportResult{Status: models.StatusFatal, SummaryRowText: err.Error()}
	}

	after := FirstHistoryRowText(html)
	result := &models.ImportResult{Status: ClassifyOutcome(before, after), SummaryRowText: after}
	if result.Status == models.StatusFinishedWithErrors {
		result.ErrorRows = a.collectErrorRows(ctx, html)
	}
	return result
}

func (a *Automator) collectErrorRows(ctx context.Context, historyHTML string) []string {
	href := FirstHistoryRowDetailHref(historyHTML)
	if href == "" {
		return nil
	}

	var rows []string
	err := retry.Do(ctx, a.policy, func() error {
		page := a.session.Page()
		if err := gotoSafe(page, absoluteURL(a.cfg.BaseURL+a.cfg.ImportPath, href), a.navTimeout); err != nil {
			return err
		}
		waitNetworkIdle(page, a.navTimeout)
		html, err := page.Content()
		if err != nil {
			return err
		}
		rows = ParseErrorRows(html, a.cfg.ErrorRowLimit)
		return nil
	})
	if err != nil {
		a.log.Warn().Err(err).Msg("Could not read import error detail")
	}
	return rows
}

// openPage navigates to a path under the shop base URL and returns the
// settled page HTML.
func (a *Automator) openPage(path string) (string, error) {
	page := a.session.Page()
	if err := gotoSafe(page, a.cfg.BaseURL+path, a.navTimeout); err != nil {
		return "", err
	}
	page.WaitForTimeout(float64(a.settle.Milliseconds()))
	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return html, nil
}

func (a *Automator) fail(step string, err error) *models.ImportResult {
	a.setState(StateFailed)
	a.log.Error().Err(err).Str("step", step).Msg("Import failed")
	return &models.ImportResult{
		Status:         models.StatusFatal,
		SummaryRowText: fmt.Sprintf("%s: %v", step, err),
	}
}

func (a *Automator) failWithArtifacts(step string, err error) *models.ImportResult {
	artifacts := a.captureArtifacts(step)
	res := a.fail(step, err)
	res.DiagnosticArtifacts = artifacts
	return res
}

// absoluteURL resolves a history-detail href against the page it was found
// on, so bare-relative links like "detail.php?id=42" work too.
func absoluteURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
