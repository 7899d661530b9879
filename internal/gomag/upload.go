package gomag

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Ranked triggers for the file-chooser sweep: visible labels first, uploader
// CSS classes second.
var (
	chooserTextCandidates = []string{
		"Încarcă", "Incarca", "Alege fișier", "Alege fisier",
		"Upload", "Browse", "Choose file", "Import",
	}
	chooserClassCandidates = []string{
		".dropzone",
		"[class*='upload']",
		"[class*='file-input']",
		"[class*='browse']",
	}
)

// attachFile places the import file using the first strategy that works and
// returns that strategy's name for the run log.
func (a *Automator) attachFile(filePath string) (string, error) {
	page := a.session.Page()

	if a.cfg.FileInputSelector != "" {
		if err := setFilesOn(page.Locator(a.cfg.FileInputSelector).First(), filePath); err == nil {
			return "configured-selector", nil
		} else {
			a.log.Debug().Err(err).Str("selector", a.cfg.FileInputSelector).
				Msg("Configured file input failed, trying generic strategies")
		}
	}

	if err := attachToAnyFileInput(page, filePath); err == nil {
		return "generic-input", nil
	}

	if err := a.fileChooserSweep(filePath); err == nil {
		return "chooser-sweep", nil
	}

	return "", ErrNoFileInput
}

// attachToAnyFileInput searches the main document and every frame for a file
// input, forcing hidden inputs visible before interacting. Styled uploaders
// almost always hide the real input behind a decorated label.
func attachToAnyFileInput(page playwright.Page, filePath string) error {
	for _, frame := range page.Frames() {
		inputs := frame.Locator(`input[type="file"]`)
		count, err := inputs.Count()
		if err != nil {
			continue
		}
		for i := 0; i < count; i++ {
			input := inputs.Nth(i)
			forceVisible(input)
			if err := setFilesOn(input, filePath); err == nil {
				return nil
			}
		}
	}
	return ErrNoFileInput
}

func forceVisible(input playwright.Locator) {
	_, _ = input.Evaluate(`el => {
		el.style.display = 'block';
		el.style.visibility = 'visible';
		el.style.opacity = '1';
		el.style.width = '1px';
		el.style.height = '1px';
	}`, nil)
}

func setFilesOn(input playwright.Locator, filePath string) error {
	count, err := input.Count()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoFileInput
	}
	return input.SetInputFiles(filePath)
}

// fileChooserSweep clicks ranked upload triggers while intercepting the
// native file-chooser dialog a real uploader opens.
func (a *Automator) fileChooserSweep(filePath string) error {
	page := a.session.Page()

	var selectors []string
	for _, text := range chooserTextCandidates {
		selectors = append(selectors,
			fmt.Sprintf(`button:has-text(%q)`, text),
			fmt.Sprintf(`a:has-text(%q)`, text),
			fmt.Sprintf(`label:has-text(%q)`, text),
		)
	}
	selectors = append(selectors, chooserClassCandidates...)

	for _, sel := range selectors {
		trigger := page.Locator(sel).First()
		count, err := trigger.Count()
		if err != nil || count == 0 {
			continue
		}
		if visible, err := trigger.IsVisible(); err != nil || !visible {
			continue
		}

		chooser, err := page.ExpectFileChooser(func() error {
			return trigger.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(3000)})
		}, playwright.PageExpectFileChooserOptions{Timeout: playwright.Float(5000)})
		if err != nil {
			continue
		}
		if err := chooser.SetFiles(filePath); err != nil {
			a.log.Debug().Err(err).Str("trigger", sel).Msg("File chooser rejected the file")
			continue
		}
		a.log.Debug().Str("trigger", sel).Msg("Attached file through chooser sweep")
		return nil
	}

	return ErrNoFileInput
}

// confirmAttachment verifies the page acknowledges the chosen file before
// submission is allowed.
func (a *Automator) confirmAttachment(filePath string) error {
	page := a.session.Page()
	name := filepath.Base(filePath)

	if html, err := page.Content(); err == nil && strings.Contains(html, name) {
		return nil
	}

	// Fall back to the inputs' own file lists.
	for _, frame := range page.Frames() {
		result, err := frame.Evaluate(
			`() => Array.from(document.querySelectorAll('input[type=file]')).some(i => i.files && i.files.length > 0)`)
		if err != nil {
			continue
		}
		if attached, ok := result.(bool); ok && attached {
			return nil
		}
	}

	return ErrAttachmentUnconfirmed
}

var startImportSelectors = []string{
	`button:has-text("Start Import")`,
	`button:has-text("Porneste importul")`,
	`button:has-text("Pornește importul")`,
	`a:has-text("Start Import")`,
	`input[type="submit"][value*="Import"]`,
	`[role="button"]:has-text("Import")`,
}

// startImport locates and clicks the Start-Import control. Never retried by
// callers; a duplicate submission is worse than a failed one.
func (a *Automator) startImport() error {
	page := a.session.Page()

	for _, sel := range startImportSelectors {
		control := page.Locator(sel).First()
		count, err := control.Count()
		if err != nil || count == 0 {
			continue
		}

		_ = control.ScrollIntoViewIfNeeded()
		if err := control.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)}); err != nil {
			// Overlays intercept natural clicks; a programmatic click
			// bypasses hit testing.
			if _, err := control.Evaluate("el => el.click()", nil); err != nil {
				continue
			}
		}
		a.log.Debug().Str("selector", sel).Msg("Start import clicked")
		return nil
	}

	return ErrStartImportNotFound
}
