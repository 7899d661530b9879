package gomag

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// captureArtifacts saves a screenshot and the page HTML for offline
// diagnosis of a failed step. Returns the paths of whatever it managed to
// write.
func (a *Automator) captureArtifacts(tag string) []string {
	if a.artifactsDir == "" {
		return nil
	}
	if err := os.MkdirAll(a.artifactsDir, 0o755); err != nil {
		a.log.Warn().Err(err).Str("dir", a.artifactsDir).Msg("Cannot create artifacts dir")
		return nil
	}

	page := a.session.Page()
	stamp := time.Now().Format("20060102-150405")
	var paths []string

	shot := filepath.Join(a.artifactsDir, fmt.Sprintf("%s-%s.png", tag, stamp))
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(shot),
		FullPage: playwright.Bool(true),
	}); err != nil {
		a.log.Warn().Err(err).Msg("Screenshot capture failed")
	} else {
		paths = append(paths, shot)
	}

	dump := filepath.Join(a.artifactsDir, fmt.Sprintf("%s-%s.html", tag, stamp))
	if html, err := page.Content(); err == nil {
		if err := os.WriteFile(dump, []byte(html), 0o644); err == nil {
			paths = append(paths, dump)
		}
	}

	return paths
}
