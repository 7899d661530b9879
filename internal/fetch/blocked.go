package fetch

import "strings"

// blockMarkers are substrings whose presence in a (lowercased) body indicates
// an anti-bot interstitial or a consent wall rather than the real page.
var blockMarkers = []string{
	"captcha",
	"cf-browser-verification",
	"attention required",
	"just a moment",
	"enable javascript",
	"access denied",
	"robot check",
	"cookie-consent-banner",
	"cookieconsent",
	"are you a human",
}

// Blocked classifies a static response as blocked/insufficient: too short,
// an error status, or a body carrying a known anti-bot/consent marker.
func Blocked(statusCode int, body string, minBytes int) bool {
	if statusCode >= 400 {
		return true
	}
	if len(body) < minBytes {
		return true
	}
	lower := strings.ToLower(body)
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
