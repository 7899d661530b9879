package extract

import (
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Summarize derives a plain-text short description from description HTML,
// truncated at a word boundary.
func Summarize(descriptionHTML string, maxLen int) string {
	if descriptionHTML == "" {
		return ""
	}

	converter := md.NewConverter("", true, nil)
	text, err := converter.ConvertString(descriptionHTML)
	if err != nil {
		text = descriptionHTML
	}

	// Markdown emphasis/heading markers are noise in a short description.
	text = strings.NewReplacer("#", "", "*", "", "_", " ", "`", "").Replace(text)
	text = normalizeSpace(text)

	if maxLen <= 0 || len(text) <= maxLen {
		return text
	}

	// Never split a multi-byte rune at the cut point.
	for maxLen > 0 && !utf8.RuneStart(text[maxLen]) {
		maxLen--
	}
	cut := text[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > maxLen/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ,;.") + "…"
}
