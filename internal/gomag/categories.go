package gomag

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Row labels that are table chrome rather than category names.
var categoryNoiseLabels = map[string]struct{}{
	"categorie":  {},
	"categorii":  {},
	"denumire":   {},
	"nume":       {},
	"actiuni":    {},
	"acțiuni":    {},
	"actions":    {},
	"editeaza":   {},
	"editează":   {},
	"sterge":     {},
	"șterge":     {},
	"adauga":     {},
	"adaugă":     {},
	"name":       {},
	"category":   {},
	"categories": {},
}

var trailingIDRe = regexp.MustCompile(`\s*ID:\s*\d+\s*$`)

// ParseCategoryTable reads category names from the first column of every
// table row on the page. Trailing "ID: n" annotations are stripped, header
// and action labels dropped, and names deduped case-insensitively in order of
// first appearance.
func ParseCategoryTable(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var names []string
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("th, td").First()
		if cell.Length() == 0 {
			return
		}
		name := trailingIDRe.ReplaceAllString(normalizeSpace(cell.Text()), "")
		if name == "" {
			return
		}
		if _, noise := categoryNoiseLabels[strings.ToLower(name)]; noise {
			return
		}
		names = append(names, name)
	})

	return dedupeFold(names)
}

// ParseCategoryAnchors is the fallback strategy: anchor texts whose href
// points under the category listing path.
func ParseCategoryAnchors(html, categoriesPath string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil || categoriesPath == "" {
		return nil
	}

	var names []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.Contains(href, categoriesPath) {
			return
		}
		name := normalizeSpace(a.Text())
		if name == "" {
			return
		}
		if _, noise := categoryNoiseLabels[strings.ToLower(name)]; noise {
			return
		}
		names = append(names, name)
	})

	return dedupeFold(names)
}

// IsLoginPage detects that a supposedly authenticated page is really the
// login form, which means the session was lost.
func IsLoginPage(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return doc.Find(`form input[type="password"]`).Length() > 0
}

func dedupeFold(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
