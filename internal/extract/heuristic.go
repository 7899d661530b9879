package extract

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gomag-tools/importer/internal/urlutil"
)

// MaxHeuristicImages caps how many gallery candidates the heuristic keeps.
const MaxHeuristicImages = 12

// skuHashPrefix marks SKUs synthesized from the URL rather than found on the
// page.
const skuHashPrefix = "IMP-"

var (
	titleSeparators = []string{" | ", " - ", " – ", " — ", " :: "}

	labeledSKURes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bSKU\s*[:#]?\s*([A-Z0-9.\-_/]{3,})\b`),
		regexp.MustCompile(`(?i)\b(?:Product code|Item code|Cod produs)\s*[:#]?\s*([A-Z0-9.\-_/]{3,})\b`),
	}

	// Supplier article-code shapes commonly embedded in product URLs.
	pathSKURe = regexp.MustCompile(`(?i)(AP\d{6,}-\d+|MO\d{3,5}|KI\d{4}|P\d{3}\.\d{2}|DM\d{5,}|PC\d{4,})`)

	// Image URLs that are chrome, not product photos.
	junkImageRe = regexp.MustCompile(`(?i)(logo|icon|sprite|favicon|placeholder|avatar|spinner|loading|pixel|banner)`)

	boilerplateWords = []string{
		"login", "log in", "sign in", "register", "contact", "cart",
		"checkout", "wishlist", "next", "previous", "pagina", "page",
		"cookie", "newsletter", "menu", "search", "home",
	}
)

// Heuristic is the generic no-configuration fallback. It always yields at
// least a title and a SKU.
type Heuristic struct{}

// NewHeuristic creates the heuristic extractor.
func NewHeuristic() *Heuristic { return &Heuristic{} }

// Name implements Extractor.
func (h *Heuristic) Name() string { return "heuristic" }

// Extract implements Extractor.
func (h *Heuristic) Extract(pageURL string, doc *goquery.Document) PartialRecord {
	rec := PartialRecord{
		Title:       heuristicTitle(pageURL, doc),
		Description: heuristicDescription(doc),
		Images:      heuristicImages(pageURL, doc),
		SKU:         heuristicSKU(pageURL, doc),
	}

	// Last resort: sweep visible text for an obvious price snippet.
	rec.Price, rec.Currency = ParsePriceText(normalizeSpace(doc.Find("body").Text()))

	return rec
}

// HashSKU derives the deterministic fallback SKU for a URL: a fixed prefix
// plus a short uppercase hash, stable across re-runs.
func HashSKU(pageURL string) string {
	sum := sha1.Sum([]byte(pageURL))
	return skuHashPrefix + strings.ToUpper(hex.EncodeToString(sum[:])[:10])
}

func heuristicTitle(pageURL string, doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := normalizeSpace(og); t != "" {
			return t
		}
	}

	// Largest h1 wins; small h1s are often badges or section labels.
	best := ""
	doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		t := normalizeSpace(sel.Text())
		if len(t) > len(best) {
			best = t
		}
	})
	if best != "" {
		return best
	}

	if t := normalizeSpace(doc.Find("title").First().Text()); t != "" {
		for _, sep := range titleSeparators {
			if idx := strings.Index(t, sep); idx > 0 {
				return strings.TrimSpace(t[:idx])
			}
		}
		return t
	}

	domain := urlutil.NormalizeDomain(urlutil.Domain(pageURL))
	if domain == "" {
		domain = "unknown"
	}
	return fmt.Sprintf("Product from %s", domain)
}

func heuristicDescription(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`} {
		if content, ok := doc.Find(sel).Attr("content"); ok {
			if d := normalizeSpace(content); d != "" {
				return d
			}
		}
	}

	return largestTextBlock(doc)
}

// largestTextBlock finds the biggest plausible description inside main/
// article-like containers, after discarding navigation chrome and
// boilerplate lines.
func largestTextBlock(doc *goquery.Document) string {
	clone := goquery.CloneDocument(doc)
	clone.Find("nav, header, footer, form, script, style, aside, [class*=cookie], [id*=cookie]").Remove()

	containers := clone.Find("main, article, [class*=product], [class*=description], [id*=description]")
	if containers.Length() == 0 {
		containers = clone.Find("body")
	}

	best := ""
	containers.Find("p, div").Each(func(_ int, sel *goquery.Selection) {
		// Only leaf-ish blocks; big wrapper divs double-count children.
		if sel.Children().Filter("p, div").Length() > 0 {
			return
		}
		text := normalizeSpace(sel.Text())
		if len(text) <= len(best) {
			return
		}
		if isBoilerplate(text) {
			return
		}
		best = text
	})

	return best
}

func isBoilerplate(text string) bool {
	if len(text) < 40 {
		return true
	}
	if alphaDensity(text) < 0.5 {
		return true
	}
	lower := strings.ToLower(text)
	if len(text) < 120 {
		for _, w := range boilerplateWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}
	return false
}

func alphaDensity(text string) float64 {
	if text == "" {
		return 0
	}
	letters := 0
	for _, r := range text {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || r >= 0x00C0 {
			letters++
		}
	}
	return float64(letters) / float64(len([]rune(text)))
}

func heuristicImages(pageURL string, doc *goquery.Document) []string {
	var images []string

	for _, sel := range []string{`meta[property="og:image"]`, `meta[property="og:image:url"]`} {
		if content, ok := doc.Find(sel).Attr("content"); ok && strings.TrimSpace(content) != "" {
			images = append(images, urlutil.Resolve(pageURL, content))
		}
	}

	doc.Find("img").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src := firstImgSource(sel)
		if src == "" {
			return true
		}
		abs := urlutil.Resolve(pageURL, src)
		if !strings.HasPrefix(abs, "http") || junkImageRe.MatchString(abs) {
			return true
		}
		images = append(images, abs)
		// Collect a few extra before dedup so duplicates don't starve the cap.
		return len(images) < MaxHeuristicImages*2
	})

	images = dedupeStrings(images)
	if len(images) > MaxHeuristicImages {
		images = images[:MaxHeuristicImages]
	}
	return images
}

func firstImgSource(sel *goquery.Selection) string {
	for _, attr := range []string{"src", "data-src", "data-lazy-src"} {
		if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	if srcset, ok := sel.Attr("srcset"); ok {
		// First candidate of the srcset: "url width, url width, ..."
		first := strings.Split(srcset, ",")[0]
		if fields := strings.Fields(first); len(fields) > 0 {
			return fields[0]
		}
	}
	return ""
}

func heuristicSKU(pageURL string, doc *goquery.Document) string {
	bodyText := doc.Find("body").Text()
	for _, re := range labeledSKURes {
		if m := re.FindStringSubmatch(bodyText); m != nil {
			return strings.ToUpper(strings.TrimSpace(m[len(m)-1]))
		}
	}

	if u, err := url.Parse(pageURL); err == nil {
		if m := pathSKURe.FindString(u.Path); m != "" {
			return strings.ToUpper(m)
		}
	}

	return HashSKU(pageURL)
}
