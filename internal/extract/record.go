// Package extract turns supplier HTML into partial product records through
// three strategies of decreasing precision: embedded structured data,
// per-domain declarative rules, and generic heuristics. The merger folds the
// three outputs with fixed precedence.
package extract

import "github.com/PuerkitoBio/goquery"

// PartialRecord is the output of one extraction strategy. Empty fields mean
// "this strategy found nothing"; they never mean a deliberate blank.
type PartialRecord struct {
	Title       string
	Description string
	SKU         string
	Images      []string
	Price       *float64
	Currency    string
	Specs       map[string]string
}

// Extractor is one extraction strategy. Implementations never fail: a page
// the strategy cannot read yields an empty record.
type Extractor interface {
	// Name identifies the strategy in merge notes and logs.
	Name() string
	// Extract reads whatever the strategy can find on the page.
	Extract(pageURL string, doc *goquery.Document) PartialRecord
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
