package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gomag-tools/importer/internal/urlutil"
	"github.com/gomag-tools/importer/pkg/models"
)

// Merge runs the extractors in precedence order and folds their records into
// one ProductDraft. For every field the first non-empty value wins; a
// lower-precedence source never overwrites a field already set. The winning
// source per field is recorded in the draft's notes.
func Merge(pageURL string, doc *goquery.Document, extractors []Extractor) models.ProductDraft {
	draft := models.ProductDraft{
		SourceURL: pageURL,
		Domain:    urlutil.NormalizeDomain(urlutil.Domain(pageURL)),
	}
	var notes []string

	for _, ex := range extractors {
		rec := ex.Extract(pageURL, doc)
		source := ex.Name()

		if draft.Title == "" && rec.Title != "" {
			draft.Title = rec.Title
			notes = append(notes, "title="+source)
		}
		if draft.DescriptionHTML == "" && rec.Description != "" {
			draft.DescriptionHTML = rec.Description
			notes = append(notes, "description="+source)
		}
		if draft.SKU == "" && rec.SKU != "" {
			draft.SKU = rec.SKU
			notes = append(notes, "sku="+source)
		}
		if len(draft.Images) == 0 && len(rec.Images) > 0 {
			draft.Images = dedupeStrings(rec.Images)
			notes = append(notes, "images="+source)
		}
		// Price and currency travel as a pair from one source.
		if draft.Price == nil && rec.Price != nil && rec.Currency != "" {
			draft.Price = rec.Price
			draft.Currency = rec.Currency
			notes = append(notes, "price="+source)
		}
		if len(draft.Specs) == 0 && len(rec.Specs) > 0 {
			draft.Specs = rec.Specs
			notes = append(notes, "specs="+source)
		}
	}

	// The heuristic extractor guarantees both in practice, but the invariant
	// must hold even with a custom extractor list.
	if draft.SKU == "" {
		draft.SKU = HashSKU(pageURL)
		notes = append(notes, "sku=hash")
	}
	if draft.Title == "" {
		draft.Title = fmt.Sprintf("Product from %s", draft.Domain)
		notes = append(notes, "title=synthesized")
	}

	draft.Notes = strings.Join(notes, " ")
	return draft
}
