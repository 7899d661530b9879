package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomag-tools/importer/pkg/models"
)

// Table is the formatted output in template column order, serialization
// agnostic.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Formatter maps drafts onto a fixed template header list.
type Formatter struct {
	headers []string
}

// NewFormatter creates a formatter for the given template headers. Nil or
// empty headers select the fallback set.
func NewFormatter(headers []string) *Formatter {
	if len(headers) == 0 {
		headers = FallbackHeaders()
	}
	return &Formatter{headers: headers}
}

// Format builds one row per draft. categoryMap assigns a category per source
// URL; drafts without an entry fall back to the run-wide category in
// settings.
func (f *Formatter) Format(drafts []models.ProductDraft, categoryMap map[string]string, settings models.ImportSettings) Table {
	rows := make([][]string, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, f.row(d, categoryMap, settings))
	}
	return Table{Headers: append([]string(nil), f.headers...), Rows: rows}
}

func (f *Formatter) row(d models.ProductDraft, categoryMap map[string]string, settings models.ImportSettings) []string {
	category := categoryMap[d.SourceURL]
	if category == "" {
		category = settings.CategoryID
	}

	cells := map[string]string{
		HeaderSKU:         models.ShortenSKU(d.SKU, models.SKUMaxLen),
		HeaderTitle:       sanitizeText(d.Title),
		HeaderDescription: sanitizeText(d.DescriptionHTML),
		HeaderShortDesc:   sanitizeText(d.ShortDescription),
		// Gomag accepts multiple image URLs separated by newlines.
		HeaderImageURL:    strings.Join(compact(d.Images), "\n"),
		HeaderPrice:       fmt.Sprintf("%.2f", d.PriceRON),
		HeaderVATIncluded: yesNo(settings.VATIncluded),
		HeaderVATRate:     strconv.FormatFloat(settings.VATRate, 'f', -1, 64),
		HeaderCurrency:    "RON",
		HeaderStock:       strconv.Itoa(settings.StockDefault),
		HeaderActive:      yesNo(settings.PublishImmediately),
		HeaderCategory:    sanitizeText(category),
	}

	row := make([]string, len(f.headers))
	for i, h := range f.headers {
		row[i] = cells[h]
	}
	return row
}

func yesNo(v bool) string {
	if v {
		return "DA"
	}
	return "NU"
}

// sanitizeText collapses tabs, newlines and runs of whitespace so text cells
// cannot break the flat-file serialization.
func sanitizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func compact(values []string) []string {
	out := values[:0:0]
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
