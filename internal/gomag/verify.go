package gomag

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gomag-tools/importer/pkg/models"
)

// Status-cell markers meaning the import finished with validation errors.
var errorMarkers = []string{"erori", "eroare", "errors", "failed"}

// FirstHistoryRowText returns the normalized text of the first data row of
// the import-history table, or "" when the page has none. Snapshots taken
// before and after submission are compared textually.
func FirstHistoryRowText(html string) string {
	row := firstHistoryRow(html)
	if row == nil {
		return ""
	}
	return normalizeSpace(row.Text())
}

// FirstHistoryRowDetailHref returns the first link inside the first history
// row, which on the platform leads to the per-import detail page.
func FirstHistoryRowDetailHref(html string) string {
	row := firstHistoryRow(html)
	if row == nil {
		return ""
	}
	href, _ := row.Find("a[href]").First().Attr("href")
	return strings.TrimSpace(href)
}

func firstHistoryRow(html string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	var row *goquery.Selection
	doc.Find("table tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		// Header rows carry th cells only.
		if tr.Find("td").Length() == 0 {
			return true
		}
		row = tr
		return false
	})
	return row
}

// ClassifyOutcome maps before/after first-row snapshots of the import
// history to an import status. An unchanged (or absent) first row means the
// submission never registered; a changed row finished either cleanly or with
// validation errors depending on its status cell.
func ClassifyOutcome(before, after string) models.ImportStatus {
	if after == "" || after == before {
		return models.StatusNoNewImport
	}
	if RowIndicatesErrors(after) {
		return models.StatusFinishedWithErrors
	}
	return models.StatusOK
}

// RowIndicatesErrors reports whether a history-row snapshot mentions a
// finished-with-errors status.
func RowIndicatesErrors(rowText string) bool {
	lower := strings.ToLower(rowText)
	for _, marker := range errorMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ParseErrorRows extracts up to limit rows from the validation-error table on
// an import detail page, each row's cells joined with " | ", returned
// verbatim for the caller to surface.
func ParseErrorRows(html string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var rows []string
	doc.Find("table tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}
		var parts []string
		cells.Each(func(_ int, td *goquery.Selection) {
			if text := normalizeSpace(td.Text()); text != "" {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			rows = append(rows, strings.Join(parts, " | "))
		}
		return limit <= 0 || len(rows) < limit
	})
	return rows
}
