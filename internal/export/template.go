// Package export maps product drafts onto the Gomag import template and
// serializes them as an XLSX workbook or a TSV flat file.
package export

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Template column names the formatter fills. Any template column outside this
// set is emitted empty; columns absent from the template are never emitted.
const (
	HeaderSKU         = "Cod Produs (SKU)"
	HeaderTitle       = "Denumire Produs"
	HeaderDescription = "Descriere Produs"
	HeaderShortDesc   = "Descriere Scurta a Produsului"
	HeaderImageURL    = "URL Poza de Produs"
	HeaderPrice       = "Pret"
	HeaderVATIncluded = "Pretul Include TVA"
	HeaderVATRate     = "Cota TVA"
	HeaderCurrency    = "Moneda"
	HeaderStock       = "Stoc Cantitativ"
	HeaderActive      = "Activ in Magazin"
	HeaderCategory    = "Categorie / Categorii"
)

// FallbackHeaders is the minimal safe column set, used when the template
// workbook is missing or unreadable.
func FallbackHeaders() []string {
	return []string{
		HeaderSKU,
		HeaderTitle,
		HeaderDescription,
		HeaderShortDesc,
		HeaderImageURL,
		HeaderPrice,
		HeaderVATIncluded,
		HeaderVATRate,
		HeaderCurrency,
		HeaderStock,
		HeaderActive,
		HeaderCategory,
	}
}

// LoadTemplateHeaders reads the header row of the platform's import template
// workbook. A missing or broken template falls back to FallbackHeaders.
func LoadTemplateHeaders(path string) []string {
	headers, err := readHeaderRow(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Template unavailable, using fallback headers")
		return FallbackHeaders()
	}
	return headers
}

func readHeaderRow(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("template %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("template %s has no header row", path)
	}

	var headers []string
	for _, cell := range rows[0] {
		if cell != "" {
			headers = append(headers, cell)
		}
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("template %s header row is empty", path)
	}
	return headers, nil
}
