// Package models holds the domain types shared across the importer pipeline.
package models

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// FetchMethod records which fetch path produced a page's HTML.
type FetchMethod string

const (
	// MethodStatic means a plain HTTP GET was sufficient.
	MethodStatic FetchMethod = "static"
	// MethodRender means the page had to be rendered in a headless browser.
	MethodRender FetchMethod = "render"
)

// SKUMaxLen is the SKU length limit enforced by the target platform.
const SKUMaxLen = 30

// ProductDraft is one scraped product, normalized and ready for review/export.
type ProductDraft struct {
	SourceURL        string            `json:"source_url"`
	Domain           string            `json:"domain"`
	SKU              string            `json:"sku"`
	Title            string            `json:"title"`
	DescriptionHTML  string            `json:"description_html,omitempty"`
	ShortDescription string            `json:"short_description,omitempty"`
	Images           []string          `json:"images,omitempty"`
	Price            *float64          `json:"price,omitempty"`
	Currency         string            `json:"currency,omitempty"`
	PriceRON         float64           `json:"price_ron"`
	Specs            map[string]string `json:"specs,omitempty"`
	NeedsTranslation bool              `json:"needs_translation"`
	Notes            string            `json:"notes,omitempty"`
}

// ImportSettings configures one import run. Built once by the caller and
// treated as immutable for the duration of the run.
type ImportSettings struct {
	CategoryID              string  `json:"category_id"`
	EURRON                  float64 `json:"eur_ron"`
	GBPRON                  float64 `json:"gbp_ron"`
	MarkupPercent           float64 `json:"markup_percent"`
	StockDefault            int     `json:"stock_default"`
	MissingPriceFallbackRON float64 `json:"missing_price_fallback_ron"`
	PublishImmediately      bool    `json:"publish_immediately"`

	// VAT handling is deliberately caller-configurable; the platform rejects
	// rows whose VAT columns disagree with the shop settings.
	VATIncluded bool    `json:"vat_included"`
	VATRate     float64 `json:"vat_rate"`
}

// CategoryRecord is one category read from (or created on) the remote platform.
type CategoryRecord struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// ImportStatus classifies the outcome of one import attempt.
type ImportStatus string

const (
	StatusOK                 ImportStatus = "ok"
	StatusNoNewImport        ImportStatus = "no_new_import"
	StatusFinishedWithErrors ImportStatus = "finished_with_errors"
	StatusFatal              ImportStatus = "fatal"
)

// ImportResult is the immutable outcome of one import attempt.
type ImportResult struct {
	Status              ImportStatus `json:"status"`
	SummaryRowText      string       `json:"summary_row_text,omitempty"`
	ErrorRows           []string     `json:"error_rows,omitempty"`
	DiagnosticArtifacts []string     `json:"diagnostic_artifacts,omitempty"`
}

// ShortenSKU truncates a SKU to max characters deterministically. Over-length
// SKUs keep a prefix and gain a short hash of the full value, so two distinct
// long SKUs sharing a prefix still map to distinct outputs.
func ShortenSKU(sku string, max int) string {
	if max <= 0 {
		max = SKUMaxLen
	}
	if len(sku) <= max {
		return sku
	}
	sum := sha1.Sum([]byte(sku))
	h := hex.EncodeToString(sum[:])[:8]
	prefixLen := max - 1 - len(h)
	if prefixLen < 0 {
		prefixLen = 0
	}
	return fmt.Sprintf("%s-%s", sku[:prefixLen], h)
}
