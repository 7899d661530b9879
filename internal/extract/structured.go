package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

// StructuredData extracts product fields from embedded JSON-LD blocks.
// Malformed blocks are skipped; blocks that fail strict JSON parsing get one
// more chance as a JavaScript object literal, which recovers the trailing
// commas and single quotes seen on real shops.
type StructuredData struct{}

// NewStructuredData creates the structured-data extractor.
func NewStructuredData() *StructuredData { return &StructuredData{} }

// Name implements Extractor.
func (s *StructuredData) Name() string { return "structured" }

// Extract implements Extractor.
func (s *StructuredData) Extract(pageURL string, doc *goquery.Document) PartialRecord {
	var rec PartialRecord

	product := findProductNode(collectJSONLD(doc))
	if product == nil {
		return rec
	}

	rec.Title = stringField(product, "name")
	rec.SKU = stringField(product, "sku")
	if rec.SKU == "" {
		rec.SKU = stringField(product, "mpn")
	}
	rec.Description = stringField(product, "description")
	rec.Images = dedupeStrings(imageList(product["image"]))

	if offer := firstOffer(product["offers"]); offer != nil {
		if price, ok := numericField(offer, "price"); ok {
			cur := strings.ToUpper(stringField(offer, "priceCurrency"))
			if cur != "" {
				rec.Price = &price
				rec.Currency = cur
			}
		}
	}

	return rec
}

// collectJSONLD parses every ld+json block on the page, tolerating garbage.
func collectJSONLD(doc *goquery.Document) []map[string]any {
	var out []map[string]any

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}

		var parsed any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			parsed = evalLooseJSON(text)
			if parsed == nil {
				log.Debug().Msg("Skipping unparseable ld+json block")
				return
			}
		}

		switch v := parsed.(type) {
		case map[string]any:
			out = append(out, v)
		case []any:
			for _, item := range v {
				if m, ok := item.(map[string]any); ok {
					out = append(out, m)
				}
			}
		}
	})

	return out
}

// evalLooseJSON evaluates a blob as a JavaScript expression. Returns nil when
// the blob is not even valid JS.
func evalLooseJSON(text string) any {
	vm := goja.New()
	val, err := vm.RunString("(" + text + ")")
	if err != nil {
		return nil
	}
	return val.Export()
}

// findProductNode locates a node typed "Product", either directly or nested
// in an @graph list.
func findProductNode(nodes []map[string]any) map[string]any {
	for _, obj := range nodes {
		if isProductType(obj["@type"]) {
			return obj
		}
	}
	for _, obj := range nodes {
		graph, ok := obj["@graph"].([]any)
		if !ok {
			continue
		}
		for _, item := range graph {
			if m, ok := item.(map[string]any); ok && isProductType(m["@type"]) {
				return m
			}
		}
	}
	return nil
}

func isProductType(t any) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

// firstOffer normalizes offers: a lone object, or the first of a list.
func firstOffer(offers any) map[string]any {
	switch v := offers.(type) {
	case map[string]any:
		return v
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				return m
			}
		}
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// numericField accepts both "49.99" and 49.99 for price-like fields.
func numericField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// imageList accepts a single URL, a list of URLs, or ImageObject nodes.
func imageList(img any) []string {
	switch v := img.(type) {
	case string:
		return []string{strings.TrimSpace(v)}
	case []any:
		var out []string
		for _, item := range v {
			switch x := item.(type) {
			case string:
				out = append(out, strings.TrimSpace(x))
			case map[string]any:
				if u := stringField(x, "url"); u != "" {
					out = append(out, u)
				}
			}
		}
		return out
	case map[string]any:
		if u := stringField(v, "url"); u != "" {
			return []string{u}
		}
	}
	return nil
}
