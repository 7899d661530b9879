package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var priceNumberRe = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{3})*[.,]\d{2}|\d+[.,]\d{2}|\d+)`)

// ParsePriceText parses a human-facing price snippet into a value and an ISO
// currency code. Both must be recoverable; otherwise (nil, "") is returned.
//
// Locale handling: when both comma and dot appear, the rightmost one is the
// decimal separator ("1.234,56" vs "1,234.56"); a lone comma is treated as a
// decimal comma.
func ParsePriceText(text string) (*float64, string) {
	if text == "" {
		return nil, ""
	}

	upper := strings.ToUpper(text)
	currency := ""
	switch {
	case strings.Contains(text, "€") || strings.Contains(upper, "EUR"):
		currency = "EUR"
	case strings.Contains(upper, "RON") || strings.Contains(upper, "LEI"):
		currency = "RON"
	case strings.Contains(text, "£") || strings.Contains(upper, "GBP"):
		currency = "GBP"
	}

	m := priceNumberRe.FindString(text)
	if m == "" || currency == "" {
		return nil, ""
	}

	raw := m
	hasComma := strings.Contains(raw, ",")
	hasDot := strings.Contains(raw, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case hasComma:
		raw = strings.ReplaceAll(raw, ",", ".")
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, ""
	}
	return &v, currency
}
