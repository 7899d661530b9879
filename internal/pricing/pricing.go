// Package pricing converts scraped source prices into final RON shelf prices.
package pricing

import (
	"math"
	"strings"

	"github.com/gomag-tools/importer/pkg/models"
)

// MinPriceRON is the lowest price a computed conversion may produce. Prices
// below it would break the trailing-.90 convention.
const MinPriceRON = 1.90

// RoundUpTo90 rounds up to the nearest value ending in .90. A price already
// ending in .90 is returned unchanged.
func RoundUpTo90(price float64) float64 {
	return math.Ceil(price-0.90) + 0.90
}

// Normalize computes the final RON price for a draft's source price.
//
// A missing price, missing currency or a currency outside the conversion
// table yields settings.MissingPriceFallbackRON verbatim, exempt from markup,
// floor and rounding. Everything else is converted to RON, marked up,
// floored at MinPriceRON and rounded up to the nearest .90.
func Normalize(price *float64, currency string, settings models.ImportSettings) float64 {
	if price == nil || currency == "" {
		return settings.MissingPriceFallbackRON
	}

	var base float64
	switch strings.ToUpper(currency) {
	case "RON":
		base = *price
	case "EUR":
		base = *price * settings.EURRON
	case "GBP":
		base = *price * settings.GBPRON
	default:
		return settings.MissingPriceFallbackRON
	}

	final := base * (1 + settings.MarkupPercent/100)
	if final < MinPriceRON {
		final = MinPriceRON
	}
	return RoundUpTo90(final)
}

// Apply normalizes the draft's price in place, filling PriceRON.
func Apply(draft *models.ProductDraft, settings models.ImportSettings) {
	draft.PriceRON = Normalize(draft.Price, draft.Currency, settings)
}
