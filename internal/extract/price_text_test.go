package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     float64
		currency string
	}{
		{"euro symbol", "€49.99", 49.99, "EUR"},
		{"euro code", "Price: 49,99 EUR", 49.99, "EUR"},
		{"thousands dot decimal comma", "1.234,56 €", 1234.56, "EUR"},
		{"thousands comma decimal dot", "£1,234.56", 1234.56, "GBP"},
		{"romanian lei", "123,00 lei", 123.00, "RON"},
		{"ron code", "RON 59", 59, "RON"},
		{"integer euro", "250 EUR", 250, "EUR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cur := ParsePriceText(tt.text)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
			assert.Equal(t, tt.currency, cur)
		})
	}
}

func TestParsePriceText_Unparseable(t *testing.T) {
	for _, text := range []string{"", "no price here", "42.00", "EUR only"} {
		got, cur := ParsePriceText(text)
		assert.Nil(t, got, "input %q", text)
		assert.Empty(t, cur, "input %q", text)
	}
}
