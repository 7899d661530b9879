package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortenSKU(t *testing.T) {
	tests := []struct {
		name string
		sku  string
	}{
		{"short sku unchanged", "MO2739-03"},
		{"exactly at limit", strings.Repeat("A", SKUMaxLen)},
		{"over limit", strings.Repeat("A", 45)},
		{"long supplier code", "AP123456-78-VARIANT-BLUE-GIFTBOX-EDITION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortenSKU(tt.sku, SKUMaxLen)
			assert.LessOrEqual(t, len(got), SKUMaxLen)
			if len(tt.sku) <= SKUMaxLen {
				assert.Equal(t, tt.sku, got)
			}
		})
	}
}

func TestShortenSKU_SharedPrefixStaysDistinct(t *testing.T) {
	prefix := strings.Repeat("X", 40)
	a := ShortenSKU(prefix+"-RED", SKUMaxLen)
	b := ShortenSKU(prefix+"-BLUE", SKUMaxLen)

	assert.LessOrEqual(t, len(a), SKUMaxLen)
	assert.LessOrEqual(t, len(b), SKUMaxLen)
	assert.NotEqual(t, a, b)
	// Same input always maps to the same output.
	assert.Equal(t, a, ShortenSKU(prefix+"-RED", SKUMaxLen))
}
