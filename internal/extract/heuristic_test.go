package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicTitleChain(t *testing.T) {
	h := NewHeuristic()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"og title wins",
			`<head><meta property="og:title" content="OG Bag"><title>Title Bag | Shop</title></head><body><h1>H1 Bag</h1></body>`,
			"OG Bag",
		},
		{
			"largest h1 next",
			`<body><h1>New</h1><h1>Anti-Theft Backpack 15 inch</h1></body>`,
			"Anti-Theft Backpack 15 inch",
		},
		{
			"title first segment",
			`<head><title>Travel Mug - Best Shop Ever</title></head><body></body>`,
			"Travel Mug",
		},
		{
			"synthesized from domain",
			`<body></body>`,
			"Product from shop.example.ro",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.Extract("https://www.shop.example.ro/p/9", docFrom(t, "<html>"+tt.html+"</html>"))
			assert.Equal(t, tt.want, rec.Title)
		})
	}
}

func TestHeuristicSKU(t *testing.T) {
	h := NewHeuristic()

	t.Run("labeled sku", func(t *testing.T) {
		rec := h.Extract("https://shop.x/p", docFrom(t, `<body><p>SKU: ab-123/X</p></body>`))
		assert.Equal(t, "AB-123/X", rec.SKU)
	})

	t.Run("supplier code in path", func(t *testing.T) {
		rec := h.Extract("https://www.midocean.com/bags/mo2739-03", docFrom(t, `<body></body>`))
		assert.Equal(t, "MO2739", rec.SKU)
	})

	t.Run("hash fallback is stable and prefixed", func(t *testing.T) {
		url := "https://shop.x/some/product"
		a := h.Extract(url, docFrom(t, `<body></body>`)).SKU
		b := h.Extract(url, docFrom(t, `<body><p>different page body</p></body>`)).SKU

		assert.True(t, strings.HasPrefix(a, "IMP-"))
		assert.Len(t, a, len("IMP-")+10)
		assert.Equal(t, a, b)
		assert.Equal(t, strings.ToUpper(a), a)

		other := h.Extract("https://shop.x/other/product", docFrom(t, `<body></body>`)).SKU
		assert.NotEqual(t, a, other)
	})
}

func TestHeuristicImages(t *testing.T) {
	html := `<html><head><meta property="og:image" content="/img/main.jpg"></head><body>
	<img src="/img/main.jpg">
	<img src="/img/side.jpg">
	<img data-src="/img/lazy.jpg">
	<img srcset="/img/small.jpg 480w, /img/big.jpg 1200w">
	<img src="/assets/logo.png">
	<img src="/sprites/icon-cart.svg">
	</body></html>`

	rec := NewHeuristic().Extract("https://shop.x/p/1", docFrom(t, html))

	assert.Equal(t, []string{
		"https://shop.x/img/main.jpg",
		"https://shop.x/img/side.jpg",
		"https://shop.x/img/lazy.jpg",
		"https://shop.x/img/small.jpg",
	}, rec.Images)
}

func TestHeuristicImages_Cap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("<body>")
	for i := 0; i < 40; i++ {
		sb.WriteString(`<img src="/img/photo-`)
		sb.WriteByte(byte('a' + i%26))
		sb.WriteString(`-`)
		sb.WriteByte(byte('0' + i%10))
		sb.WriteString(`.jpg">`)
	}
	sb.WriteString("</body>")

	rec := NewHeuristic().Extract("https://shop.x/p", docFrom(t, sb.String()))
	assert.LessOrEqual(t, len(rec.Images), MaxHeuristicImages)
}

func TestHeuristicDescription(t *testing.T) {
	t.Run("meta description", func(t *testing.T) {
		rec := NewHeuristic().Extract("https://shop.x/p",
			docFrom(t, `<head><meta name="description" content="A sturdy backpack."></head>`))
		assert.Equal(t, "A sturdy backpack.", rec.Description)
	})

	t.Run("largest content block, chrome stripped", func(t *testing.T) {
		long := strings.Repeat("This backpack protects your laptop from rain and thieves. ", 4)
		html := `<body>
		<nav><div>` + strings.Repeat("Home Products Contact Login ", 20) + `</div></nav>
		<main><div class="product-description"><p>` + long + `</p></div></main>
		<footer><p>` + strings.Repeat("All rights reserved. ", 10) + `</p></footer>
		</body>`

		rec := NewHeuristic().Extract("https://shop.x/p", docFrom(t, html))
		assert.Equal(t, strings.TrimSpace(long), rec.Description)
	})
}
