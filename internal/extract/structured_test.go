package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestStructuredData_ProductNode(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{"@type":"Product","name":"Bag X","sku":"BAG1",
	 "description":"A fine bag","image":["https://cdn.x/1.jpg","https://cdn.x/1.jpg","https://cdn.x/2.jpg"],
	 "offers":{"price":"49.99","priceCurrency":"EUR"}}
	</script>
	</head><body></body></html>`

	rec := NewStructuredData().Extract("https://shop.x/p/1", docFrom(t, html))

	assert.Equal(t, "Bag X", rec.Title)
	assert.Equal(t, "BAG1", rec.SKU)
	assert.Equal(t, "A fine bag", rec.Description)
	assert.Equal(t, []string{"https://cdn.x/1.jpg", "https://cdn.x/2.jpg"}, rec.Images)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 49.99, *rec.Price, 1e-9)
	assert.Equal(t, "EUR", rec.Currency)
}

func TestStructuredData_GraphAndOfferList(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@context":"https://schema.org","@graph":[
		{"@type":"WebSite","name":"Shop"},
		{"@type":["Thing","Product"],"name":"Mug","mpn":"MUG-7",
		 "offers":[{"price":12.5,"priceCurrency":"ron"},{"price":99,"priceCurrency":"EUR"}]}
	]}
	</script>`

	rec := NewStructuredData().Extract("https://shop.x/p/2", docFrom(t, html))

	assert.Equal(t, "Mug", rec.Title)
	assert.Equal(t, "MUG-7", rec.SKU)
	require.NotNil(t, rec.Price)
	assert.InDelta(t, 12.5, *rec.Price, 1e-9)
	assert.Equal(t, "RON", rec.Currency)
}

func TestStructuredData_MalformedBlocksSkipped(t *testing.T) {
	html := `
	<script type="application/ld+json">{{{not json at all</script>
	<script type="application/ld+json">{"@type":"Product","name":"Survivor"}</script>`

	rec := NewStructuredData().Extract("https://shop.x/p/3", docFrom(t, html))
	assert.Equal(t, "Survivor", rec.Title)
}

func TestStructuredData_LooseJSONRecovered(t *testing.T) {
	// Trailing comma and single quotes: invalid JSON, valid JS.
	html := `<script type="application/ld+json">
	{'@type': 'Product', 'name': 'Loose Bag', 'sku': 'LB-1',}
	</script>`

	rec := NewStructuredData().Extract("https://shop.x/p/4", docFrom(t, html))
	assert.Equal(t, "Loose Bag", rec.Title)
	assert.Equal(t, "LB-1", rec.SKU)
}

func TestStructuredData_NoProductNode(t *testing.T) {
	html := `<script type="application/ld+json">{"@type":"BreadcrumbList"}</script>`

	rec := NewStructuredData().Extract("https://shop.x/p/5", docFrom(t, html))
	assert.Empty(t, rec.Title)
	assert.Empty(t, rec.SKU)
	assert.Nil(t, rec.Price)
}
