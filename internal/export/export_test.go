package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gomag-tools/importer/pkg/models"
)

func testSettings() models.ImportSettings {
	return models.ImportSettings{
		CategoryID:         "Accesorii",
		StockDefault:       1,
		PublishImmediately: true,
		VATIncluded:        true,
		VATRate:            19,
	}
}

func testDraft() models.ProductDraft {
	return models.ProductDraft{
		SourceURL:        "https://shop.example/p/1",
		SKU:              "BAG1",
		Title:            "Bag X",
		DescriptionHTML:  "<p>Line one</p>\n<p>Line two</p>",
		ShortDescription: "Short.",
		Images:           []string{"https://shop.example/a.jpg", "https://shop.example/b.jpg"},
		PriceRON:         600.9,
	}
}

func cell(t *testing.T, table Table, row int, header string) string {
	t.Helper()
	for i, h := range table.Headers {
		if h == header {
			return table.Rows[row][i]
		}
	}
	t.Fatalf("header %q not in table", header)
	return ""
}

func TestFormat_RowValues(t *testing.T) {
	f := NewFormatter(nil)
	table := f.Format([]models.ProductDraft{testDraft()}, nil, testSettings())

	require.Len(t, table.Rows, 1)
	assert.Equal(t, FallbackHeaders(), table.Headers)

	assert.Equal(t, "BAG1", cell(t, table, 0, HeaderSKU))
	assert.Equal(t, "Bag X", cell(t, table, 0, HeaderTitle))
	assert.Equal(t, "<p>Line one</p> <p>Line two</p>", cell(t, table, 0, HeaderDescription))
	assert.Equal(t, "https://shop.example/a.jpg\nhttps://shop.example/b.jpg", cell(t, table, 0, HeaderImageURL))
	assert.Equal(t, "600.90", cell(t, table, 0, HeaderPrice))
	assert.Equal(t, "RON", cell(t, table, 0, HeaderCurrency))
	assert.Equal(t, "DA", cell(t, table, 0, HeaderVATIncluded))
	assert.Equal(t, "19", cell(t, table, 0, HeaderVATRate))
	assert.Equal(t, "1", cell(t, table, 0, HeaderStock))
	assert.Equal(t, "DA", cell(t, table, 0, HeaderActive))
	assert.Equal(t, "Accesorii", cell(t, table, 0, HeaderCategory))
}

func TestFormat_NeverEmitsNonTemplateColumns(t *testing.T) {
	// A reduced template: only these columns may appear, in this order.
	headers := []string{HeaderSKU, HeaderPrice, "Producator"}
	table := NewFormatter(headers).Format([]models.ProductDraft{testDraft()}, nil, testSettings())

	assert.Equal(t, headers, table.Headers)
	require.Len(t, table.Rows[0], 3)
	assert.Equal(t, "BAG1", table.Rows[0][0])
	assert.Equal(t, "600.90", table.Rows[0][1])
	// Unknown template columns stay empty rather than being dropped.
	assert.Equal(t, "", table.Rows[0][2])
}

func TestFormat_LongSKUTruncated(t *testing.T) {
	d := testDraft()
	d.SKU = strings.Repeat("VERYLONGSKU", 5)

	table := NewFormatter(nil).Format([]models.ProductDraft{d}, nil, testSettings())

	sku := cell(t, table, 0, HeaderSKU)
	assert.Len(t, sku, models.SKUMaxLen)
	assert.Equal(t, models.ShortenSKU(d.SKU, models.SKUMaxLen), sku)
}

func TestFormat_CategoryMapOverridesDefault(t *testing.T) {
	d := testDraft()
	table := NewFormatter(nil).Format(
		[]models.ProductDraft{d},
		map[string]string{d.SourceURL: "Rucsacuri"},
		testSettings(),
	)
	assert.Equal(t, "Rucsacuri", cell(t, table, 0, HeaderCategory))
}

func TestWriteTSV_FlattensCells(t *testing.T) {
	table := NewFormatter(nil).Format([]models.ProductDraft{testDraft()}, nil, testSettings())

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(table, &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(FallbackHeaders(), "\t"), lines[0])
	assert.Contains(t, lines[1], "https://shop.example/a.jpg https://shop.example/b.jpg")
	assert.NotContains(t, lines[1], "\r")
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	table := NewFormatter(nil).Format([]models.ProductDraft{testDraft()}, nil, testSettings())

	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(table, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, FallbackHeaders(), rows[0])
	assert.Equal(t, "BAG1", rows[1][0])
}

func TestLoadTemplateHeaders(t *testing.T) {
	t.Run("reads template header row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "model.xlsx")
		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Cod Produs (SKU)", "Pret", ""}))
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		headers := LoadTemplateHeaders(path)
		assert.Equal(t, []string{"Cod Produs (SKU)", "Pret"}, headers)
	})

	t.Run("missing template falls back", func(t *testing.T) {
		headers := LoadTemplateHeaders(filepath.Join(t.TempDir(), "missing.xlsx"))
		assert.Equal(t, FallbackHeaders(), headers)
	})
}
