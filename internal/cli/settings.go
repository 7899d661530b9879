package cli

import (
	"github.com/spf13/cobra"

	"github.com/gomag-tools/importer/internal/config"
	"github.com/gomag-tools/importer/pkg/models"
)

// Import-settings flags shared by scrape and export.
var (
	flagCategory    string
	flagEURRON      float64
	flagGBPRON      float64
	flagMarkup      float64
	flagStock       int
	flagFallbackRON float64
	flagPublish     bool
	flagVATIncluded bool
	flagVATRate     float64
)

func registerSettingsFlags(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&flagCategory, "category", "", "Default category for products without a mapping")
	fl.Float64Var(&flagEURRON, "eur-ron", config.DefaultEURRON, "EUR to RON conversion rate")
	fl.Float64Var(&flagGBPRON, "gbp-ron", config.DefaultGBPRON, "GBP to RON conversion rate")
	fl.Float64Var(&flagMarkup, "markup", config.DefaultMarkupPercent, "Markup percent applied over the converted price")
	fl.IntVar(&flagStock, "stock", config.DefaultStockDefault, "Default stock quantity per product")
	fl.Float64Var(&flagFallbackRON, "missing-price-ron", config.DefaultMissingPriceFallbackRON, "Price used when none could be extracted")
	fl.BoolVar(&flagPublish, "publish", false, "Mark imported products active in the shop")
	fl.BoolVar(&flagVATIncluded, "vat-included", true, "Exported prices include VAT")
	fl.Float64Var(&flagVATRate, "vat-rate", config.DefaultVATRate, "VAT rate percent for the export")
}

func settingsFromFlags(*cobra.Command) models.ImportSettings {
	return models.ImportSettings{
		CategoryID:              flagCategory,
		EURRON:                  flagEURRON,
		GBPRON:                  flagGBPRON,
		MarkupPercent:           flagMarkup,
		StockDefault:            flagStock,
		MissingPriceFallbackRON: flagFallbackRON,
		PublishImmediately:      flagPublish,
		VATIncluded:             flagVATIncluded,
		VATRate:                 flagVATRate,
	}
}
