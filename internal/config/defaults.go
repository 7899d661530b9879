package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel = "info"
	DefaultJSONLog  = false

	// A browser-like User-Agent; many supplier sites serve bot UAs a stub page.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

	DefaultHTTPTimeout   = 30 * time.Second
	DefaultRenderTimeout = 60 * time.Second

	// Settle time after navigation before the rendered DOM is captured.
	DefaultRenderSettle = 1500 * time.Millisecond
	// Bounded auto-scroll to trigger lazy-loaded images.
	DefaultScrollSteps   = 6
	DefaultScrollDeltaPx = 1200
	DefaultScrollPause   = 250 * time.Millisecond

	// Responses shorter than this are treated as blocked/insufficient.
	DefaultBlockedMinBytes = 2500

	DefaultRateLimitRPS   = 0.5
	DefaultRateLimitBurst = 1
	// Pause between URLs in a batch, on top of the per-domain limiter.
	DefaultRequestDelay = 2 * time.Second

	DefaultRulesDir     = "suppliers"
	DefaultTemplatePath = "assets/modelImport.xlsx"
	DefaultArtifactsDir = "artifacts"

	DefaultBrowserHeadless = true

	DefaultLoginPath      = "/gomag/login"
	DefaultCategoriesPath = "/gomag/catalog/categories"
	DefaultImportPath     = "/gomag/import/products"

	// How many validation-error rows to pull from the import detail page.
	DefaultErrorRowLimit = 20

	DefaultEURRON                  = 4.97
	DefaultGBPRON                  = 5.80
	DefaultMarkupPercent           = 100.0
	DefaultStockDefault            = 1
	DefaultMissingPriceFallbackRON = 1.0
	DefaultVATRate                 = 19.0
)
