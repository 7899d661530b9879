package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Gomag holds everything the import automator needs to reach the target shop.
type Gomag struct {
	BaseURL        string
	LoginPath      string
	CategoriesPath string
	ImportPath     string
	Username       string
	Password       string

	// Optional direct selector for the import file input. When empty, the
	// automator falls back to the generic attachment strategies.
	FileInputSelector string

	ErrorRowLimit int
}

// Config holds application configuration values.
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP/Scraping
	HTTPTimeout time.Duration
	UserAgent   string
	Proxy       string

	// Headless render escalation
	RenderTimeout   time.Duration
	RenderSettle    time.Duration
	ScrollSteps     int
	ScrollDeltaPx   int
	ScrollPause     time.Duration
	BlockedMinBytes int
	ChromePath      string
	BrowserHeadless bool

	// Rate limiting / batch pacing
	RateLimitRPS   float64
	RateLimitBurst int
	RequestDelay   time.Duration

	// Paths
	RulesDir     string
	TemplatePath string
	ArtifactsDir string

	Gomag Gomag
}

// Load builds a Config by combining defaults, a best-effort .env file,
// environment variables, and CLI flags. Caller should pass the root
// *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	// Credentials and API keys typically live in a local .env during
	// development; absence is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:        DefaultLogLevel,
		JSONLog:         DefaultJSONLog,
		HTTPTimeout:     DefaultHTTPTimeout,
		UserAgent:       DefaultUserAgent,
		RenderTimeout:   DefaultRenderTimeout,
		RenderSettle:    DefaultRenderSettle,
		ScrollSteps:     DefaultScrollSteps,
		ScrollDeltaPx:   DefaultScrollDeltaPx,
		ScrollPause:     DefaultScrollPause,
		BlockedMinBytes: DefaultBlockedMinBytes,
		BrowserHeadless: DefaultBrowserHeadless,
		RateLimitRPS:    DefaultRateLimitRPS,
		RateLimitBurst:  DefaultRateLimitBurst,
		RequestDelay:    DefaultRequestDelay,
		RulesDir:        DefaultRulesDir,
		TemplatePath:    DefaultTemplatePath,
		ArtifactsDir:    DefaultArtifactsDir,
		Gomag: Gomag{
			LoginPath:      DefaultLoginPath,
			CategoriesPath: DefaultCategoriesPath,
			ImportPath:     DefaultImportPath,
			ErrorRowLimit:  DefaultErrorRowLimit,
		},
	}

	// Environment overrides
	if v := os.Getenv("IMPORTER_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv("IMPORTER_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("IMPORTER_CHROME_PATH"); v != "" {
		cfg.ChromePath = v
	}
	if v := os.Getenv("GOMAG_BASE_URL"); v != "" {
		cfg.Gomag.BaseURL = v
	}
	if v := os.Getenv("GOMAG_USERNAME"); v != "" {
		cfg.Gomag.Username = v
	}
	if v := os.Getenv("GOMAG_FILE_INPUT"); v != "" {
		cfg.Gomag.FileInputSelector = v
	}
	cfg.Gomag.Password = ResolvePassword(cfg.Gomag.Username)

	// CLI flag overrides
	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil {
			if s := f.Value.String(); s != "" {
				if d, err := time.ParseDuration(s); err == nil {
					cfg.HTTPTimeout = d
				}
			}
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
		if f := cmd.Flags().Lookup("rules-dir"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.RulesDir = s
			}
		}
		if f := cmd.Flags().Lookup("shop-url"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Gomag.BaseURL = s
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// RegisterFlags attaches the persistent flags shared by every subcommand.
func RegisterFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable debug logging")
	pf.Bool("json", false, "Emit logs as JSON")
	pf.String("timeout", "", "HTTP timeout (e.g. 45s)")
	pf.String("user-agent", "", "Override the scraping User-Agent")
	pf.String("proxy", "", "Proxy server for HTTP and browser traffic")
	pf.String("rules-dir", "", "Directory with per-domain supplier rule files")
	pf.String("shop-url", "", "Base URL of the target Gomag shop")
}
