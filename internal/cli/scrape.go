package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gomag-tools/importer/internal/extract"
	"github.com/gomag-tools/importer/internal/pipeline"
	"github.com/gomag-tools/importer/internal/translate"
	"github.com/gomag-tools/importer/pkg/models"
)

var (
	scrapeInputFile string
	scrapeOutFile   string
	scrapeTranslate bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]...",
	Short: "Scrape supplier product pages into draft records",
	Long: `Fetches each product page (escalating to a headless browser when the
site blocks plain requests), extracts a product record through the
structured-data, per-domain-rules and heuristic tiers, normalizes the price
to RON, and writes the resulting drafts as JSON for review and export.`,
	Example: `  # Scrape two product pages
  $ importer scrape https://supplier.example/p/1 https://supplier.example/p/2 -o drafts.json

  # Scrape a list of URLs from a file, translating to Romanian
  $ importer scrape --input urls.txt --translate -o drafts.json`,
	Args: cobra.ArbitraryArgs,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeInputFile, "input", "i", "", "File with one URL per line")
	scrapeCmd.Flags().StringVarP(&scrapeOutFile, "out", "o", "", "Write drafts JSON here instead of stdout")
	scrapeCmd.Flags().BoolVar(&scrapeTranslate, "translate", false, "Translate text fields to Romanian (needs DEEPL_API_KEY or OPENAI_API_KEY)")
	registerSettingsFlags(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	urls, err := collectURLs(args, scrapeInputFile)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no URLs given; pass them as arguments or via --input")
	}

	if _, err := os.Stat(cfg.RulesDir); err == nil {
		if err := extract.ValidateRulesDir(cfg.RulesDir); err != nil {
			return fmt.Errorf("supplier rules: %w", err)
		}
	}

	var translator *translate.Translator
	if scrapeTranslate {
		translator = buildTranslator()
		if translator == nil {
			return fmt.Errorf("--translate needs DEEPL_API_KEY or OPENAI_API_KEY set")
		}
	}

	p := pipeline.New(cfg, translator)
	if cfg.JSONLog || scrapeOutFile == "" {
		p.SetProgress(false)
	}

	result := p.Run(cmd.Context(), urls, settingsFromFlags(cmd))

	for _, f := range result.Failures {
		log.Warn().Err(f.Err).Str("url", f.URL).Msg("URL failed")
	}
	log.Info().
		Int("ok", len(result.Drafts)).
		Int("failed", len(result.Failures)).
		Msg("Scrape finished")

	return writeDrafts(result.Drafts, scrapeOutFile)
}

// buildTranslator assembles the provider chain from whatever API keys are
// present.
func buildTranslator() *translate.Translator {
	var providers []translate.Provider
	if key := os.Getenv("DEEPL_API_KEY"); key != "" {
		providers = append(providers, translate.NewDeepL(key, os.Getenv("DEEPL_API_URL")))
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		providers = append(providers, translate.NewOpenAI(key, "", os.Getenv("OPENAI_MODEL")))
	}
	if len(providers) == 0 {
		return nil
	}
	return translate.New(translate.NewCache(), providers...)
}

func collectURLs(args []string, inputFile string) ([]string, error) {
	urls := append([]string(nil), args...)
	if inputFile == "" {
		return urls, nil
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

func writeDrafts(drafts []models.ProductDraft, path string) error {
	data, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
