package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gomag-tools/importer/internal/gomag"
)

var createCategoryName string

// categoriesCmd represents the categories command
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List (or create) categories on the Gomag shop",
	Long: `Logs into the shop admin and reads the category listing through the
browser. With --create, the named category is added first and the listing is
re-read to confirm it exists.`,
	Example: `  $ importer categories --shop-url https://demo.gomag.ro

  # Create a category, then list everything
  $ importer categories --create "Rucsacuri"`,
	Args: cobra.NoArgs,
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().StringVar(&createCategoryName, "create", "", "Create this category before listing")
}

func runCategories(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := gomag.DefaultSessionOptions()
	opts.Headless = cfg.BrowserHeadless
	opts.ProxyServer = cfg.Proxy

	session, err := gomag.NewSession(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Browser session close failed")
		}
	}()

	automator := gomag.New(cfg.Gomag, session, cfg.ArtifactsDir)

	if createCategoryName != "" {
		if err := automator.CreateCategory(cmd.Context(), createCategoryName); err != nil {
			return fmt.Errorf("creating category %q: %w", createCategoryName, err)
		}
		log.Info().Str("name", createCategoryName).Msg("Category created")
	}

	names, err := automator.Categories(cmd.Context())
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
