package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gomag-tools/importer/internal/gomag"
	"github.com/gomag-tools/importer/pkg/models"
)

var importResultOut string

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Upload an import file to the Gomag shop and verify the result",
	Long: `Runs one full import session: login, attach the file through whatever
upload mechanism the import page offers, press Start Import, and verify the
outcome by diffing the import-history table. The submission itself is never
retried; a failed run is reported for manual re-trigger.`,
	Example: `  $ importer import import.xlsx --shop-url https://demo.gomag.ro
  $ importer import import.xlsx --result result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringVar(&importResultOut, "result", "", "Write the import result JSON here")
}

func runImport(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("import file: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Gomag.BaseURL == "" {
		return fmt.Errorf("no shop URL configured; set --shop-url or GOMAG_BASE_URL")
	}
	if cfg.Gomag.Username == "" || cfg.Gomag.Password == "" {
		return fmt.Errorf("missing shop credentials; set GOMAG_USERNAME and store a password with 'importer credentials set'")
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

	result := gomag.New(cfg.Gomag, session, cfg.ArtifactsDir).Run(cmd.Context(), filePath)

	logResult(result)
	if importResultOut != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(importResultOut, append(data, '\n'), 0o644); err != nil {
			return err
		}
	}

	if result.Status == models.StatusFatal {
		return fmt.Errorf("import failed: %s", result.SummaryRowText)
	}
	return nil
}

func logResult(result *models.ImportResult) {
	ev := log.Info()
	if result.Status == models.StatusFatal {
		ev = log.Error()
	}
	ev.Str("status", string(result.Status)).
		Str("summary", result.SummaryRowText).
		Int("error_rows", len(result.ErrorRows)).
		Strs("artifacts", result.DiagnosticArtifacts).
		Msg("Import finished")

	for _, row := range result.ErrorRows {
		log.Warn().Str("row", row).Msg("Import validation error")
	}
}
