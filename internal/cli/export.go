package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gomag-tools/importer/internal/export"
	"github.com/gomag-tools/importer/pkg/models"
)

var (
	exportXLSXOut     string
	exportTSVOut      string
	exportCategoryMap string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <drafts.json>",
	Short: "Format draft records as a Gomag import file",
	Long: `Reads drafts produced by the scrape command and writes them in the
shop's import-template column layout, as an XLSX workbook and/or a TSV flat
file. Columns come from the template workbook when present; otherwise a fixed
minimal header set is used.`,
	Example: `  $ importer export drafts.json --xlsx import.xlsx
  $ importer export drafts.json --tsv import.tsv --category "Accesorii"`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportXLSXOut, "xlsx", "", "Write an XLSX workbook here")
	exportCmd.Flags().StringVar(&exportTSVOut, "tsv", "", "Write a TSV flat file here")
	exportCmd.Flags().StringVar(&exportCategoryMap, "category-map", "", "JSON file mapping source URL to category name")
	registerSettingsFlags(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportXLSXOut == "" && exportTSVOut == "" {
		return fmt.Errorf("nothing to do; pass --xlsx and/or --tsv")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	drafts, err := readDrafts(args[0])
	if err != nil {
		return err
	}

	categoryMap := map[string]string{}
	if exportCategoryMap != "" {
		data, err := os.ReadFile(exportCategoryMap)
		if err != nil {
			return fmt.Errorf("reading category map: %w", err)
		}
		if err := json.Unmarshal(data, &categoryMap); err != nil {
			return fmt.Errorf("parsing category map: %w", err)
		}
	}

	headers := export.LoadTemplateHeaders(cfg.TemplatePath)
	table := export.NewFormatter(headers).Format(drafts, categoryMap, settingsFromFlags(cmd))

	if exportXLSXOut != "" {
		if err := export.WriteXLSX(table, exportXLSXOut); err != nil {
			return err
		}
		log.Info().Str("path", exportXLSXOut).Int("rows", len(table.Rows)).Msg("XLSX written")
	}
	if exportTSVOut != "" {
		f, err := os.Create(exportTSVOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.WriteTSV(table, f); err != nil {
			return err
		}
		log.Info().Str("path", exportTSVOut).Int("rows", len(table.Rows)).Msg("TSV written")
	}
	return nil
}

func readDrafts(path string) ([]models.ProductDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading drafts: %w", err)
	}
	var drafts []models.ProductDraft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return nil, fmt.Errorf("parsing drafts: %w", err)
	}
	return drafts, nil
}
