// ABOUTME: CLI commands for exporting and importing product and NAV data.
// ABOUTME: Supports JSON, YAML, and Markdown export; import needs a local store.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trans/sfm-mcp/internal/storage"
)

var (
	exportOutput string
	exportCode   string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export product and NAV data",
	Long: `Export products and their NAV history.

FORMATS:

  json       Full JSON export (suitable for import)
  yaml       YAML export with NAV grouped by product
  markdown   Markdown tables

OPTIONS:

  --output, -o   Write to file instead of stdout
  --code         Only export one product and its snapshots

EXAMPLES:

  sfm-mcp export json -o sfm.json       # full backup
  sfm-mcp export markdown --code P001   # one product as tables`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		exporter := storage.NewExporter(store.Products, store.Daily)
		ctx := cmd.Context()

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = exporter.ExportJSON(ctx, exportCode)
		case "yaml":
			data, err = exporter.ExportYAML(ctx, exportCode)
		case "markdown":
			var md string
			md, err = exporter.ExportMarkdown(ctx, exportCode)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import product and NAV data from JSON",
	Long: `Import a JSON export into a local store.

Only stores opened with database.auto_migrate (or SFM_DB_AUTO_MIGRATE=true)
accept imports; upstream databases are never written to.

EXAMPLES:

  SFM_DB_AUTO_MIGRATE=true sfm-mcp import sfm.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		if err := store.ImportJSON(cmd.Context(), data); err != nil {
			if errors.Is(err, storage.ErrReadOnly) {
				return fmt.Errorf("import failed: store is read-only (enable database.auto_migrate for a local store)")
			}
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportCode, "code", "", "only export this product")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
