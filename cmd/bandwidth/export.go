// ABOUTME: CLI commands for exporting and importing bandwidth data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export bandwidth data",
	Long: `Export bandwidth data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export with day documents keyed by path
  markdown   Your daily scores and signals as a table

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include days since this date (markdown only, YYYY-MM-DD)

EXAMPLES:

  bandwidth export json -o backup.json
  bandwidth export yaml
  bandwidth export markdown --since 2024-01-01`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = svc.repo.ExportJSON(ctx)
		case "yaml":
			data, err = svc.repo.ExportYAML(ctx)
		case "markdown":
			var since *time.Time
			if exportSince != "" {
				t, perr := time.ParseInLocation("2006-01-02", exportSince, svc.loc)
				if perr != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
				since = &t
			}
			userID, uerr := svc.userID(ctx)
			if uerr != nil {
				return uerr
			}
			var md string
			md, err = svc.repo.ExportMarkdown(ctx, userID, since)
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
			fmt.Println(string(data))
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import bandwidth data from JSON",
	Long: `Import data from a JSON backup created by 'bandwidth export json'.

Day documents are merged field by field. Samples, workouts, sleep segments,
and alerts with an ID that already exists cause an error.

EXAMPLES:

  bandwidth import backup.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		raw, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		var data storage.ExportData
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("invalid export file: %w", err)
		}
		if err := svc.repo.ImportData(cmd.Context(), &data); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		fmt.Printf("  %d documents, %d samples, %d workouts, %d sleep segments, %d users, %d alerts\n",
			len(data.Documents), len(data.Samples), len(data.Workouts),
			len(data.SleepSegments), len(data.Users), len(data.Alerts))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include days since date (YYYY-MM-DD)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
