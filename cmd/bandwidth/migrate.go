// ABOUTME: CLI command for copying data from another bandwidth database.
// ABOUTME: Used when moving data_dir or merging a database from another device.
package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/config"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateFrom   string
	migrateDryRun bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data from another bandwidth database",
	Long: `Copy day documents, samples, workouts, sleep, users, and alerts from another
bandwidth.db into the configured database. Daily tasks are not copied.

IMPORTANT:

  - Records whose IDs already exist in the destination cause an error
  - Run with --dry-run first to see what would be copied

USAGE:

  bandwidth migrate --from ~/old/bandwidth.db --dry-run
  bandwidth migrate --from ~/old/bandwidth.db`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if migrateFrom == "" {
			return fmt.Errorf("--from is required")
		}
		from := config.ExpandPath(migrateFrom)
		if abs, err := filepath.Abs(from); err == nil && abs == svc.repo.Path() {
			return fmt.Errorf("source and destination are the same database")
		}

		src, err := storage.Open(from)
		if err != nil {
			return fmt.Errorf("open source: %w", err)
		}
		defer func() { _ = src.Close() }()

		if migrateDryRun {
			color.Yellow("Dry run mode - no changes will be made")
			data, err := src.GetAllData(ctx)
			if err != nil {
				return fmt.Errorf("read source: %w", err)
			}
			printMigrateSummary(&storage.MigrateSummary{
				Documents:     len(data.Documents),
				Samples:       len(data.Samples),
				Workouts:      len(data.Workouts),
				SleepSegments: len(data.SleepSegments),
				Users:         len(data.Users),
				Alerts:        len(data.Alerts),
			})
			return nil
		}

		summary, err := storage.MigrateData(ctx, src, svc.repo)
		if err != nil {
			return err
		}
		color.Green("✓ Migrated from %s", from)
		printMigrateSummary(summary)
		return nil
	},
}

func printMigrateSummary(s *storage.MigrateSummary) {
	fmt.Printf("  Documents:      %d\n", s.Documents)
	fmt.Printf("  Samples:        %d\n", s.Samples)
	fmt.Printf("  Workouts:       %d\n", s.Workouts)
	fmt.Printf("  Sleep segments: %d\n", s.SleepSegments)
	fmt.Printf("  Users:          %d\n", s.Users)
	fmt.Printf("  Alerts:         %d\n", s.Alerts)
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "path to the source bandwidth.db")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	rootCmd.AddCommand(migrateCmd)
}
