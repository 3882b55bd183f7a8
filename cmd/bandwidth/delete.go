// ABOUTME: CLI command for deleting a biometric sample.
// ABOUTME: Supports deletion by full ID or ID prefix.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a biometric sample",
	Long: `Delete a sample by its ID or ID prefix.

Scores already cached for past days are not recomputed.

EXAMPLES:

  bandwidth delete abc12345
  bandwidth rm abc1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := svc.repo.GetSample(ctx, args[0])
		if err != nil {
			return fmt.Errorf("sample not found: %s", args[0])
		}

		if err := svc.repo.DeleteSample(ctx, s.ID.String()); err != nil {
			return fmt.Errorf("failed to delete sample: %w", err)
		}

		color.Yellow("✗ Deleted %s", s.SampleType)
		fmt.Printf("  %s %.2f %s\n",
			color.New(color.Faint).Sprint(shortID(s.ID)),
			s.Value, s.Unit)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
