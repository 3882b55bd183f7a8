// ABOUTME: CLI command for listing biometric samples.
// ABOUTME: Supports filtering by type and limiting results.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/spf13/cobra"
)

var (
	listType  string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List biometric samples",
	Long: `List recent samples from the local sample log.

Each line shows: ID  TIMESTAMP  TYPE  VALUE  UNIT  (NOTES)

The ID is an 8-character prefix you can use with 'bandwidth delete'.

EXAMPLES:

  bandwidth list                  # Last 20 samples
  bandwidth list --type hrv       # Only HRV
  bandwidth list -t steps -n 50   # Last 50 step samples`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sampleType *models.SampleType
		if listType != "" {
			if !models.IsValidSampleType(listType) {
				return fmt.Errorf("unknown sample type: %s", listType)
			}
			st := models.SampleType(listType)
			sampleType = &st
		}

		samples, err := svc.repo.ListSamples(cmd.Context(), sampleType, listLimit)
		if err != nil {
			return fmt.Errorf("failed to list samples: %w", err)
		}

		if len(samples) == 0 {
			fmt.Println("No samples found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range samples {
			notes := ""
			if s.Notes != nil && *s.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*s.Notes, 30))
			}
			fmt.Printf("%s %s %s %.2f %s%s\n",
				faint.Sprint(shortID(s.ID)),
				faint.Sprint(s.RecordedAt.In(svc.loc).Format("2006-01-02 15:04")),
				padRight(string(s.SampleType), 20),
				s.Value,
				s.Unit,
				notes)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by sample type")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
