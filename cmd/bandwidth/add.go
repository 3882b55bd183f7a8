// ABOUTME: CLI command for logging a biometric sample.
// ABOUTME: Samples feed the local source that the daily score reads.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/spf13/cobra"
)

var (
	addAt    string
	addNotes string
)

var addCmd = &cobra.Command{
	Use:     "add <type> <value>",
	Aliases: []string{"a"},
	Short:   "Log a biometric sample",
	Long: `Log a biometric sample for the local source.

TYPES:

  heart_rate           bpm, one reading (used for elevated heart rate time)
  hrv                  ms, averaged per day
  resting_heart_rate   bpm, averaged per day
  steps                summed per day
  active_energy        kcal, summed per day

Examples:
  bandwidth add hrv 48
  bandwidth add resting_heart_rate 58 --at "2024-03-15 07:00"
  bandwidth add steps 9500 --notes "long walk"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sampleType := args[0]
		if !models.IsValidSampleType(sampleType) {
			return fmt.Errorf("unknown sample type: %s\nValid types: %s", sampleType, sampleTypeList())
		}

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		s := models.NewSample(models.SampleType(sampleType), value)
		if addAt != "" {
			t, err := parseTime(addAt, svc.loc)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			s.WithRecordedAt(t)
		}
		if addNotes != "" {
			s.WithNotes(addNotes)
		}

		if err := svc.repo.CreateSample(cmd.Context(), s); err != nil {
			return fmt.Errorf("failed to create sample: %w", err)
		}

		color.Green("✓ Added %s", sampleType)
		fmt.Printf("  %s %.2f %s\n",
			color.New(color.Faint).Sprint(shortID(s.ID)),
			s.Value, s.Unit)
		return nil
	},
}

func sampleTypeList() string {
	names := make([]string, len(models.AllSampleTypes))
	for i, t := range models.AllSampleTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the sample")
	rootCmd.AddCommand(addCmd)
}
