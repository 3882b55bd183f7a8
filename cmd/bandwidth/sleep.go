// ABOUTME: CLI commands for managing sleep segments.
// ABOUTME: A segment counts toward the day on which it ends.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/spf13/cobra"
)

var (
	sleepState string
	sleepLimit int
)

var sleepCmd = &cobra.Command{
	Use:   "sleep",
	Short: "Manage sleep segments",
	Long: `Track sleep as start/end segments.

A segment belongs to the day it ends on, so last night's sleep counts toward
today. Segments marked in_bed count toward time in bed but not sleep time.`,
}

var sleepAddCmd = &cobra.Command{
	Use:   "add <start> <end>",
	Short: "Log a sleep segment",
	Long: `Log a sleep segment.

Examples:
  bandwidth sleep add "2024-03-14 23:10" "2024-03-15 06:45"
  bandwidth sleep add "2024-03-14 22:40" "2024-03-14 23:10" --state in_bed`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !models.IsValidSleepState(sleepState) {
			return fmt.Errorf("unknown sleep state: %s (use asleep or in_bed)", sleepState)
		}
		start, err := parseTime(args[0], svc.loc)
		if err != nil {
			return fmt.Errorf("invalid start: %s", args[0])
		}
		end, err := parseTime(args[1], svc.loc)
		if err != nil {
			return fmt.Errorf("invalid end: %s", args[1])
		}
		if !end.After(start) {
			return fmt.Errorf("end must be after start")
		}

		seg := models.NewSleepSegment(models.SleepState(sleepState), start, end)
		if err := svc.repo.CreateSleepSegment(cmd.Context(), seg); err != nil {
			return fmt.Errorf("failed to create sleep segment: %w", err)
		}

		color.Green("✓ Added %s segment", seg.State)
		fmt.Printf("  %s %s\n",
			color.New(color.Faint).Sprint(shortID(seg.ID)),
			formatDuration(seg.Duration().Seconds()))
		return nil
	},
}

var sleepListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List sleep segments",
	RunE: func(cmd *cobra.Command, args []string) error {
		segments, err := svc.repo.ListSleepSegments(cmd.Context(), sleepLimit)
		if err != nil {
			return fmt.Errorf("failed to list sleep segments: %w", err)
		}
		if len(segments) == 0 {
			fmt.Println("No sleep segments found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range segments {
			fmt.Printf("%s %s → %s %s %s\n",
				faint.Sprint(shortID(s.ID)),
				s.StartedAt.In(svc.loc).Format("2006-01-02 15:04"),
				s.EndedAt.In(svc.loc).Format("2006-01-02 15:04"),
				padRight(string(s.State), 7),
				formatDuration(s.Duration().Seconds()))
		}
		return nil
	},
}

var sleepDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a sleep segment",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.repo.DeleteSleepSegment(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("failed to delete sleep segment: %w", err)
		}
		color.Yellow("✗ Deleted sleep segment %s", args[0])
		return nil
	},
}

func init() {
	sleepAddCmd.Flags().StringVar(&sleepState, "state", string(models.SleepAsleep), "asleep or in_bed")
	sleepListCmd.Flags().IntVarP(&sleepLimit, "limit", "n", 20, "max number of results")

	sleepCmd.AddCommand(sleepAddCmd)
	sleepCmd.AddCommand(sleepListCmd)
	sleepCmd.AddCommand(sleepDeleteCmd)
	rootCmd.AddCommand(sleepCmd)
}
