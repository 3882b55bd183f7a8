// ABOUTME: CLI commands for managing workouts.
// ABOUTME: Workout intervals drive exercise minutes and mask elevated heart rate.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/spf13/cobra"
)

var (
	workoutDuration int
	workoutAt       string
	workoutNotes    string
	workoutType     string
	workoutLimit    int
)

var workoutCmd = &cobra.Command{
	Use:     "workout",
	Aliases: []string{"w"},
	Short:   "Manage workouts",
	Long: `Track workout sessions.

A workout's duration counts toward the day's exercise minutes, and heart rate
samples inside the workout are not counted as elevated.

COMMANDS:

  add      Log a workout
  list     List recent workouts
  delete   Delete a workout

The workout type is freeform: run, lift, swim, cycle, yoga, walk, etc.`,
}

var workoutAddCmd = &cobra.Command{
	Use:   "add <type>",
	Short: "Log a workout",
	Long: `Log a workout session.

Examples:
  bandwidth workout add run --duration 45
  bandwidth workout add lift -d 60 --at "2024-03-15 18:00" --notes "Leg day"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if workoutDuration <= 0 {
			return fmt.Errorf("--duration must be greater than zero")
		}

		w := models.NewWorkout(args[0]).WithDuration(workoutDuration)
		if workoutAt != "" {
			t, err := parseTime(workoutAt, svc.loc)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", workoutAt)
			}
			w.WithStartedAt(t)
		}
		if workoutNotes != "" {
			w.WithNotes(workoutNotes)
		}

		if err := svc.repo.CreateWorkout(cmd.Context(), w); err != nil {
			return fmt.Errorf("failed to create workout: %w", err)
		}

		color.Green("✓ Added %s workout", w.WorkoutType)
		fmt.Printf("  ID: %s\n", shortID(w.ID))
		fmt.Printf("  Duration: %d min\n", w.DurationMinutes)
		return nil
	},
}

var workoutListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List workouts",
	RunE: func(cmd *cobra.Command, args []string) error {
		var wType *string
		if workoutType != "" {
			wType = &workoutType
		}

		workouts, err := svc.repo.ListWorkouts(cmd.Context(), wType, workoutLimit)
		if err != nil {
			return fmt.Errorf("failed to list workouts: %w", err)
		}

		if len(workouts) == 0 {
			fmt.Println("No workouts found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, w := range workouts {
			fmt.Printf("%s %s %s %d min\n",
				faint.Sprint(shortID(w.ID)),
				faint.Sprint(w.StartedAt.In(svc.loc).Format("2006-01-02 15:04")),
				padRight(w.WorkoutType, 12),
				w.DurationMinutes)
		}
		return nil
	},
}

var workoutDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a workout",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		w, err := svc.repo.GetWorkout(ctx, args[0])
		if err != nil {
			return fmt.Errorf("workout not found: %s", args[0])
		}
		if err := svc.repo.DeleteWorkout(ctx, w.ID.String()); err != nil {
			return fmt.Errorf("failed to delete workout: %w", err)
		}

		color.Yellow("✗ Deleted %s workout", w.WorkoutType)
		fmt.Printf("  %s\n", color.New(color.Faint).Sprint(shortID(w.ID)))
		return nil
	},
}

func init() {
	workoutAddCmd.Flags().IntVarP(&workoutDuration, "duration", "d", 0, "duration in minutes")
	workoutAddCmd.Flags().StringVar(&workoutAt, "at", "", "start time (YYYY-MM-DD HH:MM)")
	workoutAddCmd.Flags().StringVarP(&workoutNotes, "notes", "n", "", "workout notes")

	workoutListCmd.Flags().StringVarP(&workoutType, "type", "t", "", "filter by workout type")
	workoutListCmd.Flags().IntVarP(&workoutLimit, "limit", "n", 20, "max number of results")

	workoutCmd.AddCommand(workoutAddCmd)
	workoutCmd.AddCommand(workoutListCmd)
	workoutCmd.AddCommand(workoutDeleteCmd)
	rootCmd.AddCommand(workoutCmd)
}
