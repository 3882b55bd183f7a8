// ABOUTME: CLI commands for the daily task queue: schedule, list, run once, and listen.
// ABOUTME: listen keeps polling for the bound user's task until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/output"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/harperreed/bandwidth/internal/tasks"
	"github.com/spf13/cobra"
)

var tasksLimit int

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Daily task queue",
	Long: `Daily tasks ask each user's process to compute and store the day's score,
then run partner alert analysis.

WORKFLOW:

  1. Schedule once a day (cron):   bandwidth tasks schedule
  2. Each user runs a listener:    bandwidth tasks listen
     or processes on demand:       bandwidth tasks run

Scheduling replaces all existing tasks with one pending task per user.`,
}

var tasksScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Replace all tasks with one pending task per user",
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := tasks.Schedule(cmd.Context(), svc.repo, svc.clock.Now())
		if err != nil {
			return fmt.Errorf("schedule tasks: %w", err)
		}
		color.Green("✓ Scheduled %d task(s)", len(created))
		for _, t := range created {
			fmt.Printf("  %s %s\n", color.New(color.Faint).Sprint(shortID(t.ID)), t.UserID)
		}
		return nil
	},
}

var tasksListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := svc.repo.ListTasks(cmd.Context(), tasksLimit)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		tbl := output.NewTable("ID", "USER", "CREATED", "STATUS", "SCORE", "ERROR")
		for _, t := range list {
			score, msg := "", ""
			if t.Score != nil {
				score = output.Score(*t.Score)
			}
			if t.Error != nil {
				msg = truncate(*t.Error, 40)
			}
			tbl.AddRow(shortID(t.ID), t.UserID, t.CreatedAt.In(svc.loc).Format("2006-01-02 15:04"), string(t.Status), score, msg)
		}
		tbl.Print()
		return nil
	},
}

var tasksRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Process your latest pending task once",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID, err := svc.userID(ctx)
		if err != nil {
			return err
		}
		task, err := svc.repo.LatestPendingTask(ctx, userID)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No pending task.")
			return nil
		}
		if err != nil {
			return err
		}

		orch := svc.orchestrator()
		if err := orch.Process(ctx, task); err != nil {
			return err
		}
		printResult(<-orch.Completed())
		return nil
	},
}

var tasksListenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Poll for and process your daily tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		go func() {
			select {
			case <-sigChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		orch := svc.orchestrator()
		go func() {
			for {
				select {
				case r := <-orch.Completed():
					printResult(r)
				case <-ctx.Done():
					return
				}
			}
		}()

		color.Cyan("Listening for daily tasks (Ctrl-C to stop)")
		return orch.Listen(ctx)
	},
}

func printResult(r tasks.Result) {
	if r.Err != nil {
		color.Red("✗ Task %s failed: %v", r.TaskID.String()[:8], r.Err)
		return
	}
	color.Green("✓ Task %s completed", r.TaskID.String()[:8])
	fmt.Println(output.KV("  Date", r.Day))
	fmt.Println(output.KV("  Score", output.Score(r.Score)))
	fmt.Println(output.KV("  Alert", describeOutcome(r.Outcome)))
}

func init() {
	tasksListCmd.Flags().IntVarP(&tasksLimit, "limit", "n", 20, "max number of results")

	tasksCmd.AddCommand(tasksScheduleCmd)
	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksRunCmd)
	tasksCmd.AddCommand(tasksListenCmd)
	rootCmd.AddCommand(tasksCmd)
}
