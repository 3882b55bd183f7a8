// ABOUTME: CLI commands for partner alerts: list, mark read, and on-demand analysis.
// ABOUTME: Alerts are addressed to the bound user; analysis acts as the sender.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/alerts"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/output"
	"github.com/spf13/cobra"
)

var (
	alertsUnread bool
	alertsLimit  int
	analyzeDate  string
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Partner alerts",
	Long: `View and manage low bandwidth alerts sent to you by your partner.

An alert is created when a partner's daily score ranks in the bottom 20% of
their recent history during the 16:00-17:00 or 18:00-19:00 windows. Each
window alerts at most once per day.`,
}

var alertsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List alerts addressed to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID, err := svc.userID(ctx)
		if err != nil {
			return err
		}

		list, err := svc.repo.ListAlerts(ctx, userID, alertsUnread, alertsLimit)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No alerts found.")
			return nil
		}

		tbl := output.NewTable("ID", "TIME", "FROM", "SCORE", "PERCENTILE", "STATUS")
		for _, a := range list {
			status := string(a.Status)
			if a.Status == models.AlertUnread {
				status = output.StyleBold.Render(status)
			}
			tbl.AddRow(
				shortID(a.ID),
				a.Timestamp.In(svc.loc).Format("2006-01-02 15:04"),
				a.FromUserName,
				output.Score(a.Score),
				output.PercentBar(a.Percentile, alerts.LowPercentile, 10),
				status,
			)
		}
		tbl.Print()
		return nil
	},
}

var alertsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark an alert as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID, err := svc.userID(ctx)
		if err != nil {
			return err
		}
		if err := svc.repo.MarkAlertRead(ctx, userID, args[0]); err != nil {
			return fmt.Errorf("failed to mark alert read: %w", err)
		}
		color.Green("✓ Marked %s read", args[0])
		return nil
	},
}

var alertsAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a day and run partner alert analysis now",
	Long: `Compute your score and rank it against your cached history, alerting your
partner if the score is low and the current time is inside an alert window.

This is what a daily task does, without touching the task queue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, err := svc.day(analyzeDate)
		if err != nil {
			return err
		}
		userID, err := svc.userID(ctx)
		if err != nil {
			return err
		}
		score, err := svc.agg.ScoreFor(ctx, userID, day)
		if err != nil {
			return fmt.Errorf("compute score: %w", err)
		}

		outcome, err := svc.analyzer.Analyze(ctx, userID, score, day)
		if err != nil {
			return err
		}

		fmt.Println(output.KV("Score", output.Score(score)))
		fmt.Println(output.KV("Outcome", describeOutcome(outcome)))
		return nil
	},
}

func describeOutcome(o alerts.Outcome) string {
	switch o {
	case alerts.Alerted:
		return output.StyleWarning.Render("partner alerted")
	case alerts.OutsideWindow:
		return "outside alert windows"
	case alerts.AlreadyAlerted:
		return "already alerted in this window"
	case alerts.NoHistory:
		return "no cached history to compare against"
	case alerts.AboveThreshold:
		return output.StyleSuccess.Render("above the low percentile")
	case alerts.NoPartner:
		return "no partner to alert"
	default:
		return string(o)
	}
}

func init() {
	alertsListCmd.Flags().BoolVarP(&alertsUnread, "unread", "u", false, "only unread alerts")
	alertsListCmd.Flags().IntVarP(&alertsLimit, "limit", "n", 20, "max number of results")
	alertsAnalyzeCmd.Flags().StringVar(&analyzeDate, "date", "", "day to score (YYYY-MM-DD, default today)")

	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsReadCmd)
	alertsCmd.AddCommand(alertsAnalyzeCmd)
	rootCmd.AddCommand(alertsCmd)
}
