// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio MCP server exposing scores, alerts, and settings.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/bandwidth/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.
The server communicates via stdin/stdout.

CONFIGURATION:

  {
    "mcpServers": {
      "bandwidth": {
        "command": "bandwidth",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  get_bandwidth     Compute the score and component breakdown for a day
  get_history       Cached scores over recent days
  list_alerts       Partner alerts addressed to you
  mark_alert_read   Mark an alert read
  get_settings      Current scoring settings
  toggle_category   Enable or disable sleep, exercise, or heart rate
  add_sample        Log a biometric sample
  add_workout       Log a workout

AVAILABLE RESOURCES:

  bandwidth://settings   Scoring settings
  bandwidth://alerts     Unread alerts
  bandwidth://history    Cached scores for the last 30 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(mcp.Deps{
			Repo:       svc.repo,
			Aggregator: svc.agg,
			Settings:   svc.settings,
			Clock:      svc.clock,
			Location:   svc.loc,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
