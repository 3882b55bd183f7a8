// ABOUTME: Root Cobra command for the bandwidth CLI.
// ABOUTME: Loads config and opens services in PersistentPreRunE, closes them after.
package main

import (
	"fmt"

	"github.com/harperreed/bandwidth/internal/config"
	"github.com/harperreed/bandwidth/internal/logging"
	"github.com/harperreed/bandwidth/internal/output"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	noColor bool

	svc *services
)

var rootCmd = &cobra.Command{
	Use:   "bandwidth",
	Short: "Daily capacity score from your biometrics",
	Long: `Bandwidth turns heart rate, exercise, and sleep data into one daily score
describing how far today sits from your personal baseline.

HOW IT SCORES:

  Each enabled category (sleep, exercise, heart rate) is compared against a
  30, 60, or 90 day baseline. Today, yesterday, and two days ago are blended
  with recency weights, then the categories are combined with main weights.
  Positive scores mean you are running below baseline.

QUICK START:

  $ bandwidth user set me --name "Sam"       # Bind your profile
  $ bandwidth add hrv 48                     # Log a reading
  $ bandwidth workout add run --duration 30  # Log a workout
  $ bandwidth sleep add "2024-03-14 23:00" "2024-03-15 07:00"
  $ bandwidth score                          # Today's score
  $ bandwidth history --days 14              # Cached scores

PARTNER ALERTS:

  Pair with someone using 'bandwidth user set me --paired-with <id>'. When a
  daily task scores in the bottom 20% of your history during the afternoon
  windows, your partner gets one alert per window.

  $ bandwidth tasks schedule    # Create today's tasks (run from cron)
  $ bandwidth tasks listen      # Process tasks as they arrive

CONFIGURATION:

  ~/.config/bandwidth/config.yaml    backend, user_id, timezone, source, notify
  ~/.config/bandwidth/settings.json  scoring weights (see 'bandwidth settings')

  Any config key can be overridden with BANDWIDTH_<KEY>, for example
  BANDWIDTH_USER_ID or BANDWIDTH_LOG_LEVEL.

MCP INTEGRATION:

  Run 'bandwidth mcp' to serve scores, alerts, and settings over the Model
  Context Protocol.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		output.Configure(noColor)
		// PostRun is skipped when a command fails.
		if svc != nil {
			_ = svc.Close()
			svc = nil
		}
		if skipServices(cmd) {
			return nil
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, "cli")
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		svc, err = openServices(cfg, logger)
		if err != nil {
			_ = logger.Sync()
			return err
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if svc == nil {
			return nil
		}
		err := svc.Close()
		svc = nil
		return err
	},
}

// skipServices reports commands that run without storage.
func skipServices(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", "install-skill", "version":
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/bandwidth/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}
