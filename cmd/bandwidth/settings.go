// ABOUTME: CLI commands for viewing and editing scoring settings.
// ABOUTME: Every change is validated; an invalid change leaves settings untouched.
package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/bandwidth/internal/output"
	"github.com/harperreed/bandwidth/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and edit scoring settings",
	Long: `View and edit the weights used to compute the bandwidth score.

Settings live in ~/.config/bandwidth/settings.json. Weight groups must each
sum to 100; a change that breaks this is rejected with the reason.

FIELDS FOR 'settings set':

  threshold                      elevated heart rate, % of max (60-90)
  period                         averaging period in days (30, 60, 90)
  main.<category>                sleep, exercise, heartRate
  recent.<day>                   currentDay, yesterday, twoDaysAgo
  exercise.<key>                 minutes, steps, calories
  heartRate.<key>                variability, resting, elevated`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		printSettings(svc.settings.Current())
		return nil
	},
}

var settingsToggleCmd = &cobra.Command{
	Use:       "toggle <category> <on|off>",
	Short:     "Enable or disable a category",
	Long:      "Enable or disable a category. Main weights are redistributed across the enabled categories.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"sleep", "exercise", "heartRate"},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := settings.ParseCategory(args[0])
		if err != nil {
			return err
		}
		enabled, err := parseOnOff(args[1])
		if err != nil {
			return err
		}
		if err := svc.settings.ToggleCategory(c, enabled); err != nil {
			return err
		}
		color.Green("✓ %s", settings.SavedMessage)
		printSettings(svc.settings.Current())
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <field> <value>",
	Short: "Set a threshold, period, or weight",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}
		apply, err := settingSetter(args[0], value)
		if err != nil {
			return err
		}
		if err := svc.settings.Update(apply); err != nil {
			return err
		}
		color.Green("✓ %s", settings.SavedMessage)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.settings.ResetToDefaults(); err != nil {
			return err
		}
		color.Green("✓ %s", settings.SavedMessage)
		return nil
	},
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "enable", "enabled", "yes":
		return true, nil
	case "off", "false", "disable", "disabled", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

// settingSetter maps a field name to a mutation of Settings.
func settingSetter(field string, value float64) (func(*settings.Settings), error) {
	switch field {
	case "threshold":
		return func(s *settings.Settings) { s.ElevatedHeartRateThreshold = value }, nil
	case "period":
		return func(s *settings.Settings) { s.AveragingPeriodDays = int(value) }, nil
	}

	group, key, ok := strings.Cut(field, ".")
	if !ok || key == "" {
		return nil, fmt.Errorf("unknown field: %s", field)
	}
	pick := map[string]func(*settings.Settings) map[string]float64{
		"main":      func(s *settings.Settings) map[string]float64 { return s.MainWeights },
		"recent":    func(s *settings.Settings) map[string]float64 { return s.RecentDaysWeights },
		"exercise":  func(s *settings.Settings) map[string]float64 { return s.ExerciseWeights },
		"heartRate": func(s *settings.Settings) map[string]float64 { return s.HeartRateWeights },
	}[group]
	if pick == nil {
		return nil, fmt.Errorf("unknown weight group: %s", group)
	}
	return func(s *settings.Settings) {
		m := pick(s)
		if m == nil {
			m = map[string]float64{}
			switch group {
			case "main":
				s.MainWeights = m
			case "recent":
				s.RecentDaysWeights = m
			case "exercise":
				s.ExerciseWeights = m
			case "heartRate":
				s.HeartRateWeights = m
			}
		}
		m[key] = value
	}, nil
}

func printSettings(s settings.Settings) {
	fmt.Println(output.Section("Categories"))
	for _, c := range settings.Categories {
		state := output.StyleMuted.Render("off")
		if s.Enabled(c) {
			state = output.StyleSuccess.Render("on")
		}
		fmt.Println(output.KV(string(c), state))
	}

	printWeights("Main weights", s.MainWeights)
	printWeights("Recent day weights", s.RecentDaysWeights)
	printWeights("Exercise weights", s.ExerciseWeights)
	printWeights("Heart rate weights", s.HeartRateWeights)

	fmt.Println(output.Section("Other"))
	fmt.Println(output.KV("Elevated threshold", fmt.Sprintf("%.0f%% of max", s.ElevatedHeartRateThreshold)))
	fmt.Println(output.KV("Averaging period", fmt.Sprintf("%d days", s.AveragingPeriodDays)))
}

func printWeights(title string, m map[string]float64) {
	fmt.Println(output.Section(title))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Println(output.KV(k, fmt.Sprintf("%.0f", m[k])))
	}
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsToggleCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}
