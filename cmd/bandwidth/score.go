// ABOUTME: CLI commands for the bandwidth score, its baselines, and cached history.
// ABOUTME: score computes and caches; history only reads what is cached.
package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/alerts"
	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/output"
	"github.com/harperreed/bandwidth/internal/scoring"
	"github.com/harperreed/bandwidth/internal/settings"
	"github.com/spf13/cobra"
)

var (
	scoreDate     string
	scoreJSON     bool
	scoreDetail   bool
	scoreCategory string

	baselineDays int
	baselineKind string

	historyDays int
	historyJSON bool
)

var componentLabels = []struct {
	kind  models.MetricKind
	label string
}{
	{models.KindSleepComponent, "Sleep"},
	{models.KindExerciseComponent, "Exercise"},
	{models.KindHeartRateComponent, "Heart rate"},
}

var scoreCmd = &cobra.Command{
	Use:     "score",
	Aliases: []string{"s"},
	Short:   "Compute the bandwidth score for a day",
	Long: `Compute the bandwidth score for a day and cache it.

A cached score is returned as is. Today's raw signals are always re-read from
the source, so running this during the day reflects new samples until the
score is cached.

EXAMPLES:

  bandwidth score                    # Today
  bandwidth score --date 2024-03-14  # A past day
  bandwidth score --detail           # Include raw signals and baselines
  bandwidth score --category sleep   # One component only
  bandwidth score --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, err := svc.day(scoreDate)
		if err != nil {
			return err
		}

		if scoreCategory != "" {
			return printComponent(cmd, day, scoreCategory)
		}

		b, err := svc.agg.Breakdown(ctx, day)
		if err != nil {
			return fmt.Errorf("compute score: %w", err)
		}

		if scoreJSON {
			data, err := json.MarshalIndent(b, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		printBreakdown(b)
		if scoreDetail {
			return printDetail(cmd, day)
		}
		return nil
	},
}

func printBreakdown(b *scoring.Breakdown) {
	fmt.Println(output.Section("Bandwidth " + b.Day))
	fmt.Println(output.KV("Score", output.Score(b.Bandwidth)))
	for _, c := range componentLabels {
		v, ok := b.Components[c.kind]
		if !ok {
			fmt.Println(output.KV(c.label, output.StyleMuted.Render("disabled")))
			continue
		}
		fmt.Println(output.KV(c.label, output.Score(v)))
	}
}

func printComponent(cmd *cobra.Command, day time.Time, category string) error {
	cat, err := settings.ParseCategory(category)
	if err != nil {
		return err
	}
	comp, ok := scoring.ForCategory(cat)
	if !ok {
		return fmt.Errorf("no component for category %q", cat)
	}

	ctx := cmd.Context()
	userID, err := svc.userID(ctx)
	if err != nil {
		return err
	}
	v, err := svc.agg.Scorer().Component(ctx, comp, userID, day)
	if err != nil {
		return fmt.Errorf("compute %s component: %w", cat, err)
	}

	dayKey := day.Format(models.DayLayout)
	if scoreJSON {
		data, err := json.MarshalIndent(map[string]any{
			"day":      dayKey,
			"category": cat,
			"score":    v,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(output.Section(fmt.Sprintf("%s component %s", cat, dayKey)))
	fmt.Println(output.KV("Score", output.Score(v)))
	if !svc.settings.Current().Enabled(cat) {
		fmt.Println(output.StyleMuted.Render("Category is disabled and does not count toward bandwidth."))
	}
	return nil
}

func printDetail(cmd *cobra.Command, day time.Time) error {
	ctx := cmd.Context()
	userID, err := svc.userID(ctx)
	if err != nil {
		return err
	}
	scorer := svc.agg.Scorer()
	current, err := scorer.Fetcher().Day(ctx, userID, day, models.RawKinds)
	if err != nil {
		return err
	}
	base, err := scorer.Baselines().BaselineMetrics(ctx, userID, scorer.Settings().AveragingPeriodDays)
	if err != nil {
		return err
	}

	fmt.Println(output.Section("Signals"))
	tbl := output.NewTable("SIGNAL", "DAY", "BASELINE")
	for _, row := range signalRows(current, base) {
		tbl.AddRow(row...)
	}
	tbl.Print()
	return nil
}

func signalRows(day metrics.DayMetrics, base metrics.BaselineMetrics) [][]string {
	f := func(v float64) string { return fmt.Sprintf("%.1f", v) }
	return [][]string{
		{"HRV (ms)", f(day.HRV), f(base.HRV)},
		{"Resting HR (bpm)", f(day.RHR), f(base.RHR)},
		{"Elevated HR", formatDuration(day.ElevatedTime), formatDuration(base.ElevatedTime)},
		{"Exercise (min)", f(day.ExerciseMinutes), f(base.ExerciseMinutes)},
		{"Steps", f(day.Steps), f(base.Steps)},
		{"Active energy (kcal)", f(day.ActiveEnergy), f(base.ActiveEnergy)},
		{"Sleep", formatDuration(day.SleepSeconds), formatDuration(base.SleepSeconds)},
	}
}

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Show rolling baselines",
	Long: `Show the rolling baseline for each raw signal.

The window ends yesterday. Days without data are skipped, except for elevated
heart rate time, which averages over the whole window. Sleep always uses a
fixed eight hour reference.

EXAMPLES:

  bandwidth baseline            # Uses the averaging period from settings
  bandwidth baseline --days 60
  bandwidth baseline --kind hrv # One signal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		userID, err := svc.userID(ctx)
		if err != nil {
			return err
		}

		days := baselineDays
		if days <= 0 {
			days = svc.settings.Current().AveragingPeriodDays
		}

		calc := svc.agg.Scorer().Baselines()
		from, to := calc.Window(days)
		header := fmt.Sprintf("Baseline %s → %s", from.Format(models.DayLayout), to.Format(models.DayLayout))

		if baselineKind != "" {
			kind, err := parseBaselineKind(baselineKind)
			if err != nil {
				return err
			}
			v := float64(metrics.SleepBaselineSeconds)
			if kind != models.KindSleepTime {
				if v, err = calc.Baseline(ctx, userID, kind, days); err != nil {
					return fmt.Errorf("compute baseline: %w", err)
				}
			}
			fmt.Println(output.Section(header))
			fmt.Println(output.KV(string(kind), formatKindValue(kind, v)))
			return nil
		}

		base, err := calc.BaselineMetrics(ctx, userID, days)
		if err != nil {
			return fmt.Errorf("compute baselines: %w", err)
		}

		fmt.Println(output.Section(header))
		tbl := output.NewTable("SIGNAL", "BASELINE")
		for _, row := range signalRows(metrics.DayMetrics{}, base) {
			tbl.AddRow(row[0], row[2])
		}
		tbl.Print()
		return nil
	},
}

// parseBaselineKind accepts registered raw kinds only.
func parseBaselineKind(s string) (models.MetricKind, error) {
	if !models.IsValidMetricKind(s) {
		return "", fmt.Errorf("unknown metric kind: %s", s)
	}
	kind := models.MetricKind(s)
	if kind.IsComputed() {
		return "", fmt.Errorf("%s is a computed score and has no baseline", s)
	}
	return kind, nil
}

func formatKindValue(kind models.MetricKind, v float64) string {
	switch kind {
	case models.KindSleepTime, models.KindElevatedHeartRateTime:
		return formatDuration(v)
	}
	return fmt.Sprintf("%.1f", v)
}

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show cached scores",
	Long: `Show cached bandwidth scores for recent days, oldest first.

Only days that already have a cached score are shown; history never computes.
Percentile is the day's rank among the listed days.

EXAMPLES:

  bandwidth history             # Last 14 days
  bandwidth history --days 90
  bandwidth history --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyDays <= 0 {
			return fmt.Errorf("--days must be greater than zero")
		}
		today := svc.today()
		entries, err := svc.agg.History(cmd.Context(), models.AddDays(today, -(historyDays-1)), today)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}

		if historyJSON {
			data, err := json.MarshalIndent(entries, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(entries) == 0 {
			fmt.Println("No cached scores found.")
			return nil
		}

		scores := make([]float64, len(entries))
		for i, e := range entries {
			scores[i] = e.Bandwidth
		}

		tbl := output.NewTable("DATE", "BANDWIDTH", "SLEEP", "EXERCISE", "HEART RATE", "PERCENTILE")
		for _, e := range entries {
			row := []string{e.Day, output.Score(e.Bandwidth)}
			for _, c := range componentLabels {
				if v, ok := e.Components[c.kind]; ok {
					row = append(row, output.Score(v))
				} else {
					row = append(row, output.StyleMuted.Render("-"))
				}
			}
			rank, _ := alerts.PercentileRank(e.Bandwidth, scores)
			row = append(row, output.PercentBar(rank, alerts.LowPercentile, 10))
			tbl.AddRow(row...)
		}
		tbl.Print()
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreDate, "date", "", "day to score (YYYY-MM-DD, default today)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "output as JSON")
	scoreCmd.Flags().BoolVar(&scoreDetail, "detail", false, "show raw signals against baselines")
	scoreCmd.Flags().StringVarP(&scoreCategory, "category", "c", "", "score one component (sleep, exercise, heartRate)")

	baselineCmd.Flags().IntVar(&baselineDays, "days", 0, "window length (default: averaging period setting)")
	baselineCmd.Flags().StringVarP(&baselineKind, "kind", "k", "", "show one raw signal (e.g. hrv, rhr, steps)")

	historyCmd.Flags().IntVar(&historyDays, "days", 14, "number of days to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(baselineCmd)
	rootCmd.AddCommand(historyCmd)
}
