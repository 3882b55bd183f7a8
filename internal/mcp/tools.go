// ABOUTME: MCP tool implementations for bandwidth.
// ABOUTME: Scores, history, alerts, settings toggles, and raw sample entry.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/scoring"
	"github.com/harperreed/bandwidth/internal/settings"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_bandwidth",
		Description: "Compute (or read the cached) bandwidth score and its components for a day",
	}, s.handleGetBandwidth)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_history",
		Description: "List cached bandwidth scores for recent days",
	}, s.handleGetHistory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_alerts",
		Description: "List low-bandwidth alerts received from your partner",
	}, s.handleListAlerts)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "mark_alert_read",
		Description: "Mark an alert as read by ID or ID prefix",
	}, s.handleMarkAlertRead)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_settings",
		Description: "Show the scoring settings: enabled categories and weights",
	}, s.handleGetSettings)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "toggle_category",
		Description: "Enable or disable a scoring category (sleep, exercise, heartRate)",
	}, s.handleToggleCategory)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_sample",
		Description: "Record a raw biometric sample (heart_rate, hrv, resting_heart_rate, steps, active_energy)",
	}, s.handleAddSample)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_workout",
		Description: "Record a workout; its duration counts as exercise minutes",
	}, s.handleAddWorkout)
}

// Tool input/output types

type dayInput struct {
	Date string `json:"date,omitempty" jsonschema:"description=Day as YYYY-MM-DD, defaults to today"`
}

type historyInput struct {
	Days int `json:"days,omitempty" jsonschema:"description=Number of days to include (default 7)"`
}

type listAlertsInput struct {
	UnreadOnly bool `json:"unread_only,omitempty" jsonschema:"description=Only show unread alerts"`
	Limit      int  `json:"limit,omitempty" jsonschema:"description=Max results (default 20)"`
}

type alertIDInput struct {
	ID string `json:"id" jsonschema:"description=Alert ID or prefix,required"`
}

type toggleInput struct {
	Category string `json:"category" jsonschema:"description=sleep, exercise, or heartRate,required"`
	Enabled  bool   `json:"enabled" jsonschema:"description=Whether the category counts toward the score"`
}

type addSampleInput struct {
	SampleType string  `json:"sample_type" jsonschema:"description=Type of sample (heart_rate, hrv, resting_heart_rate, steps, active_energy),required"`
	Value      float64 `json:"value" jsonschema:"description=The sample value,required"`
	RecordedAt string  `json:"recorded_at,omitempty" jsonschema:"description=Timestamp (ISO 8601), defaults to now"`
	Notes      string  `json:"notes,omitempty" jsonschema:"description=Optional notes"`
}

type sampleOutput struct {
	ID         string  `json:"id"`
	SampleType string  `json:"sample_type"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Message    string  `json:"message"`
}

type addWorkoutInput struct {
	WorkoutType     string `json:"workout_type" jsonschema:"description=Type of workout (run, lift, cycle, swim, etc.),required"`
	DurationMinutes int    `json:"duration_minutes,omitempty" jsonschema:"description=Duration in minutes"`
	StartedAt       string `json:"started_at,omitempty" jsonschema:"description=Start time (ISO 8601), defaults to now"`
	Notes           string `json:"notes,omitempty" jsonschema:"description=Workout notes"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type settingsOutput struct {
	Settings settings.Settings `json:"settings"`
	Message  string            `json:"message,omitempty"`
}

type historyOutput struct {
	Entries []scoring.HistoryEntry `json:"entries"`
	Message string                 `json:"message,omitempty"`
}

type alertsOutput struct {
	Alerts  []*models.Alert `json:"alerts"`
	Message string          `json:"message,omitempty"`
}

func (s *Server) parseDay(value string) (time.Time, error) {
	if value == "" {
		return models.StartOfDay(s.clock.Now(), s.loc), nil
	}
	return models.ParseDay(value, s.loc)
}

func parseTimestamp(value string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02 15:04", value)
	}
	return t, err == nil
}

// Tool handlers

func (s *Server) handleGetBandwidth(ctx context.Context, req *mcp.CallToolRequest, input dayInput) (*mcp.CallToolResult, scoring.Breakdown, error) {
	day, err := s.parseDay(input.Date)
	if err != nil {
		return nil, scoring.Breakdown{}, err
	}
	b, err := s.agg.Breakdown(ctx, day)
	if err != nil {
		return nil, scoring.Breakdown{}, fmt.Errorf("failed to compute bandwidth: %w", err)
	}
	return nil, *b, nil
}

func (s *Server) handleGetHistory(ctx context.Context, req *mcp.CallToolRequest, input historyInput) (*mcp.CallToolResult, historyOutput, error) {
	if input.Days <= 0 {
		input.Days = 7
	}
	today := models.StartOfDay(s.clock.Now(), s.loc)
	entries, err := s.agg.History(ctx, models.AddDays(today, -(input.Days-1)), today)
	if err != nil {
		return nil, historyOutput{}, fmt.Errorf("failed to read history: %w", err)
	}
	out := historyOutput{Entries: entries}
	if len(entries) == 0 {
		out.Message = "No cached scores found."
	}
	return nil, out, nil
}

func (s *Server) handleListAlerts(ctx context.Context, req *mcp.CallToolRequest, input listAlertsInput) (*mcp.CallToolResult, alertsOutput, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}
	userID, err := s.agg.UserID(ctx)
	if err != nil {
		return nil, alertsOutput{}, err
	}
	alerts, err := s.repo.ListAlerts(ctx, userID, input.UnreadOnly, input.Limit)
	if err != nil {
		return nil, alertsOutput{}, fmt.Errorf("failed to list alerts: %w", err)
	}
	out := alertsOutput{Alerts: alerts}
	if len(alerts) == 0 {
		out.Message = "No alerts found."
	}
	return nil, out, nil
}

func (s *Server) handleMarkAlertRead(ctx context.Context, req *mcp.CallToolRequest, input alertIDInput) (*mcp.CallToolResult, simpleOutput, error) {
	userID, err := s.agg.UserID(ctx)
	if err != nil {
		return nil, simpleOutput{}, err
	}
	if err := s.repo.MarkAlertRead(ctx, userID, input.ID); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to mark alert read: %w", err)
	}
	return nil, simpleOutput{Message: fmt.Sprintf("Marked alert read: %s", input.ID)}, nil
}

func (s *Server) handleGetSettings(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, settingsOutput, error) {
	return nil, settingsOutput{Settings: s.settings.Current()}, nil
}

func (s *Server) handleToggleCategory(ctx context.Context, req *mcp.CallToolRequest, input toggleInput) (*mcp.CallToolResult, settingsOutput, error) {
	c, err := settings.ParseCategory(input.Category)
	if err != nil {
		return nil, settingsOutput{}, err
	}
	if err := s.settings.ToggleCategory(c, input.Enabled); err != nil {
		var verr *settings.ValidationError
		if errors.As(err, &verr) {
			return nil, settingsOutput{}, fmt.Errorf("settings rejected: %s", verr.Reason)
		}
		return nil, settingsOutput{}, err
	}
	return nil, settingsOutput{Settings: s.settings.Current(), Message: settings.SavedMessage}, nil
}

func (s *Server) handleAddSample(ctx context.Context, req *mcp.CallToolRequest, input addSampleInput) (*mcp.CallToolResult, sampleOutput, error) {
	if !models.IsValidSampleType(input.SampleType) {
		return nil, sampleOutput{}, fmt.Errorf("unknown sample type: %s", input.SampleType)
	}

	sample := models.NewSample(models.SampleType(input.SampleType), input.Value)
	if input.RecordedAt != "" {
		if t, ok := parseTimestamp(input.RecordedAt); ok {
			sample.WithRecordedAt(t)
		}
	}
	if input.Notes != "" {
		sample.WithNotes(input.Notes)
	}

	if err := s.repo.CreateSample(ctx, sample); err != nil {
		return nil, sampleOutput{}, fmt.Errorf("failed to create sample: %w", err)
	}

	short := sample.ID.String()[:8]
	return nil, sampleOutput{
		ID:         short,
		SampleType: input.SampleType,
		Value:      sample.Value,
		Unit:       sample.Unit,
		Message:    fmt.Sprintf("Added %s: %.2f %s (ID: %s)", input.SampleType, sample.Value, sample.Unit, short),
	}, nil
}

func (s *Server) handleAddWorkout(ctx context.Context, req *mcp.CallToolRequest, input addWorkoutInput) (*mcp.CallToolResult, simpleOutput, error) {
	if input.WorkoutType == "" {
		return nil, simpleOutput{}, errors.New("workout_type is required")
	}
	w := models.NewWorkout(input.WorkoutType)
	if input.DurationMinutes > 0 {
		w.WithDuration(input.DurationMinutes)
	}
	if input.StartedAt != "" {
		if t, ok := parseTimestamp(input.StartedAt); ok {
			w.WithStartedAt(t)
		}
	}
	if input.Notes != "" {
		w.WithNotes(input.Notes)
	}

	if err := s.repo.CreateWorkout(ctx, w); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to create workout: %w", err)
	}
	return nil, simpleOutput{
		Message: fmt.Sprintf("Added %s workout (ID: %s)", input.WorkoutType, w.ID.String()[:8]),
	}, nil
}
