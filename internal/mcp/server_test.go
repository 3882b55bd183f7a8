// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/bandwidth/internal/biometrics"
	"github.com/harperreed/bandwidth/internal/cache"
	"github.com/harperreed/bandwidth/internal/identity"
	"github.com/harperreed/bandwidth/internal/metrics"
	"github.com/harperreed/bandwidth/internal/models"
	"github.com/harperreed/bandwidth/internal/scoring"
	"github.com/harperreed/bandwidth/internal/settings"
	"github.com/harperreed/bandwidth/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// setupTestDB creates a test database in a temp directory.
func setupTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "bandwidth.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func setupServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()
	db := setupTestDB(t)
	st := settings.NewStatic(settings.Default())
	clock := metrics.FixedClock(testNow)
	scorer := scoring.NewScorer(metrics.Deps{
		Store:    cache.NewDocumentStore(db),
		Source:   biometrics.NewLocalSource(db),
		Settings: st,
		Clock:    clock,
		Location: time.UTC,
	})

	server, err := NewServer(Deps{
		Repo:       db,
		Aggregator: scoring.NewAggregator(identity.Static("u1"), scorer),
		Settings:   st,
		Clock:      clock,
		Location:   time.UTC,
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

func TestNewServer(t *testing.T) {
	server, _ := setupServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.repo == nil {
		t.Error("Expected non-nil repo")
	}
}

func TestNewServerMissingDeps(t *testing.T) {
	if _, err := NewServer(Deps{}); err == nil {
		t.Error("Expected error for missing dependencies")
	}
}

func TestHandleAddSample(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		input     addSampleInput
		wantErr   bool
		errSubstr string
	}{
		{
			name:  "valid hrv sample",
			input: addSampleInput{SampleType: "hrv", Value: 48},
		},
		{
			name:  "sample with notes and timestamp",
			input: addSampleInput{SampleType: "steps", Value: 9000, RecordedAt: "2024-03-15T08:00:00Z", Notes: "morning walk"},
		},
		{
			name:      "invalid sample type",
			input:     addSampleInput{SampleType: "mood", Value: 7},
			wantErr:   true,
			errSubstr: "unknown sample type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, out, err := server.handleAddSample(ctx, &mcp.CallToolRequest{}, tt.input)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), tt.errSubstr) {
					t.Errorf("error = %v, want substring %q", err, tt.errSubstr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(out.ID) != 8 {
				t.Errorf("ID = %q, want 8-char prefix", out.ID)
			}
			if out.Unit == "" {
				t.Error("Expected unit to be filled in")
			}
		})
	}

	samples, err := db.ListSamples(ctx, nil, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 2 {
		t.Errorf("got %d samples, want 2", len(samples))
	}
}

func TestHandleAddWorkout(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, addWorkoutInput{
		WorkoutType:     "run",
		DurationMinutes: 45,
		StartedAt:       "2024-03-15T07:00:00Z",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out.Message, "run") {
		t.Errorf("Message = %q", out.Message)
	}

	workouts, _ := db.ListWorkouts(ctx, nil, 10)
	if len(workouts) != 1 || workouts[0].DurationMinutes != 45 {
		t.Errorf("workouts = %+v", workouts)
	}

	if _, _, err := server.handleAddWorkout(ctx, &mcp.CallToolRequest{}, addWorkoutInput{}); err == nil {
		t.Error("Expected error for missing workout type")
	}
}

func TestHandleGetBandwidthAndHistory(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()

	for _, s := range []*models.Sample{
		models.NewSample(models.SampleHRV, 45).WithRecordedAt(testNow.Add(-time.Hour)),
		models.NewSample(models.SampleHRV, 50).WithRecordedAt(testNow.Add(-25 * time.Hour)),
	} {
		if err := db.CreateSample(ctx, s); err != nil {
			t.Fatal(err)
		}
	}

	_, b, err := server.handleGetBandwidth(ctx, &mcp.CallToolRequest{}, dayInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if b.Day != "2024-03-15" {
		t.Errorf("Day = %q, want 2024-03-15", b.Day)
	}
	if _, ok := b.Components[models.KindHeartRateComponent]; !ok {
		t.Error("Expected heart rate component in breakdown")
	}

	_, hist, err := server.handleGetHistory(ctx, &mcp.CallToolRequest{}, historyInput{Days: 7})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(hist.Entries) != 1 || hist.Entries[0].Bandwidth != b.Bandwidth {
		t.Errorf("history = %+v, want one entry with %v", hist.Entries, b.Bandwidth)
	}
}

func TestHandleGetBandwidthBadDate(t *testing.T) {
	server, _ := setupServer(t)
	if _, _, err := server.handleGetBandwidth(context.Background(), &mcp.CallToolRequest{}, dayInput{Date: "15/03/2024"}); err == nil {
		t.Error("Expected error for malformed date")
	}
}

func TestHandleGetHistoryEmpty(t *testing.T) {
	server, _ := setupServer(t)
	_, out, err := server.handleGetHistory(context.Background(), &mcp.CallToolRequest{}, historyInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if out.Message != "No cached scores found." {
		t.Errorf("Message = %q", out.Message)
	}
}

func TestHandleAlerts(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()

	alert := models.NewLowBandwidthAlert("u1", "u2", "Alex", -2, 0.1, testNow)
	if err := db.CreateAlert(ctx, alert); err != nil {
		t.Fatal(err)
	}

	_, out, err := server.handleListAlerts(ctx, &mcp.CallToolRequest{}, listAlertsInput{UnreadOnly: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(out.Alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(out.Alerts))
	}

	if _, _, err := server.handleMarkAlertRead(ctx, &mcp.CallToolRequest{}, alertIDInput{ID: alert.ID.String()[:8]}); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	_, out, err = server.handleListAlerts(ctx, &mcp.CallToolRequest{}, listAlertsInput{UnreadOnly: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Alerts) != 0 || out.Message != "No alerts found." {
		t.Errorf("unread alerts after mark = %+v", out)
	}
}

func TestHandleMarkAlertReadNotFound(t *testing.T) {
	server, _ := setupServer(t)
	if _, _, err := server.handleMarkAlertRead(context.Background(), &mcp.CallToolRequest{}, alertIDInput{ID: "deadbeef"}); err == nil {
		t.Error("Expected error for unknown alert")
	}
}

func TestHandleSettings(t *testing.T) {
	server, _ := setupServer(t)
	ctx := context.Background()

	_, out, err := server.handleGetSettings(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Settings.SleepEnabled {
		t.Error("sleep should be disabled by default")
	}

	_, out, err = server.handleToggleCategory(ctx, &mcp.CallToolRequest{}, toggleInput{Category: "sleep", Enabled: true})
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !out.Settings.SleepEnabled || out.Message != settings.SavedMessage {
		t.Errorf("toggle result = %+v", out)
	}
	if got := out.Settings.MainWeights["sleep"]; got != 50 {
		t.Errorf("sleep main weight = %v, want 50", got)
	}

	if _, _, err := server.handleToggleCategory(ctx, &mcp.CallToolRequest{}, toggleInput{Category: "mood"}); err == nil {
		t.Error("Expected error for unknown category")
	}
}

func TestSettingsResource(t *testing.T) {
	server, _ := setupServer(t)

	result, err := server.handleSettingsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != settingsURI {
		t.Errorf("URI = %s, want %s", result.Contents[0].URI, settingsURI)
	}

	var st settings.Settings
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &st); err != nil {
		t.Fatalf("settings resource is not JSON: %v", err)
	}
	if st.AveragingPeriodDays != settings.DefaultAveragingDays {
		t.Errorf("AveragingPeriodDays = %d", st.AveragingPeriodDays)
	}
}

func TestAlertsResource(t *testing.T) {
	server, db := setupServer(t)
	ctx := context.Background()
	if err := db.CreateAlert(ctx, models.NewLowBandwidthAlert("u1", "u2", "Alex", -2, 0.1, testNow)); err != nil {
		t.Fatal(err)
	}

	result, err := server.handleAlertsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s", result.Contents[0].MIMEType)
	}
	if !strings.Contains(result.Contents[0].Text, `"count": 1`) {
		t.Errorf("Text = %s", result.Contents[0].Text)
	}
}

func TestHistoryResourceEmpty(t *testing.T) {
	server, _ := setupServer(t)

	result, err := server.handleHistoryResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(result.Contents[0].Text, `"to": "2024-03-15"`) {
		t.Errorf("Text = %s", result.Contents[0].Text)
	}
}
