// ABOUTME: Tests for export, import, and migration.
// ABOUTME: Verifies JSON, YAML, and Markdown output and round trips between databases.
package storage

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"gopkg.in/yaml.v3"
)

func seedExportData(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(db.UpsertDayField(ctx, "u1", models.NamespaceComputed, "2024-04-01", "bandwidth", 1.25, now))
	must(db.UpsertDayField(ctx, "u1", models.NamespaceComputed, "2024-04-01", "heartRateComponent", 3.125, now))
	must(db.UpsertDayField(ctx, "u1", models.NamespaceRaw, "2024-04-01", "hrv", 45, now))
	must(db.CreateSample(ctx, models.NewSample(models.SampleHRV, 45).WithNotes("note")))
	must(db.CreateWorkout(ctx, models.NewWorkout("run").WithDuration(30)))
	must(db.CreateSleepSegment(ctx, models.NewSleepSegment(models.SleepAsleep, now.Add(-8*time.Hour), now.Add(-time.Hour))))
	must(db.UpsertUser(ctx, &models.UserProfile{ID: "u1", Name: "Ada", PairedWith: "u2", UpdatedAt: now}))
	must(db.UpsertUser(ctx, &models.UserProfile{ID: "u2", Name: "Bo", PairedWith: "u1", UpdatedAt: now}))
	must(db.CreateAlert(ctx, models.NewLowBandwidthAlert("u2", "u1", "Ada", 1.25, 0.2, now)))
}

func TestExportJSON(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	data, err := db.ExportJSON(context.Background())
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}

	var export ExportData
	if err := json.Unmarshal(data, &export); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if export.Tool != "bandwidth" {
		t.Errorf("Expected tool bandwidth, got %s", export.Tool)
	}
	if len(export.Documents) != 2 {
		t.Errorf("Expected 2 documents, got %d", len(export.Documents))
	}
	if len(export.Samples) != 1 || len(export.Workouts) != 1 || len(export.SleepSegments) != 1 {
		t.Errorf("unexpected sample log counts")
	}
	if len(export.Users) != 2 || len(export.Alerts) != 1 {
		t.Errorf("unexpected users/alerts counts: %d/%d", len(export.Users), len(export.Alerts))
	}
}

func TestExportYAMLKeysDocumentsByPath(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	data, err := db.ExportYAML(context.Background())
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	var parsed map[string]any
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse YAML: %v", err)
	}
	docs, ok := parsed["documents"].(map[string]any)
	if !ok {
		t.Fatalf("documents missing from YAML")
	}
	if _, ok := docs["users/u1/computedData/2024-04-01"]; !ok {
		t.Errorf("expected computed document keyed by path, got %v", docs)
	}
	if !strings.Contains(string(data), "hrv:") {
		t.Error("expected samples grouped by type")
	}
}

func TestExportMarkdown(t *testing.T) {
	db := setupTestDB(t)
	seedExportData(t, db)

	md, err := db.ExportMarkdown(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "| 2024-04-01 | 1.25 | 3.12 | - | - |") && !strings.Contains(md, "| 2024-04-01 | 1.25 | 3.13 | - | - |") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
}

func TestExportMarkdownEmpty(t *testing.T) {
	db := setupTestDB(t)
	since := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	md, err := db.ExportMarkdown(context.Background(), "u1", &since)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}
	if !strings.Contains(md, "No scores recorded.") {
		t.Errorf("expected empty marker, got:\n%s", md)
	}
}

func TestMigrateDataRoundTrip(t *testing.T) {
	src := setupTestDB(t)
	dst := setupTestDB(t)
	seedExportData(t, src)
	ctx := context.Background()

	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Documents != 2 || summary.Users != 2 || summary.Alerts != 1 || summary.Samples != 1 {
		t.Errorf("unexpected summary: %+v", summary)
	}

	doc, err := dst.GetDayDocument(ctx, "u1", models.NamespaceComputed, "2024-04-01")
	if err != nil {
		t.Fatalf("GetDayDocument failed: %v", err)
	}
	if v, _ := doc.Value("bandwidth"); v != 1.25 {
		t.Errorf("bandwidth = %v, want 1.25", v)
	}
}

func TestImportJSONInvalid(t *testing.T) {
	var export ExportData
	if err := json.Unmarshal([]byte("{not json"), &export); err == nil {
		t.Fatal("expected parse error")
	}
}
