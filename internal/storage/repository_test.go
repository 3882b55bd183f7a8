// ABOUTME: Tests for Repository interface implementations.
// ABOUTME: Verifies day documents, the sample log, users, alerts, and tasks using SQLite.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

func TestUpsertDayFieldMerges(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := db.UpsertDayField(ctx, "u1", models.NamespaceRaw, "2024-03-01", "hrv", 48, at); err != nil {
		t.Fatalf("UpsertDayField failed: %v", err)
	}
	if err := db.UpsertDayField(ctx, "u1", models.NamespaceRaw, "2024-03-01", "rhr", 61, at); err != nil {
		t.Fatalf("UpsertDayField failed: %v", err)
	}
	if err := db.UpsertDayField(ctx, "u1", models.NamespaceRaw, "2024-03-01", "hrv", 50, at.Add(time.Hour)); err != nil {
		t.Fatalf("UpsertDayField failed: %v", err)
	}

	doc, err := db.GetDayDocument(ctx, "u1", models.NamespaceRaw, "2024-03-01")
	if err != nil {
		t.Fatalf("GetDayDocument failed: %v", err)
	}
	if v, _ := doc.Value("hrv"); v != 50 {
		t.Errorf("hrv = %v, want 50 (last write wins)", v)
	}
	if v, ok := doc.Value("rhr"); !ok || v != 61 {
		t.Errorf("rhr = %v/%v, want 61 kept after merge", v, ok)
	}
	if !doc.UpdatedAt.Equal(at.Add(time.Hour)) {
		t.Errorf("UpdatedAt = %v", doc.UpdatedAt)
	}
	if doc.Path() != "users/u1/healthData/2024-03-01" {
		t.Errorf("Path = %s", doc.Path())
	}
}

func TestGetDayDocumentNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetDayDocument(context.Background(), "u1", models.NamespaceComputed, "2024-01-01")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDayDocumentsAreScopedByCollectionAndUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	now := time.Now()

	_ = db.UpsertDayField(ctx, "u1", models.NamespaceComputed, "2024-01-02", "bandwidth", 3, now)
	_ = db.UpsertDayField(ctx, "u1", models.NamespaceRaw, "2024-01-02", "bandwidth", 99, now)
	_ = db.UpsertDayField(ctx, "u2", models.NamespaceComputed, "2024-01-02", "bandwidth", 7, now)
	_ = db.UpsertDayField(ctx, "u1", models.NamespaceComputed, "2024-01-05", "bandwidth", 4, now)

	docs, err := db.ListDayDocuments(ctx, "u1", models.NamespaceComputed, "2024-01-01", "2024-01-04")
	if err != nil {
		t.Fatalf("ListDayDocuments failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if v, _ := docs[0].Value("bandwidth"); v != 3 {
		t.Errorf("bandwidth = %v, want 3", v)
	}
}

func TestCreateAndGetSampleByPrefix(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	s := models.NewSample(models.SampleHRV, 45).WithNotes("morning")
	if err := db.CreateSample(ctx, s); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	got, err := db.GetSample(ctx, s.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if got.ID != s.ID || got.Value != 45 || got.SampleType != models.SampleHRV {
		t.Errorf("unexpected sample: %+v", got)
	}
	if got.Notes == nil || *got.Notes != "morning" {
		t.Errorf("Notes mismatch: %v", got.Notes)
	}
}

func TestListSamplesBetween(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	loc := time.FixedZone("UTC+2", 2*3600)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, loc)

	inside := models.NewSample(models.SampleSteps, 1000).WithRecordedAt(day.Add(time.Hour))
	before := models.NewSample(models.SampleSteps, 5).WithRecordedAt(day.Add(-time.Minute))
	after := models.NewSample(models.SampleSteps, 7).WithRecordedAt(day.Add(24 * time.Hour))
	other := models.NewSample(models.SampleHRV, 40).WithRecordedAt(day.Add(2 * time.Hour))
	for _, s := range []*models.Sample{inside, before, after, other} {
		if err := db.CreateSample(ctx, s); err != nil {
			t.Fatalf("CreateSample failed: %v", err)
		}
	}

	got, err := db.ListSamplesBetween(ctx, models.SampleSteps, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSamplesBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != inside.ID {
		t.Fatalf("expected only the in-day sample, got %d", len(got))
	}
}

func TestDeleteSampleNotFound(t *testing.T) {
	db := setupTestDB(t)

	err := db.DeleteSample(context.Background(), "deadbeef")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkoutsBetween(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	w := models.NewWorkout("run").WithStartedAt(day.Add(7 * time.Hour)).WithDuration(30)
	old := models.NewWorkout("lift").WithStartedAt(day.Add(-5 * time.Hour)).WithDuration(60)
	_ = db.CreateWorkout(ctx, w)
	_ = db.CreateWorkout(ctx, old)

	got, err := db.ListWorkoutsBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListWorkoutsBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].DurationMinutes != 30 {
		t.Fatalf("unexpected workouts: %+v", got)
	}

	wType := "LIFT"
	all, err := db.ListWorkouts(ctx, &wType, 0)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListWorkouts by type: %v, %d", err, len(all))
	}
}

func TestSleepSegments(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	s := models.NewSleepSegment(models.SleepAsleep, day.Add(time.Hour), day.Add(7*time.Hour))
	if err := db.CreateSleepSegment(ctx, s); err != nil {
		t.Fatalf("CreateSleepSegment failed: %v", err)
	}
	got, err := db.ListSleepSegmentsBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListSleepSegmentsBetween failed: %v", err)
	}
	if len(got) != 1 || got[0].Duration() != 6*time.Hour {
		t.Fatalf("unexpected segments: %+v", got)
	}
	if err := db.DeleteSleepSegment(ctx, s.ID.String()); err != nil {
		t.Fatalf("DeleteSleepSegment failed: %v", err)
	}
}

func TestUsersAndDeviceToken(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	u := &models.UserProfile{ID: "u1", Name: "Ada", PairedWith: "u2", DeviceToken: "tok", UpdatedAt: time.Now()}
	if err := db.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser failed: %v", err)
	}
	u.Name = "Ada L"
	if err := db.UpsertUser(ctx, u); err != nil {
		t.Fatalf("UpsertUser update failed: %v", err)
	}
	if err := db.ClearDeviceToken(ctx, "u1"); err != nil {
		t.Fatalf("ClearDeviceToken failed: %v", err)
	}

	got, err := db.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Name != "Ada L" || got.PairedWith != "u2" || got.DeviceToken != "" {
		t.Errorf("unexpected user: %+v", got)
	}

	if _, err := db.GetUser(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertsUnreadAndMarkRead(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	a := models.NewLowBandwidthAlert("partner", "u1", "Ada", 1.5, 0.1, time.Now())
	if err := db.CreateAlert(ctx, a); err != nil {
		t.Fatalf("CreateAlert failed: %v", err)
	}

	unread, err := db.ListAlerts(ctx, "partner", true, 0)
	if err != nil || len(unread) != 1 {
		t.Fatalf("ListAlerts unread: %v, %d", err, len(unread))
	}
	if unread[0].Type != models.AlertLowBandwidth || unread[0].FromUserName != "Ada" {
		t.Errorf("unexpected alert: %+v", unread[0])
	}

	if err := db.MarkAlertRead(ctx, "someone-else", a.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for another user's alert, got %v", err)
	}
	if err := db.MarkAlertRead(ctx, "partner", a.ID.String()[:8]); err != nil {
		t.Fatalf("MarkAlertRead failed: %v", err)
	}
	unread, _ = db.ListAlerts(ctx, "partner", true, 0)
	if len(unread) != 0 {
		t.Errorf("expected no unread alerts, got %d", len(unread))
	}
}

func TestTaskLifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 10, 16, 0, 0, 0, time.UTC)

	older := models.NewDailyTask("u1", base)
	newer := models.NewDailyTask("u1", base.Add(time.Hour))
	otherUser := models.NewDailyTask("u2", base.Add(2*time.Hour))
	for _, task := range []*models.DailyTask{older, newer, otherUser} {
		if err := db.CreateTask(ctx, task); err != nil {
			t.Fatalf("CreateTask failed: %v", err)
		}
	}

	got, err := db.LatestPendingTask(ctx, "u1")
	if err != nil {
		t.Fatalf("LatestPendingTask failed: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("expected newest pending task")
	}

	processed := base.Add(3 * time.Hour)
	if err := db.CompleteTask(ctx, newer.ID.String(), 2.5, processed); err != nil {
		t.Fatalf("CompleteTask failed: %v", err)
	}
	if err := db.FailTask(ctx, older.ID.String(), "boom", processed); err != nil {
		t.Fatalf("FailTask failed: %v", err)
	}

	done, _ := db.GetTask(ctx, newer.ID.String())
	if done.Status != models.TaskCompleted || done.Score == nil || *done.Score != 2.5 || done.ProcessedAt == nil {
		t.Errorf("unexpected completed task: %+v", done)
	}
	failed, _ := db.GetTask(ctx, older.ID.String())
	if failed.Status != models.TaskFailed || failed.Error == nil || *failed.Error != "boom" {
		t.Errorf("unexpected failed task: %+v", failed)
	}

	if _, err := db.LatestPendingTask(ctx, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound once tasks are processed, got %v", err)
	}

	n, err := db.DeleteAllTasks(ctx)
	if err != nil || n != 3 {
		t.Errorf("DeleteAllTasks = %d, %v; want 3", n, err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	db, err := Open(filepath.Join(dir, "bandwidth.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	nonEmpty, err := IsDirNonEmpty(dir)
	if err != nil || !nonEmpty {
		t.Errorf("expected database directory to be populated")
	}
}

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "bandwidth.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}
