// ABOUTME: Repository interface for bandwidth data storage.
// ABOUTME: Defines the document-store contract plus the device sample log.
package storage

import (
	"context"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// Repository defines the storage interface for bandwidth data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Day documents
	UpsertDayField(ctx context.Context, userID string, ns models.Namespace, day, field string, value float64, writtenAt time.Time) error
	GetDayDocument(ctx context.Context, userID string, ns models.Namespace, day string) (*DayDocument, error)
	ListDayDocuments(ctx context.Context, userID string, ns models.Namespace, fromDay, toDay string) ([]*DayDocument, error)

	// Sample log
	CreateSample(ctx context.Context, s *models.Sample) error
	GetSample(ctx context.Context, idOrPrefix string) (*models.Sample, error)
	ListSamples(ctx context.Context, sampleType *models.SampleType, limit int) ([]*models.Sample, error)
	ListSamplesBetween(ctx context.Context, sampleType models.SampleType, from, to time.Time) ([]*models.Sample, error)
	DeleteSample(ctx context.Context, idOrPrefix string) error

	// Workouts
	CreateWorkout(ctx context.Context, w *models.Workout) error
	GetWorkout(ctx context.Context, idOrPrefix string) (*models.Workout, error)
	ListWorkouts(ctx context.Context, workoutType *string, limit int) ([]*models.Workout, error)
	ListWorkoutsBetween(ctx context.Context, from, to time.Time) ([]*models.Workout, error)
	DeleteWorkout(ctx context.Context, idOrPrefix string) error

	// Sleep
	CreateSleepSegment(ctx context.Context, s *models.SleepSegment) error
	ListSleepSegments(ctx context.Context, limit int) ([]*models.SleepSegment, error)
	ListSleepSegmentsBetween(ctx context.Context, from, to time.Time) ([]*models.SleepSegment, error)
	DeleteSleepSegment(ctx context.Context, idOrPrefix string) error

	// Users
	UpsertUser(ctx context.Context, u *models.UserProfile) error
	GetUser(ctx context.Context, id string) (*models.UserProfile, error)
	ListUsers(ctx context.Context) ([]*models.UserProfile, error)
	ClearDeviceToken(ctx context.Context, id string) error

	// Alerts
	CreateAlert(ctx context.Context, a *models.Alert) error
	ListAlerts(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*models.Alert, error)
	MarkAlertRead(ctx context.Context, userID, idOrPrefix string) error

	// Daily tasks
	CreateTask(ctx context.Context, t *models.DailyTask) error
	GetTask(ctx context.Context, id string) (*models.DailyTask, error)
	LatestPendingTask(ctx context.Context, userID string) (*models.DailyTask, error)
	ListTasks(ctx context.Context, limit int) ([]*models.DailyTask, error)
	CompleteTask(ctx context.Context, id string, score float64, processedAt time.Time) error
	FailTask(ctx context.Context, id, message string, processedAt time.Time) error
	DeleteAllTasks(ctx context.Context) (int64, error)

	// Export/Import
	GetAllData(ctx context.Context) (*ExportData, error)
	ImportData(ctx context.Context, data *ExportData) error

	// Lifecycle
	Close() error
}

var _ Repository = (*DB)(nil)
