// ABOUTME: Schedule replaces every daily task with one fresh pending task per user.
// ABOUTME: Run it once a day from cron or the tasks schedule command.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
)

// ScheduleStore is the storage Schedule needs.
type ScheduleStore interface {
	DeleteAllTasks(ctx context.Context) (int64, error)
	ListUsers(ctx context.Context) ([]*models.UserProfile, error)
	CreateTask(ctx context.Context, t *models.DailyTask) error
}

// Schedule deletes existing tasks and creates one pending task per known user.
func Schedule(ctx context.Context, store ScheduleStore, now time.Time) ([]*models.DailyTask, error) {
	if _, err := store.DeleteAllTasks(ctx); err != nil {
		return nil, fmt.Errorf("clear tasks: %w", err)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	created := make([]*models.DailyTask, 0, len(users))
	for _, u := range users {
		t := models.NewDailyTask(u.ID, now)
		if err := store.CreateTask(ctx, t); err != nil {
			return created, fmt.Errorf("create task for %s: %w", u.ID, err)
		}
		created = append(created, t)
	}
	return created, nil
}
