// ABOUTME: Data migration between bandwidth databases.
// ABOUTME: Copies documents, the sample log, users, and alerts from source to destination.

package storage

import (
	"context"
	"fmt"
	"os"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Documents     int
	Samples       int
	Workouts      int
	SleepSegments int
	Users         int
	Alerts        int
}

// MigrateData copies all data from src to dst storage.
// The destination should be empty before calling this function.
// Daily tasks are not copied; the scheduler recreates them.
func MigrateData(ctx context.Context, src, dst Repository) (*MigrateSummary, error) {
	data, err := src.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if err := dst.ImportData(ctx, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	return &MigrateSummary{
		Documents:     len(data.Documents),
		Samples:       len(data.Samples),
		Workouts:      len(data.Workouts),
		SleepSegments: len(data.SleepSegments),
		Users:         len(data.Users),
		Alerts:        len(data.Alerts),
	}, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
