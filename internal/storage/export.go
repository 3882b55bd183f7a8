// ABOUTME: Export and import functionality for bandwidth data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/bandwidth/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format.
type ExportData struct {
	Version       string                 `json:"version" yaml:"version"`
	ExportedAt    time.Time              `json:"exported_at" yaml:"exported_at"`
	Tool          string                 `json:"tool" yaml:"tool"`
	Documents     []*DayDocument         `json:"documents" yaml:"documents"`
	Samples       []*models.Sample       `json:"samples" yaml:"samples"`
	Workouts      []*models.Workout      `json:"workouts" yaml:"workouts"`
	SleepSegments []*models.SleepSegment `json:"sleep_segments" yaml:"sleep_segments"`
	Users         []*models.UserProfile  `json:"users" yaml:"users"`
	Alerts        []*models.Alert        `json:"alerts" yaml:"alerts"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData(ctx context.Context) (*ExportData, error) {
	docs, err := d.listAllDayDocuments(ctx)
	if err != nil {
		return nil, err
	}
	samples, err := d.ListSamples(ctx, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	workouts, err := d.ListWorkouts(ctx, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	segments, err := d.ListSleepSegments(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list sleep segments: %w", err)
	}
	users, err := d.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	var alerts []*models.Alert
	for _, u := range users {
		ua, err := d.ListAlerts(ctx, u.ID, false, 0)
		if err != nil {
			return nil, fmt.Errorf("list alerts: %w", err)
		}
		alerts = append(alerts, ua...)
	}

	return &ExportData{
		Version:       "1.0",
		ExportedAt:    time.Now(),
		Tool:          "bandwidth",
		Documents:     docs,
		Samples:       samples,
		Workouts:      workouts,
		SleepSegments: segments,
		Users:         users,
		Alerts:        alerts,
	}, nil
}

// ImportData imports data from an export file.
func (d *DB) ImportData(ctx context.Context, data *ExportData) error {
	for _, doc := range data.Documents {
		for field, value := range doc.Fields {
			if err := d.UpsertDayField(ctx, doc.UserID, doc.Namespace, doc.Day, field, value, doc.UpdatedAt); err != nil {
				return fmt.Errorf("import document %s: %w", doc.Path(), err)
			}
		}
	}
	for _, s := range data.Samples {
		if err := d.CreateSample(ctx, s); err != nil {
			return fmt.Errorf("import sample: %w", err)
		}
	}
	for _, w := range data.Workouts {
		if err := d.CreateWorkout(ctx, w); err != nil {
			return fmt.Errorf("import workout: %w", err)
		}
	}
	for _, s := range data.SleepSegments {
		if err := d.CreateSleepSegment(ctx, s); err != nil {
			return fmt.Errorf("import sleep segment: %w", err)
		}
	}
	for _, u := range data.Users {
		if err := d.UpsertUser(ctx, u); err != nil {
			return fmt.Errorf("import user: %w", err)
		}
	}
	for _, a := range data.Alerts {
		if err := d.CreateAlert(ctx, a); err != nil {
			return fmt.Errorf("import alert: %w", err)
		}
	}
	return nil
}

// ExportJSON exports all data as JSON.
func (d *DB) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

// ExportYAML exports all data as YAML, with documents keyed by path.
func (d *DB) ExportYAML(ctx context.Context) ([]byte, error) {
	data, err := d.GetAllData(ctx)
	if err != nil {
		return nil, err
	}

	yamlData := struct {
		Version    string                        `yaml:"version"`
		ExportedAt string                        `yaml:"exported_at"`
		Tool       string                        `yaml:"tool"`
		Documents  map[string]map[string]float64 `yaml:"documents"`
		Samples    map[string][]yamlSample       `yaml:"samples"`
		Workouts   []*models.Workout             `yaml:"workouts"`
		Sleep      []*models.SleepSegment        `yaml:"sleep_segments"`
		Users      []*models.UserProfile         `yaml:"users"`
		Alerts     []*models.Alert               `yaml:"alerts"`
	}{
		Version:    data.Version,
		ExportedAt: data.ExportedAt.Format(time.RFC3339),
		Tool:       data.Tool,
		Documents:  make(map[string]map[string]float64, len(data.Documents)),
		Samples:    make(map[string][]yamlSample),
		Workouts:   data.Workouts,
		Sleep:      data.SleepSegments,
		Users:      data.Users,
		Alerts:     data.Alerts,
	}

	for _, doc := range data.Documents {
		yamlData.Documents[doc.Path()] = doc.Fields
	}

	for _, s := range data.Samples {
		ys := yamlSample{
			ID:         s.ID.String()[:8],
			Value:      s.Value,
			Unit:       s.Unit,
			RecordedAt: s.RecordedAt.Format(time.RFC3339),
		}
		if s.Notes != nil {
			ys.Notes = *s.Notes
		}
		yamlData.Samples[string(s.SampleType)] = append(yamlData.Samples[string(s.SampleType)], ys)
	}

	return yaml.Marshal(yamlData)
}

type yamlSample struct {
	ID         string  `yaml:"id"`
	Value      float64 `yaml:"value"`
	Unit       string  `yaml:"unit"`
	RecordedAt string  `yaml:"recorded_at"`
	Notes      string  `yaml:"notes,omitempty"`
}

// ExportMarkdown renders a user's computed scores as a Markdown table.
func (d *DB) ExportMarkdown(ctx context.Context, userID string, since *time.Time) (string, error) {
	from := "0000-00-00"
	if since != nil {
		from = since.Format(models.DayLayout)
	}
	docs, err := d.ListDayDocuments(ctx, userID, models.NamespaceComputed, from, "9999-12-31")
	if err != nil {
		return "", err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Day > docs[j].Day })

	var sb strings.Builder
	now := time.Now()

	sb.WriteString(fmt.Sprintf("# Bandwidth Export - %s\n\n", now.Format(models.DayLayout)))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC3339)))

	if len(docs) == 0 {
		sb.WriteString("No scores recorded.\n")
		return sb.String(), nil
	}

	sb.WriteString("| Date | Bandwidth | Heart Rate | Exercise | Sleep |\n")
	sb.WriteString("|------|-----------|------------|----------|-------|\n")
	for _, doc := range docs {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			doc.Day,
			markdownCell(doc, models.KindBandwidth),
			markdownCell(doc, models.KindHeartRateComponent),
			markdownCell(doc, models.KindExerciseComponent),
			markdownCell(doc, models.KindSleepComponent)))
	}
	return sb.String(), nil
}

func markdownCell(doc *DayDocument, kind models.MetricKind) string {
	v, ok := doc.Value(kind.CacheKey())
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
