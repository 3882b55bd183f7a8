// ABOUTME: Alert, DailyTask, and UserProfile records.
// ABOUTME: These are the documents exchanged with partners and the scheduler.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType names the kind of partner alert.
type AlertType string

const AlertLowBandwidth AlertType = "lowBandwidthAlert"

// AlertStatus tracks whether the partner has seen the alert.
type AlertStatus string

const (
	AlertUnread AlertStatus = "unread"
	AlertRead   AlertStatus = "read"
)

// Alert is stored in the partner's alert collection.
type Alert struct {
	ID           uuid.UUID   `json:"id" yaml:"id"`
	UserID       string      `json:"user_id" yaml:"user_id"`
	Type         AlertType   `json:"type" yaml:"type"`
	FromUserID   string      `json:"from_user_id" yaml:"from_user_id"`
	FromUserName string      `json:"from_user_name" yaml:"from_user_name"`
	Score        float64     `json:"score" yaml:"score"`
	Percentile   float64     `json:"percentile" yaml:"percentile"`
	Timestamp    time.Time   `json:"timestamp" yaml:"timestamp"`
	Status       AlertStatus `json:"status" yaml:"status"`
}

// NewLowBandwidthAlert builds an unread alert addressed to partnerID.
func NewLowBandwidthAlert(partnerID, fromUserID, fromUserName string, score, percentile float64, at time.Time) *Alert {
	return &Alert{
		ID:           uuid.New(),
		UserID:       partnerID,
		Type:         AlertLowBandwidth,
		FromUserID:   fromUserID,
		FromUserName: fromUserName,
		Score:        score,
		Percentile:   percentile,
		Timestamp:    at,
		Status:       AlertUnread,
	}
}

// TaskStatus is the lifecycle state of a daily task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// DailyTask asks a user's process to compute the score for Timestamp's day.
type DailyTask struct {
	ID          uuid.UUID  `json:"id" yaml:"id"`
	UserID      string     `json:"user_id" yaml:"user_id"`
	Timestamp   time.Time  `json:"timestamp" yaml:"timestamp"`
	Status      TaskStatus `json:"status" yaml:"status"`
	Score       *float64   `json:"score,omitempty" yaml:"score,omitempty"`
	Error       *string    `json:"error,omitempty" yaml:"error,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty" yaml:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// NewDailyTask creates a pending task.
func NewDailyTask(userID string, at time.Time) *DailyTask {
	return &DailyTask{
		ID:        uuid.New(),
		UserID:    userID,
		Timestamp: at,
		Status:    TaskPending,
		CreatedAt: at,
	}
}

// UserProfile holds the pairing and delivery details for a user.
type UserProfile struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	PairedWith       string    `json:"paired_with,omitempty" yaml:"paired_with,omitempty"`
	DeviceToken      string    `json:"device_token,omitempty" yaml:"device_token,omitempty"`
	TimeZone         string    `json:"time_zone,omitempty" yaml:"time_zone,omitempty"`
	UTCOffsetSeconds int       `json:"utc_offset_seconds" yaml:"utc_offset_seconds"`
	UpdatedAt        time.Time `json:"updated_at" yaml:"updated_at"`
}
