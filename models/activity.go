package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentStatus is the publishing status shared by tour content (activities
// and puzzles). Scheduled content is flipped to published by the sweep in
// services.StartPublishScheduler.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusScheduled ContentStatus = "scheduled"
	ContentStatusPublished ContentStatus = "published"
)

// Activity is one stop of the campus tour. SortOrder drives both the client
// itinerary and the "highest activity" pick at reward generation time.
type Activity struct {
	ID          string        `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Slug        string        `gorm:"uniqueIndex;not null" json:"slug"`
	Description string        `gorm:"type:text" json:"description"`
	Location    string        `json:"location"`
	SortOrder   int           `gorm:"index;default:0" json:"sort_order"`
	Status      ContentStatus `gorm:"not null;default:'draft'" json:"status"`
	PublishAt   *time.Time    `json:"publish_at,omitempty"`

	Timestamps
}

// ActivityCompletion records that a user finished one activity. The composite
// unique index makes repeated completion calls idempotent at the DB level.
type ActivityCompletion struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID      string    `gorm:"index:idx_user_activity,unique;not null" json:"user_id"`
	ActivityID  string    `gorm:"index:idx_user_activity,unique;not null" json:"activity_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// CompletionStatus is the oracle result consumed by the reward flow.
type CompletionStatus struct {
	AllCompleted   bool  `json:"all_completed"`
	CompletedCount int64 `json:"completed_count"`
	TotalCount     int64 `json:"total_count"`
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
