package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records a user's like on a post. The composite primary key guarantees
// at most one row per (user, post); inserts use ON CONFLICT DO NOTHING so a
// repeated like is a no-op.
type Like struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	PostID    string    `gorm:"primaryKey;type:uuid" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark records a user's bookmark on a thread, at most one per
// (user, thread).
type Bookmark struct {
	UserID    string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	ThreadID  string    `gorm:"primaryKey;type:uuid" json:"thread_id"`
	Thread    *Thread   `gorm:"foreignKey:ThreadID" json:"thread,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource types used by flags, subscriptions and notifications. The pair
// (ResourceType, ResourceID) is a tagged reference into heterogeneous tables,
// validated per type at the service layer.
const (
	ResourceThread   = "thread"
	ResourcePost     = "post"
	ResourceCategory = "category"
	ResourceTag      = "tag"
	ResourceUser     = "user"
)

// Flag is a moderation report against a thread, post or user. Every report
// creates a new row so repeated reports are captured; review happens once.
type Flag struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Type          string     `gorm:"not null" json:"type"`
	ResourceType  string     `gorm:"not null;index:idx_flag_resource" json:"resource_type"`
	ResourceID    string     `gorm:"type:uuid;not null;index:idx_flag_resource" json:"resource_id"`
	UserID        string     `gorm:"type:uuid;not null" json:"user_id"`
	Reason        string     `gorm:"not null" json:"reason"`
	ReasonDetails string     `json:"reason_details,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewedByID  *string    `gorm:"type:uuid" json:"reviewed_by_id,omitempty"`
}

func (f *Flag) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Reviewed reports whether the flag has already been handled.
func (f *Flag) Reviewed() bool {
	return f.ReviewedAt != nil
}
