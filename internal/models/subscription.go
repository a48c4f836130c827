package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription registers a user's interest in a tag, thread or category.
// The unique index over (user, resource type, resource id) keeps subscribe
// idempotent: a second subscribe on the same triple is a no-op.
type Subscription struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"type:uuid;not null;uniqueIndex:idx_sub_user_resource" json:"user_id"`
	ResourceType string    `gorm:"not null;uniqueIndex:idx_sub_user_resource" json:"resource_type"`
	ResourceID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_sub_user_resource" json:"resource_id"`
	NotifyEmail  bool      `gorm:"not null;default:true" json:"notify_email"`
	NotifyInApp  bool      `gorm:"not null;default:true" json:"notify_in_app"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
