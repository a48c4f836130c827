package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types, named after the event that produced the row.
const (
	NotificationMention     = "mention"
	NotificationReply       = "reply"
	NotificationLike        = "like"
	NotificationThreadSub   = "thread_subscription"
	NotificationCategorySub = "category_subscription"
)

// Notification is one row of a fan-out event. State machine is
// unread -> read, terminal; there is no un-read transition.
type Notification struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Type         string     `gorm:"not null" json:"type"`
	Title        string     `gorm:"not null" json:"title"`
	Message      string     `gorm:"not null" json:"message"`
	ResourceType string     `gorm:"not null" json:"resource_type"`
	ResourceID   string     `gorm:"type:uuid;not null" json:"resource_id"`
	ActorID      *string    `gorm:"type:uuid" json:"actor_id,omitempty"`
	Actor        *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	IsRead       bool       `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt    time.Time  `json:"created_at"`
	ReadAt       *time.Time `json:"read_at,omitempty"`
	EmailSent    bool       `gorm:"not null;default:false" json:"email_sent"`
	EmailSentAt  *time.Time `json:"email_sent_at,omitempty"`
}

func (n *Notification) BeforeCreate(_ *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
