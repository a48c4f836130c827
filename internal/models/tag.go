package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is an independent label attached to threads (and posts) via junction
// tables.
type Tag struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// ThreadTag links a thread to a tag. The composite primary key makes
// duplicate pairs impossible and lets association writes use an
// ON CONFLICT DO NOTHING upsert.
type ThreadTag struct {
	ThreadID  string    `gorm:"primaryKey;type:uuid" json:"thread_id"`
	TagID     string    `gorm:"primaryKey;type:uuid" json:"tag_id"`
	Tag       Tag       `gorm:"foreignKey:TagID" json:"tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PostTag links a post to a tag.
type PostTag struct {
	PostID    string    `gorm:"primaryKey;type:uuid" json:"post_id"`
	TagID     string    `gorm:"primaryKey;type:uuid" json:"tag_id"`
	Tag       Tag       `gorm:"foreignKey:TagID" json:"tag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
