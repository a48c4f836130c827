package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the forum's category tree. ParentID is a plain
// self-reference; acyclicity is enforced by an ancestor walk in the service
// layer, not by the store. Categories are deactivated rather than deleted
// because threads keep referencing them.
type Category struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *string   `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Parent      *Category `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Order       int       `gorm:"not null;default:0" json:"order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedByID string    `gorm:"type:uuid" json:"created_by_id,omitempty"`
	Metadata    string    `json:"metadata,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// ThreadCount and PostCount are not persisted; computed by the
	// with-stats queries.
	ThreadCount int64 `gorm:"-" json:"thread_count,omitempty"`
	PostCount   int64 `gorm:"-" json:"post_count,omitempty"`
}

func (c *Category) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
