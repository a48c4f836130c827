package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Thread is a top-level discussion topic within a category.
//
// Soft deletion uses explicit audit fields instead of gorm.DeletedAt so
// moderators can still query deleted rows and see who removed them.
// ViewCount is only ever written through an atomic in-place increment.
type Thread struct {
	ID             string     `gorm:"primaryKey;type:uuid" json:"id"`
	Title          string     `gorm:"not null" json:"title"`
	Slug           string     `gorm:"uniqueIndex;not null" json:"slug"`
	CategoryID     string     `gorm:"type:uuid;not null;index" json:"category_id"`
	Category       *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AuthorID       string     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author         *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	IsPinned       bool       `gorm:"not null;default:false" json:"is_pinned"`
	IsLocked       bool       `gorm:"not null;default:false" json:"is_locked"`
	ViewCount      int64      `gorm:"not null;default:0" json:"view_count"`
	LastActivityAt time.Time  `gorm:"not null" json:"last_activity_at"`
	IsDeleted      bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	DeletedByID    *string    `gorm:"type:uuid" json:"deleted_by_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Tags []ThreadTag `gorm:"foreignKey:ThreadID" json:"tags,omitempty"`

	// PostCount is not persisted; computed by the with-stats queries.
	PostCount int64 `gorm:"-" json:"post_count,omitempty"`
}

func (t *Thread) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.LastActivityAt.IsZero() {
		t.LastActivityAt = time.Now()
	}
	return nil
}
