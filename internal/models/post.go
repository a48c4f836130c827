package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a reply within a thread. ParentID forms a reply tree scoped to the
// same thread; the service layer rejects parents from other threads.
type Post struct {
	ID           string     `gorm:"primaryKey;type:uuid" json:"id"`
	ThreadID     string     `gorm:"type:uuid;not null;index" json:"thread_id"`
	Thread       *Thread    `gorm:"foreignKey:ThreadID" json:"thread,omitempty"`
	AuthorID     string     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author       *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	ParentID     *string    `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	IsDeleted    bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	DeletedByID  *string    `gorm:"type:uuid" json:"deleted_by_id,omitempty"`
	IsHidden     bool       `gorm:"not null;default:false" json:"is_hidden"`
	HiddenReason string     `json:"hidden_reason,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// LikeCount is not persisted; computed at query time.
	LikeCount int64 `gorm:"-" json:"like_count,omitempty"`
}

func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// PostVersion is one row of a post's append-only edit history. Rows are
// written on every edit and never mutated afterwards.
type PostVersion struct {
	ID          string    `gorm:"primaryKey;type:uuid" json:"id"`
	PostID      string    `gorm:"type:uuid;not null;index" json:"post_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	ContentHTML string    `gorm:"type:text" json:"content_html,omitempty"`
	EditedAt    time.Time `gorm:"not null" json:"edited_at"`
	EditedByID  string    `gorm:"type:uuid;not null" json:"edited_by_id"`
	EditReason  string    `json:"edit_reason,omitempty"`
}

func (v *PostVersion) BeforeCreate(_ *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.EditedAt.IsZero() {
		v.EditedAt = time.Now()
	}
	return nil
}
