// Package models contains data structures for the forum's domain entities.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values assigned by the identity provider.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User mirrors the record supplied by the external identity provider.
// Rows are created or refreshed on sign-in sync and never hard-deleted;
// everything referencing a user keeps its author trail.
type User struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	Name          string     `gorm:"not null" json:"name"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`
	Image         string     `json:"image,omitempty"`
	Role          string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Banned        bool       `gorm:"not null;default:false" json:"banned"`
	BanReason     string     `json:"ban_reason,omitempty"`
	BanExpires    *time.Time `json:"ban_expires,omitempty"`
	Handle        string     `gorm:"uniqueIndex;not null" json:"handle"`
	Bio           string     `json:"bio,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsBanned reports whether the user is banned at the given instant.
// A ban with no expiry is permanent.
func (u *User) IsBanned(now time.Time) bool {
	if !u.Banned {
		return false
	}
	if u.BanExpires == nil {
		return true
	}
	return now.Before(*u.BanExpires)
}

// IsModerator reports whether the user may perform moderation actions.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}
