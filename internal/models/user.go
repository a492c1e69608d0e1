// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an author account in the Quill application.
type User struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string         `gorm:"size:30;not null" json:"first_name"`
	LastName  string         `gorm:"size:30;not null" json:"last_name"`
	Username  string         `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Bio       string         `gorm:"size:200" json:"bio"`
	Image     string         `json:"image"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID and pins created_at to millisecond precision
// so the value survives a cursor encode/decode round trip unchanged.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return nil
}

// CursorKey identifies the user's position in a time-keyed feed.
func (u *User) CursorKey() (string, time.Time) {
	return u.ID, u.CreatedAt
}
