package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like represents a user's like on a blog.
// The combination of BlogID and UserID must be unique.
type Like struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BlogID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_blog_user" json:"blog_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_like_blog_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns a UUID and pins created_at to millisecond precision.
func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return nil
}
