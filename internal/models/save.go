package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Save represents a user bookmarking a blog for later reading.
// The combination of BlogID and UserID must be unique.
//
// When listing a user's saved blogs the save row itself is the
// paginated entity (ordered by when it was saved, not when the blog
// was written), with the blog and its engagement aggregates attached.
type Save struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	BlogID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_save_blog_user" json:"blog_id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_save_blog_user" json:"user_id"`
	Blog      Blog      `gorm:"foreignKey:BlogID" json:"blog"`
	CreatedAt time.Time `json:"created_at"`

	TotalLikes    int  `gorm:"->" json:"total_likes"`
	TotalSaves    int  `gorm:"->" json:"total_saves"`
	TotalComments int  `gorm:"->" json:"total_comments"`
	IsLiked       bool `gorm:"->" json:"is_liked"`
	IsSaved       bool `gorm:"->" json:"is_saved"`
}

// BeforeCreate assigns a UUID and pins created_at to millisecond precision.
func (s *Save) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return nil
}

// CursorKey identifies the save's position in a time-keyed feed.
func (s *Save) CursorKey() (string, time.Time) {
	return s.ID, s.CreatedAt
}
