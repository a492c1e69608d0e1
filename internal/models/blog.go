package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Blog represents a published blog post.
//
// TotalLikes, TotalSaves, TotalComments, IsLiked and IsSaved are not
// persisted; they are projected at query time as correlated subqueries
// against the likes, saves and comments tables.
type Blog struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:100;not null" json:"title"`
	Description string         `gorm:"size:300;not null" json:"description"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Tags        pq.StringArray `gorm:"type:text[];index" json:"tags"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	AuthorID    string         `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      User           `gorm:"foreignKey:AuthorID" json:"author"`

	TotalLikes    int  `gorm:"->" json:"total_likes"`
	TotalSaves    int  `gorm:"->" json:"total_saves"`
	TotalComments int  `gorm:"->" json:"total_comments"`
	IsLiked       bool `gorm:"->" json:"is_liked"`
	IsSaved       bool `gorm:"->" json:"is_saved"`

	CreatedAt time.Time `gorm:"index:idx_blogs_created_at_id,priority:1" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID and pins created_at to millisecond precision
// so the value survives a cursor encode/decode round trip unchanged.
func (b *Blog) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	return nil
}

// CursorKey identifies the blog's position in a time-keyed feed.
func (b *Blog) CursorKey() (string, time.Time) {
	return b.ID, b.CreatedAt
}
