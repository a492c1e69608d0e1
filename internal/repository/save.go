package repository

import (
	"context"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SaveRepository defines the interface for save (bookmark) operations
type SaveRepository interface {
	Save(ctx context.Context, userID, blogID string) (bool, error)
	Unsave(ctx context.Context, userID, blogID string) (bool, error)
	IsSaved(ctx context.Context, userID, blogID string) (bool, error)
	ListSaved(ctx context.Context, q SavedFeedQuery) (pagination.Page[*models.Save], error)
}

// SavedFeedQuery describes one page fetch over a user's saved blogs,
// ordered by when each blog was saved.
type SavedFeedQuery struct {
	UserID    string
	PageSize  int
	Direction pagination.Direction
	Cursor    *pagination.Cursor
}

type saveRepository struct {
	db *gorm.DB
}

// NewSaveRepository creates a new save repository
func NewSaveRepository(db *gorm.DB) SaveRepository {
	return &saveRepository{db: db}
}

func (r *saveRepository) Save(ctx context.Context, userID, blogID string) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO saves (id, blog_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (blog_id, user_id) DO NOTHING`,
		uuid.NewString(), blogID, userID, time.Now().UTC().Truncate(time.Millisecond),
	)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.BlogKey(blogID))
	}
	return res.RowsAffected > 0, nil
}

func (r *saveRepository) Unsave(ctx context.Context, userID, blogID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Delete(&models.Save{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.BlogKey(blogID))
	}
	return res.RowsAffected > 0, nil
}

func (r *saveRepository) IsSaved(ctx context.Context, userID, blogID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Save{}).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *saveRepository) ListSaved(ctx context.Context, q SavedFeedQuery) (pagination.Page[*models.Save], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Save{}).
			Where("saves.user_id = ?", q.UserID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return pagination.Page[*models.Save]{}, err
	}

	// Engagement aggregates are computed for the saved blog; is_saved is
	// trivially true and is_liked is scoped to the feed's owner.
	var saves []*models.Save
	err := base().
		Select("saves.*, "+
			"(SELECT COUNT(*) FROM likes WHERE likes.blog_id = saves.blog_id) AS total_likes, "+
			"(SELECT COUNT(*) FROM saves s2 WHERE s2.blog_id = saves.blog_id) AS total_saves, "+
			"(SELECT COUNT(*) FROM comments WHERE comments.blog_id = saves.blog_id AND comments.deleted_at IS NULL) AS total_comments, "+
			"EXISTS(SELECT 1 FROM likes WHERE likes.blog_id = saves.blog_id AND likes.user_id = ?) AS is_liked, "+
			"TRUE AS is_saved",
			q.UserID).
		Preload("Blog").
		Preload("Blog.Author").
		Scopes(
			pagination.Keyset("saves", q.Direction, q.Cursor),
			pagination.OrderBy("saves", q.Direction),
		).
		Limit(q.PageSize).
		Find(&saves).Error
	if err != nil {
		return pagination.Page[*models.Save]{}, err
	}

	return pagination.NewPage(saves, q.PageSize, q.Direction, total), nil
}
