package repository

import (
	"context"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Delete(ctx context.Context, id string) error
	ListByBlog(ctx context.Context, q CommentFeedQuery) (pagination.Page[*models.Comment], error)
}

// CommentFeedQuery describes one page fetch over a blog's comments.
type CommentFeedQuery struct {
	BlogID    string
	PageSize  int
	Direction pagination.Direction
	Cursor    *pagination.Cursor
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	// total_comments on the blog changed
	cache.Invalidate(ctx, cache.BlogKey(comment.BlogID))
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("id", "blog_id").First(&comment, "id = ?", id).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.BlogKey(comment.BlogID))
	return nil
}

func (r *commentRepository) ListByBlog(ctx context.Context, q CommentFeedQuery) (pagination.Page[*models.Comment], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.Comment{}).
			Where("comments.blog_id = ?", q.BlogID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return pagination.Page[*models.Comment]{}, err
	}

	var comments []*models.Comment
	err := base().
		Preload("User").
		Scopes(
			pagination.Keyset("comments", q.Direction, q.Cursor),
			pagination.OrderBy("comments", q.Direction),
		).
		Limit(q.PageSize).
		Find(&comments).Error
	if err != nil {
		return pagination.Page[*models.Comment]{}, err
	}

	return pagination.NewPage(comments, q.PageSize, q.Direction, total), nil
}
