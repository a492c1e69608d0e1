// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Rank selects the aggregate a ranked blog feed is ordered by.
type Rank string

const (
	RankByLikes Rank = "likes"
	RankBySaves Rank = "saves"
)

// Correlated count expressions. The same expression string is used in
// ORDER BY and in the score resume predicate; diverging the two would
// desynchronize ranked cursors from the displayed order.
const (
	likeCountExpr    = "SELECT COUNT(*) FROM likes WHERE likes.blog_id = blogs.id"
	saveCountExpr    = "SELECT COUNT(*) FROM saves WHERE saves.blog_id = blogs.id"
	commentCountExpr = "SELECT COUNT(*) FROM comments WHERE comments.blog_id = blogs.id AND comments.deleted_at IS NULL"
)

// BlogFeedQuery describes one page fetch over the blog collection.
// AuthorID, Title and Tags are optional base filters; when several are
// set they are conjoined.
type BlogFeedQuery struct {
	PageSize  int
	Direction pagination.Direction
	Cursor    *pagination.Cursor
	ViewerID  string
	AuthorID  string
	Title     string
	Tags      []string
}

// BlogRankQuery describes one page fetch over the ranked blog feeds.
type BlogRankQuery struct {
	PageSize int
	Cursor   *pagination.ScoreCursor
	ViewerID string
	Rank     Rank
}

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	Create(ctx context.Context, blog *models.Blog) error
	GetByID(ctx context.Context, id, viewerID string) (*models.Blog, error)
	Update(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, id string) error
	TitleExistsForAuthor(ctx context.Context, authorID, title, excludeID string) (bool, error)
	ListFeed(ctx context.Context, q BlogFeedQuery) (pagination.Page[*models.Blog], error)
	ListRanked(ctx context.Context, q BlogRankQuery) (pagination.RankedPage[*models.Blog], error)
	Like(ctx context.Context, userID, blogID string) error
	Unlike(ctx context.Context, userID, blogID string) (bool, error)
}

type blogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Blog, error) {
	var blog models.Blog

	var err error
	if viewerID == "" {
		// Anonymous reads share one projection, so cache-aside is safe.
		err = cache.Aside(ctx, cache.BlogKey(id), &blog, cache.BlogTTL, func() error {
			return r.withEngagement(r.db.WithContext(ctx), "").
				Preload("Author").
				Where("blogs.id = ?", id).
				First(&blog).Error
		})
	} else {
		err = r.withEngagement(r.db.WithContext(ctx), viewerID).
			Preload("Author").
			Where("blogs.id = ?", id).
			First(&blog).Error
	}
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Update(ctx context.Context, blog *models.Blog) error {
	if err := r.db.WithContext(ctx).Save(blog).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.BlogKey(blog.ID))
	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Blog{}, "id = ?", id).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.BlogKey(id))
	return nil
}

func (r *blogRepository) TitleExistsForAuthor(ctx context.Context, authorID, title, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Where("author_id = ?", authorID).
		Where("LOWER(title) = LOWER(?)", title)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// feedBase builds a fresh query carrying only the base filters of q.
// The resume condition is deliberately absent: totalCount is defined
// over the base filter alone.
func (r *blogRepository) feedBase(ctx context.Context, q BlogFeedQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&models.Blog{})
	if q.AuthorID != "" {
		db = db.Where("blogs.author_id = ?", q.AuthorID)
	}
	if q.Title != "" {
		db = db.Where("LOWER(blogs.title) LIKE LOWER(?)", "%"+q.Title+"%")
	}
	if len(q.Tags) > 0 {
		db = db.Where("blogs.tags @> ?", pq.Array(q.Tags))
	}
	return db
}

func (r *blogRepository) ListFeed(ctx context.Context, q BlogFeedQuery) (pagination.Page[*models.Blog], error) {
	var total int64
	if err := r.feedBase(ctx, q).Count(&total).Error; err != nil {
		return pagination.Page[*models.Blog]{}, err
	}

	var blogs []*models.Blog
	err := r.withEngagement(r.feedBase(ctx, q), q.ViewerID).
		Preload("Author").
		Scopes(
			pagination.Keyset("blogs", q.Direction, q.Cursor),
			pagination.OrderBy("blogs", q.Direction),
		).
		Limit(q.PageSize).
		Find(&blogs).Error
	if err != nil {
		return pagination.Page[*models.Blog]{}, err
	}

	return pagination.NewPage(blogs, q.PageSize, q.Direction, total), nil
}

func (r *blogRepository) ListRanked(ctx context.Context, q BlogRankQuery) (pagination.RankedPage[*models.Blog], error) {
	scoreExpr := likeCountExpr
	if q.Rank == RankBySaves {
		scoreExpr = saveCountExpr
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return pagination.RankedPage[*models.Blog]{}, err
	}

	var blogs []*models.Blog
	err := r.withEngagement(r.db.WithContext(ctx).Model(&models.Blog{}), q.ViewerID).
		Preload("Author").
		Scopes(
			pagination.KeysetByScore("blogs", scoreExpr, pagination.Desc, q.Cursor),
			pagination.OrderByScore("blogs", scoreExpr, pagination.Desc),
		).
		Limit(q.PageSize).
		Find(&blogs).Error
	if err != nil {
		return pagination.RankedPage[*models.Blog]{}, err
	}

	rank := q.Rank
	return pagination.NewRankedPage(blogs, q.PageSize, pagination.Desc, total, func(b *models.Blog) (string, int64) {
		if rank == RankBySaves {
			return b.ID, int64(b.TotalSaves)
		}
		return b.ID, int64(b.TotalLikes)
	}), nil
}

// withEngagement adds subqueries to fetch counts and the viewer's
// like/save state in a single query. Anonymous viewers get constant
// false flags so the response shape never varies.
func (r *blogRepository) withEngagement(db *gorm.DB, viewerID string) *gorm.DB {
	selectQuery := "blogs.*, " +
		"(" + likeCountExpr + ") AS total_likes, " +
		"(" + saveCountExpr + ") AS total_saves, " +
		"(" + commentCountExpr + ") AS total_comments"

	if viewerID == "" {
		return db.Select(selectQuery + ", FALSE AS is_liked, FALSE AS is_saved")
	}
	return db.Select(selectQuery+
		", EXISTS(SELECT 1 FROM likes WHERE likes.blog_id = blogs.id AND likes.user_id = ?) AS is_liked"+
		", EXISTS(SELECT 1 FROM saves WHERE saves.blog_id = blogs.id AND saves.user_id = ?) AS is_saved",
		viewerID, viewerID)
}

func (r *blogRepository) Like(ctx context.Context, userID, blogID string) error {
	// INSERT ... ON CONFLICT DO NOTHING keeps concurrent double-taps
	// from violating the (blog_id, user_id) uniqueness constraint.
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (id, blog_id, user_id, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (blog_id, user_id) DO NOTHING`,
		uuid.NewString(), blogID, userID, time.Now().UTC().Truncate(time.Millisecond),
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.BlogKey(blogID))
	}
	return nil
}

func (r *blogRepository) Unlike(ctx context.Context, userID, blogID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("blog_id = ? AND user_id = ?", blogID, userID).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.Invalidate(ctx, cache.BlogKey(blogID))
	}
	return res.RowsAffected > 0, nil
}
