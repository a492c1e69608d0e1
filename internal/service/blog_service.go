// Package service contains the business rules sitting between the HTTP
// handlers and the repository layer.
package service

import (
	"context"
	"errors"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/validation"

	"gorm.io/gorm"
)

type BlogService struct {
	blogRepo repository.BlogRepository
	userRepo repository.UserRepository
}

type CreateBlogInput struct {
	AuthorID    string
	Title       string
	Description string
	Content     string
	Tags        []string
	Images      []string
}

type UpdateBlogInput struct {
	BlogID      string
	AuthorID    string
	Title       string
	Description string
	Content     string
	Tags        []string
	Images      []string
}

func NewBlogService(blogRepo repository.BlogRepository, userRepo repository.UserRepository) *BlogService {
	return &BlogService{
		blogRepo: blogRepo,
		userRepo: userRepo,
	}
}

func (s *BlogService) CreateBlog(ctx context.Context, in CreateBlogInput) (*models.Blog, error) {
	if err := validation.ValidateUUID(in.AuthorID); err != nil {
		return nil, models.NewValidationError("Invalid author id")
	}

	title := validation.NormalizeWhitespace(in.Title)
	description := validation.NormalizeWhitespace(in.Description)
	tags := validation.NormalizeTags(in.Tags)

	if err := validation.ValidateBlogTitle(title); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBlogDescription(description); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBlogContent(in.Content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateTags(tags); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateImages(in.Images); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.userRepo.GetByID(ctx, in.AuthorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.AuthorID)
		}
		return nil, err
	}

	exists, err := s.blogRepo.TitleExistsForAuthor(ctx, in.AuthorID, title, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewValidationError("You already have a blog with this title")
	}

	blog := &models.Blog{
		Title:       title,
		Description: description,
		Content:     in.Content,
		Tags:        tags,
		Images:      in.Images,
		AuthorID:    in.AuthorID,
	}
	if err := s.blogRepo.Create(ctx, blog); err != nil {
		return nil, err
	}

	return s.blogRepo.GetByID(ctx, blog.ID, in.AuthorID)
}

func (s *BlogService) GetBlog(ctx context.Context, blogID, viewerID string) (*models.Blog, error) {
	if err := validation.ValidateUUID(blogID); err != nil {
		return nil, models.NewValidationError("Invalid blog id")
	}

	blog, err := s.blogRepo.GetByID(ctx, blogID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", blogID)
		}
		return nil, err
	}
	return blog, nil
}

// ListFeed runs one page fetch over a blog feed. The caller has already
// decided the cursor and clamped the page size at the HTTP boundary.
func (s *BlogService) ListFeed(ctx context.Context, q repository.BlogFeedQuery) (pagination.Page[*models.Blog], error) {
	if q.AuthorID != "" {
		if err := validation.ValidateUUID(q.AuthorID); err != nil {
			return pagination.Page[*models.Blog]{}, models.NewValidationError("Invalid author id")
		}
	}
	if q.Tags != nil {
		q.Tags = validation.NormalizeTags(q.Tags)
		if len(q.Tags) == 0 {
			return pagination.Page[*models.Blog]{}, models.NewValidationError("At least one tag is required")
		}
	}
	return s.blogRepo.ListFeed(ctx, q)
}

func (s *BlogService) ListRanked(ctx context.Context, q repository.BlogRankQuery) (pagination.RankedPage[*models.Blog], error) {
	switch q.Rank {
	case repository.RankByLikes, repository.RankBySaves:
	default:
		return pagination.RankedPage[*models.Blog]{}, models.NewValidationError("rank must be 'likes' or 'saves'")
	}
	return s.blogRepo.ListRanked(ctx, q)
}

func (s *BlogService) UpdateBlog(ctx context.Context, in UpdateBlogInput) (*models.Blog, error) {
	if err := validation.ValidateUUID(in.BlogID); err != nil {
		return nil, models.NewValidationError("Invalid blog id")
	}

	blog, err := s.blogRepo.GetByID(ctx, in.BlogID, in.AuthorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", in.BlogID)
		}
		return nil, err
	}

	if blog.AuthorID != in.AuthorID {
		return nil, models.NewForbiddenError("You can only update your own blogs")
	}

	if in.Title != "" {
		title := validation.NormalizeWhitespace(in.Title)
		if err := validation.ValidateBlogTitle(title); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if title != blog.Title {
			exists, err := s.blogRepo.TitleExistsForAuthor(ctx, in.AuthorID, title, blog.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, models.NewValidationError("You already have a blog with this title")
			}
		}
		blog.Title = title
	}
	if in.Description != "" {
		description := validation.NormalizeWhitespace(in.Description)
		if err := validation.ValidateBlogDescription(description); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		blog.Description = description
	}
	if in.Content != "" {
		blog.Content = in.Content
	}
	if in.Tags != nil {
		tags := validation.NormalizeTags(in.Tags)
		if err := validation.ValidateTags(tags); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		blog.Tags = tags
	}
	if in.Images != nil {
		if err := validation.ValidateImages(in.Images); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		blog.Images = in.Images
	}

	if err := s.blogRepo.Update(ctx, blog); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blog.ID, in.AuthorID)
}

func (s *BlogService) DeleteBlog(ctx context.Context, blogID, authorID string) error {
	if err := validation.ValidateUUID(blogID); err != nil {
		return models.NewValidationError("Invalid blog id")
	}

	blog, err := s.blogRepo.GetByID(ctx, blogID, authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Blog", blogID)
		}
		return err
	}

	if blog.AuthorID != authorID {
		return models.NewForbiddenError("You can only delete your own blogs")
	}

	if err := s.blogRepo.Delete(ctx, blogID); err != nil {
		return err
	}
	return nil
}

// LikeBlog records a like. Liking an already-liked blog is a no-op.
func (s *BlogService) LikeBlog(ctx context.Context, userID, blogID string) (*models.Blog, error) {
	if err := s.checkLikeTarget(ctx, userID, blogID); err != nil {
		return nil, err
	}
	if err := s.blogRepo.Like(ctx, userID, blogID); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blogID, userID)
}

func (s *BlogService) UnlikeBlog(ctx context.Context, userID, blogID string) (*models.Blog, error) {
	if err := s.checkLikeTarget(ctx, userID, blogID); err != nil {
		return nil, err
	}
	removed, err := s.blogRepo.Unlike(ctx, userID, blogID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundError("Like", blogID)
	}
	return s.blogRepo.GetByID(ctx, blogID, userID)
}

func (s *BlogService) checkLikeTarget(ctx context.Context, userID, blogID string) error {
	if err := validation.ValidateUUID(userID); err != nil {
		return models.NewValidationError("Invalid user id")
	}
	if err := validation.ValidateUUID(blogID); err != nil {
		return models.NewValidationError("Invalid blog id")
	}
	if _, err := s.blogRepo.GetByID(ctx, blogID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Blog", blogID)
		}
		return err
	}
	return nil
}
