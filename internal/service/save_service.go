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

type SaveService struct {
	saveRepo repository.SaveRepository
	blogRepo repository.BlogRepository
}

func NewSaveService(saveRepo repository.SaveRepository, blogRepo repository.BlogRepository) *SaveService {
	return &SaveService{
		saveRepo: saveRepo,
		blogRepo: blogRepo,
	}
}

// SaveBlog bookmarks a blog for the user. Saving twice is a no-op.
func (s *SaveService) SaveBlog(ctx context.Context, userID, blogID string) (*models.Blog, error) {
	if err := s.checkTarget(ctx, userID, blogID); err != nil {
		return nil, err
	}
	if _, err := s.saveRepo.Save(ctx, userID, blogID); err != nil {
		return nil, err
	}
	return s.blogRepo.GetByID(ctx, blogID, userID)
}

func (s *SaveService) UnsaveBlog(ctx context.Context, userID, blogID string) (*models.Blog, error) {
	if err := s.checkTarget(ctx, userID, blogID); err != nil {
		return nil, err
	}
	removed, err := s.saveRepo.Unsave(ctx, userID, blogID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, models.NewNotFoundError("Save", blogID)
	}
	return s.blogRepo.GetByID(ctx, blogID, userID)
}

// ListSaved pages through a user's saved blogs, keyed by save time.
func (s *SaveService) ListSaved(ctx context.Context, q repository.SavedFeedQuery) (pagination.Page[*models.Save], error) {
	if err := validation.ValidateUUID(q.UserID); err != nil {
		return pagination.Page[*models.Save]{}, models.NewValidationError("Invalid user id")
	}
	return s.saveRepo.ListSaved(ctx, q)
}

func (s *SaveService) checkTarget(ctx context.Context, userID, blogID string) error {
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
