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

type CommentService struct {
	commentRepo repository.CommentRepository
	blogRepo    repository.BlogRepository
}

type CreateCommentInput struct {
	BlogID  string
	UserID  string
	Content string
}

func NewCommentService(commentRepo repository.CommentRepository, blogRepo repository.BlogRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		blogRepo:    blogRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateUUID(in.BlogID); err != nil {
		return nil, models.NewValidationError("Invalid blog id")
	}
	if err := validation.ValidateUUID(in.UserID); err != nil {
		return nil, models.NewValidationError("Invalid user id")
	}

	content := validation.NormalizeWhitespace(in.Content)
	if err := validation.ValidateComment(content); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if _, err := s.blogRepo.GetByID(ctx, in.BlogID, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Blog", in.BlogID)
		}
		return nil, err
	}

	comment := &models.Comment{
		Content: content,
		BlogID:  in.BlogID,
		UserID:  in.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID, userID string) error {
	if err := validation.ValidateUUID(commentID); err != nil {
		return models.NewValidationError("Invalid comment id")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return err
	}

	if comment.UserID != userID {
		return models.NewForbiddenError("You can only delete your own comments")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}
	return nil
}

// ListComments pages through a blog's comments.
func (s *CommentService) ListComments(ctx context.Context, q repository.CommentFeedQuery) (pagination.Page[*models.Comment], error) {
	if err := validation.ValidateUUID(q.BlogID); err != nil {
		return pagination.Page[*models.Comment]{}, models.NewValidationError("Invalid blog id")
	}
	if _, err := s.blogRepo.GetByID(ctx, q.BlogID, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pagination.Page[*models.Comment]{}, models.NewNotFoundError("Blog", q.BlogID)
		}
		return pagination.Page[*models.Comment]{}, err
	}
	return s.commentRepo.ListByBlog(ctx, q)
}
