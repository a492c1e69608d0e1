package service

import (
	"context"
	"errors"
	"strings"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/validation"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo repository.UserRepository
}

type CreateUserInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Bio       string
	Image     string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	firstName := validation.NormalizeWhitespace(in.FirstName)
	lastName := validation.NormalizeWhitespace(in.LastName)
	if firstName == "" || lastName == "" {
		return nil, models.NewValidationError("First and last name are required")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Username is already taken")
	}

	existing, err = s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("Email is already registered")
	}

	user := &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Username:  username,
		Email:     email,
		Bio:       validation.NormalizeWhitespace(in.Bio),
		Image:     strings.TrimSpace(in.Image),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if err := validation.ValidateUUID(id); err != nil {
		return nil, models.NewValidationError("Invalid user id")
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, err
	}
	return user, nil
}

// SearchUsers pages through users whose username contains the query string.
func (s *UserService) SearchUsers(ctx context.Context, q repository.UserSearchQuery) (pagination.Page[*models.User], error) {
	q.Username = strings.TrimSpace(q.Username)
	if q.Username == "" {
		return pagination.Page[*models.User]{}, models.NewValidationError("Search query is required")
	}
	return s.userRepo.SearchByUsername(ctx, q)
}
