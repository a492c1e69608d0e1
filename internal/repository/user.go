package repository

import (
	"context"
	"errors"

	"quill/internal/cache"
	"quill/internal/models"
	"quill/internal/pagination"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	SearchByUsername(ctx context.Context, q UserSearchQuery) (pagination.Page[*models.User], error)
}

// UserSearchQuery describes one page fetch over the username search.
type UserSearchQuery struct {
	Username  string
	PageSize  int
	Direction pagination.Direction
	Cursor    *pagination.Cursor
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	// Profiles only change through Create, so a short TTL is enough.
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no user exists with the email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns (nil, nil) when no user exists with the username.
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SearchByUsername(ctx context.Context, q UserSearchQuery) (pagination.Page[*models.User], error) {
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("LOWER(users.username) LIKE LOWER(?)", "%"+q.Username+"%")
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return pagination.Page[*models.User]{}, err
	}

	var users []*models.User
	err := base().
		Scopes(
			pagination.Keyset("users", q.Direction, q.Cursor),
			pagination.OrderBy("users", q.Direction),
		).
		Limit(q.PageSize).
		Find(&users).Error
	if err != nil {
		return pagination.Page[*models.User]{}, err
	}

	return pagination.NewPage(users, q.PageSize, q.Direction, total), nil
}
