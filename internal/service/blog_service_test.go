package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"quill/internal/models"
	"quill/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Blog{}, &models.Comment{}, &models.Like{}, &models.Save{},
	))
	return db
}

func newBlogService(t *testing.T) (*BlogService, *gorm.DB) {
	db := newTestDB(t)
	return NewBlogService(repository.NewBlogRepository(db), repository.NewUserRepository(db)), db
}

func createAuthor(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "Author",
		Username:  username,
		Email:     username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestBlogService_CreateBlog_NormalizesAndValidates(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	author := createAuthor(t, db, "author")

	blog, err := svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID:    author.ID,
		Title:       "  My    first   post  ",
		Description: "about things",
		Content:     "hello",
		Tags:        []string{" Go ", "go", "Web-Dev"},
	})
	require.NoError(t, err)
	assert.Equal(t, "My first post", blog.Title)
	assert.Equal(t, []string{"go", "web-dev"}, []string(blog.Tags))
	assert.Equal(t, author.Username, blog.Author.Username)
}

func TestBlogService_CreateBlog_RejectsBadInput(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	author := createAuthor(t, db, "author")

	cases := []struct {
		name string
		in   CreateBlogInput
	}{
		{"missing title", CreateBlogInput{AuthorID: author.ID, Description: "d", Content: "c"}},
		{"title too long", CreateBlogInput{AuthorID: author.ID, Title: strings.Repeat("x", 101), Description: "d", Content: "c"}},
		{"missing content", CreateBlogInput{AuthorID: author.ID, Title: "t", Description: "d"}},
		{"too many images", CreateBlogInput{AuthorID: author.ID, Title: "t", Description: "d", Content: "c",
			Images: []string{"a", "b", "c", "d", "e", "f"}}},
		{"bad author id", CreateBlogInput{AuthorID: "nope", Title: "t", Description: "d", Content: "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBlog(ctx, tc.in)
			var appErr *models.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
		})
	}
}

func TestBlogService_CreateBlog_UnknownAuthor(t *testing.T) {
	svc, _ := newBlogService(t)

	_, err := svc.CreateBlog(context.Background(), CreateBlogInput{
		AuthorID:    "1f0a2b3c-4d5e-4f60-8172-839405a6b7c8",
		Title:       "t",
		Description: "d",
		Content:     "c",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestBlogService_TitleUniquenessIsCaseInsensitivePerAuthor(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	author := createAuthor(t, db, "author")
	other := createAuthor(t, db, "other")

	_, err := svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: author.ID, Title: "Unique Title", Description: "d", Content: "c",
	})
	require.NoError(t, err)

	_, err = svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: author.ID, Title: "unique title", Description: "d", Content: "c",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// a different author may reuse the title
	_, err = svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: other.ID, Title: "Unique Title", Description: "d", Content: "c",
	})
	assert.NoError(t, err)
}

func TestBlogService_UpdateBlog_OwnershipAndTitleCheck(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	author := createAuthor(t, db, "author")
	intruder := createAuthor(t, db, "intruder")

	first, err := svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: author.ID, Title: "First", Description: "d", Content: "c",
	})
	require.NoError(t, err)
	second, err := svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: author.ID, Title: "Second", Description: "d", Content: "c",
	})
	require.NoError(t, err)

	_, err = svc.UpdateBlog(ctx, UpdateBlogInput{BlogID: first.ID, AuthorID: intruder.ID, Title: "hijack"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	// renaming onto a sibling's title is rejected
	_, err = svc.UpdateBlog(ctx, UpdateBlogInput{BlogID: second.ID, AuthorID: author.ID, Title: "First"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	// keeping one's own title is fine
	updated, err := svc.UpdateBlog(ctx, UpdateBlogInput{
		BlogID: second.ID, AuthorID: author.ID, Title: "Second", Content: "revised",
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
}

func TestBlogService_DeleteBlog(t *testing.T) {
	svc, db := newBlogService(t)
	ctx := context.Background()
	author := createAuthor(t, db, "author")

	blog, err := svc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: author.ID, Title: "Doomed", Description: "d", Content: "c",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBlog(ctx, blog.ID, author.ID))

	_, err = svc.GetBlog(ctx, blog.ID, "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestCommentService_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	blogRepo := repository.NewBlogRepository(db)
	svc := NewCommentService(repository.NewCommentRepository(db), blogRepo)
	blogSvc := NewBlogService(blogRepo, repository.NewUserRepository(db))
	ctx := context.Background()

	author := createAuthor(t, db, "author")
	reader := createAuthor(t, db, "reader")
	blog, err := blogSvc.CreateBlog(ctx, CreateBlogInput{
		AuthorID: author.ID, Title: "Discussed", Description: "d", Content: "c",
	})
	require.NoError(t, err)

	comment, err := svc.CreateComment(ctx, CreateCommentInput{
		BlogID:  blog.ID,
		UserID:  reader.ID,
		Content: "  what  a   read ",
	})
	require.NoError(t, err)
	assert.Equal(t, "what a read", comment.Content)
	assert.Equal(t, reader.Username, comment.User.Username)

	err = svc.DeleteComment(ctx, comment.ID, author.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "FORBIDDEN", appErr.Code)

	require.NoError(t, svc.DeleteComment(ctx, comment.ID, reader.ID))
}

func TestUserService_CreateAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(repository.NewUserRepository(db))
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Username:  "Jane_Doe",
		Email:     "JANE@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane_doe", created.Username)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.False(t, created.CreatedAt.IsZero())
	// created_at is pinned to millisecond precision for cursor round trips
	assert.Equal(t, created.CreatedAt, created.CreatedAt.Truncate(time.Millisecond))

	_, err = svc.CreateUser(ctx, CreateUserInput{
		FirstName: "Other", LastName: "Person", Username: "jane_doe", Email: "p@example.com",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	_, err = svc.SearchUsers(ctx, repository.UserSearchQuery{Username: "   "})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
