package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"quill/internal/config"
	"quill/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
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

	cfg := &config.Config{Port: "0", Env: "test", AllowedOrigins: "*"}
	srv := NewServerWithDeps(cfg, db, nil)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     username + "@example.com",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedBlog(t *testing.T, db *gorm.DB, author *models.User, title string, at time.Time) *models.Blog {
	t.Helper()
	blog := &models.Blog{
		Title:       title,
		Description: "about " + title,
		Content:     "content of " + title,
		AuthorID:    author.ID,
		CreatedAt:   at,
	}
	require.NoError(t, db.Create(blog).Error)
	return blog
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func TestGetBlogs_PagedResponseShape(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")

	base := time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		seedBlog(t, db, author, fmt.Sprintf("post %d", i), base.Add(time.Duration(i)*time.Minute))
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/blogs?pageSize=3", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, float64(3), body["pageSize"])
	assert.Equal(t, "desc", body["orderBy"])
	assert.Equal(t, float64(4), body["totalCount"])
	items := body["items"].([]any)
	assert.Len(t, items, 3)

	cursor, ok := body["cursor"].(map[string]any)
	require.True(t, ok, "full page must carry a cursor")

	// resume with the echoed cursor pair
	next, nextBody := doJSON(t, app, http.MethodGet,
		"/api/blogs?pageSize=3&id="+cursor["id"].(string)+"&createdAt="+strings.ReplaceAll(cursor["created_at"].(string), " ", "%20"), nil)
	assert.Equal(t, http.StatusOK, next.StatusCode)
	assert.Len(t, nextBody["items"].([]any), 1)
	assert.Nil(t, nextBody["cursor"])
}

func TestGetBlogs_PartialCursorRejected(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet,
		"/api/blogs?id=1f0a2b3c-4d5e-4f60-8172-839405a6b7c8", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CURSOR", body["code"])
}

func TestGetBlogs_MalformedTimestampRejected(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet,
		"/api/blogs?id=1f0a2b3c-4d5e-4f60-8172-839405a6b7c8&createdAt=2025-04-11T12:22:00Z", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CURSOR", body["code"])
}

func TestGetBlogs_InvalidOrderByRejected(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/blogs?orderBy=upwards", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

// setupMockApp builds the app over a sqlmock-backed postgres connection, for
// routes whose SQL (array containment) sqlite cannot execute.
func setupMockApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	cfg := &config.Config{Port: "0", Env: "test", AllowedOrigins: "*"}
	srv := NewServerWithDeps(cfg, db, nil)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, mock
}

func TestGetBlogsByTags_SplitsAndNormalizes(t *testing.T) {
	app, mock := setupMockApp(t)

	// "Go,GO,web-dev" collapses to {"go","web-dev"} before it reaches the query
	tagsArg := `{"go","web-dev"}`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "blogs" WHERE blogs.tags @> $1`)).
		WithArgs(tagsArg).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta(`blogs.tags @> $1`)).
		WithArgs(tagsArg).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	resp, body := doJSON(t, app, http.MethodGet, "/api/blogs/tags?tags=Go,GO,web-dev", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["items"])
	assert.Equal(t, float64(0), body["totalCount"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBlogsByTags_AllEmptyRejected(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/api/blogs/tags?tags=,%20,", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	resp, _ = doJSON(t, app, http.MethodGet, "/api/blogs/tags", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchBlogs_RequiresQuery(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/blogs/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTopBlogs_InvalidRankRejected(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/blogs/top?rank=comments", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBlog_NotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet,
		"/api/blogs/1f0a2b3c-4d5e-4f60-8172-839405a6b7c8", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

func TestCreateBlog_TitleUniquePerAuthor(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")

	payload := map[string]any{
		"title":       "My one and only",
		"description": "a post",
		"content":     "hello world",
		"author_id":   author.ID,
	}

	resp, created := doJSON(t, app, http.MethodPost, "/api/blogs", payload)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "My one and only", created["title"])

	resp, body := doJSON(t, app, http.MethodPost, "/api/blogs", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestUpdateBlog_ForbiddenForNonAuthor(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")
	intruder := seedUser(t, db, "intruder")
	blog := seedBlog(t, db, author, "mine", time.Now().UTC().Truncate(time.Millisecond))

	resp, body := doJSON(t, app, http.MethodPatch,
		"/api/blogs/"+blog.ID+"?viewerId="+intruder.ID,
		map[string]any{"title": "stolen"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body["code"])
}

func TestLikeFlow(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	blog := seedBlog(t, db, author, "likable", time.Now().UTC().Truncate(time.Millisecond))

	resp, body := doJSON(t, app, http.MethodPost,
		"/api/likes/"+blog.ID+"?viewerId="+fan.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["total_likes"])
	assert.Equal(t, true, body["is_liked"])

	// liking twice stays a single like
	_, body = doJSON(t, app, http.MethodPost, "/api/likes/"+blog.ID+"?viewerId="+fan.ID, nil)
	assert.Equal(t, float64(1), body["total_likes"])

	resp, body = doJSON(t, app, http.MethodDelete,
		"/api/likes/"+blog.ID+"?viewerId="+fan.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["total_likes"])
	assert.Equal(t, false, body["is_liked"])

	// unliking without a like is a 404
	resp, _ = doJSON(t, app, http.MethodDelete, "/api/likes/"+blog.ID+"?viewerId="+fan.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLikeRequiresViewer(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")
	blog := seedBlog(t, db, author, "likable", time.Now().UTC().Truncate(time.Millisecond))

	resp, _ := doJSON(t, app, http.MethodPost, "/api/likes/"+blog.ID, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentFlow(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	blog := seedBlog(t, db, author, "discussed", time.Now().UTC().Truncate(time.Millisecond))

	resp, created := doJSON(t, app, http.MethodPost,
		"/api/comments/"+blog.ID+"?viewerId="+reader.ID,
		map[string]any{"content": "  nice   post  "})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "nice post", created["content"])

	resp, list := doJSON(t, app, http.MethodGet, "/api/blogs/"+blog.ID+"/comments", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list["items"].([]any), 1)

	// only the comment's author may delete it
	resp, _ = doJSON(t, app, http.MethodDelete,
		"/api/comments/"+created["id"].(string)+"?viewerId="+author.ID, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete,
		"/api/comments/"+created["id"].(string)+"?viewerId="+reader.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestCreateUser_Validation(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, created := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"first_name": "Jane",
		"last_name":  "Doe",
		"username":   "Jane_Doe",
		"email":      "Jane@Example.com",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "jane_doe", created["username"])
	assert.Equal(t, "jane@example.com", created["email"])

	// duplicate username
	resp, body := doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"first_name": "Other",
		"last_name":  "Person",
		"username":   "jane_doe",
		"email":      "other@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])

	resp, _ = doJSON(t, app, http.MethodPost, "/api/users", map[string]any{
		"first_name": "No",
		"last_name":  "Email",
		"username":   "no_email",
		"email":      "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSavedBlogsRequiresUserID(t *testing.T) {
	app, _ := setupTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/saves/blogs", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSaveFlow(t *testing.T) {
	app, db := setupTestApp(t)
	author := seedUser(t, db, "author")
	collector := seedUser(t, db, "collector")
	blog := seedBlog(t, db, author, "bookmarkable", time.Now().UTC().Truncate(time.Millisecond))

	resp, body := doJSON(t, app, http.MethodPost,
		"/api/saves/"+blog.ID+"?viewerId="+collector.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["is_saved"])

	resp, list := doJSON(t, app, http.MethodGet,
		"/api/saves/blogs?userId="+collector.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	items := list["items"].([]any)
	require.Len(t, items, 1)
	saved := items[0].(map[string]any)
	assert.Equal(t, blog.ID, saved["blog_id"])
}
