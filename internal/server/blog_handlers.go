package server

import (
	"strings"

	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

type blogRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	AuthorID    string   `json:"author_id"`
}

// GetBlogs handles GET /api/blogs
func (s *Server) GetBlogs(c *fiber.Ctx) error {
	p, err := parsePageParams(c, pagination.DefaultPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.blogService.ListFeed(c.UserContext(), repository.BlogFeedQuery{
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
		ViewerID:  p.ViewerID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("blogs").Inc()
	return c.JSON(page)
}

// GetBlogsByAuthor handles GET /api/blogs/author/:authorId
func (s *Server) GetBlogsByAuthor(c *fiber.Ctx) error {
	p, err := parsePageParams(c, pagination.AuthorPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.blogService.ListFeed(c.UserContext(), repository.BlogFeedQuery{
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
		ViewerID:  p.ViewerID,
		AuthorID:  c.Params("authorId"),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("author_blogs").Inc()
	return c.JSON(page)
}

// SearchBlogs handles GET /api/blogs/search?title=...
func (s *Server) SearchBlogs(c *fiber.Ctx) error {
	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		return respondServiceError(c, models.NewValidationError("Search query is required"))
	}

	p, err := parsePageParams(c, pagination.DefaultPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.blogService.ListFeed(c.UserContext(), repository.BlogFeedQuery{
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
		ViewerID:  p.ViewerID,
		Title:     title,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("blog_search").Inc()
	return c.JSON(page)
}

// GetBlogsByTags handles GET /api/blogs/tags?tags=a,b
func (s *Server) GetBlogsByTags(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("tags"))
	if raw == "" {
		return respondServiceError(c, models.NewValidationError("At least one tag is required"))
	}

	p, err := parsePageParams(c, pagination.DefaultPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.blogService.ListFeed(c.UserContext(), repository.BlogFeedQuery{
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
		ViewerID:  p.ViewerID,
		Tags:      strings.Split(raw, ","),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("blog_tags").Inc()
	return c.JSON(page)
}

// GetTopBlogs handles GET /api/blogs/top?rank=likes|saves
func (s *Server) GetTopBlogs(c *fiber.Ctx) error {
	cur, err := parseScoreCursor(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	viewerID, err := optionalViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.blogService.ListRanked(c.UserContext(), repository.BlogRankQuery{
		PageSize: pagination.ClampPageSize(c.QueryInt("pageSize", pagination.DefaultPageSize), pagination.DefaultPageSize),
		Cursor:   cur,
		ViewerID: viewerID,
		Rank:     repository.Rank(c.Query("rank", string(repository.RankByLikes))),
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("blog_top").Inc()
	return c.JSON(page)
}

// GetBlog handles GET /api/blogs/:blogId
func (s *Server) GetBlog(c *fiber.Ctx) error {
	viewerID, err := optionalViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	blog, err := s.blogService.GetBlog(c.UserContext(), c.Params("blogId"), viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// CreateBlog handles POST /api/blogs
func (s *Server) CreateBlog(c *fiber.Ctx) error {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	blog, err := s.blogService.CreateBlog(c.UserContext(), service.CreateBlogInput{
		AuthorID:    req.AuthorID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

// UpdateBlog handles PATCH /api/blogs/:blogId
func (s *Server) UpdateBlog(c *fiber.Ctx) error {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}
	viewerID := c.Query("viewerId", req.AuthorID)

	blog, err := s.blogService.UpdateBlog(c.UserContext(), service.UpdateBlogInput{
		BlogID:      c.Params("blogId"),
		AuthorID:    viewerID,
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Images:      req.Images,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// DeleteBlog handles DELETE /api/blogs/:blogId
func (s *Server) DeleteBlog(c *fiber.Ctx) error {
	viewerID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.blogService.DeleteBlog(c.UserContext(), c.Params("blogId"), viewerID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
