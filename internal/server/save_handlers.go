package server

import (
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// SaveBlog handles POST /api/saves/:blogId
func (s *Server) SaveBlog(c *fiber.Ctx) error {
	userID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	blog, err := s.saveService.SaveBlog(c.UserContext(), userID, c.Params("blogId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// UnsaveBlog handles DELETE /api/saves/:blogId
func (s *Server) UnsaveBlog(c *fiber.Ctx) error {
	userID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	blog, err := s.saveService.UnsaveBlog(c.UserContext(), userID, c.Params("blogId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// GetSavedBlogs handles GET /api/saves/blogs?userId=...
func (s *Server) GetSavedBlogs(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return respondServiceError(c, models.NewValidationError("userId is required"))
	}

	p, err := parsePageParams(c, pagination.DefaultPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.saveService.ListSaved(c.UserContext(), repository.SavedFeedQuery{
		UserID:    userID,
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("saved_blogs").Inc()
	return c.JSON(page)
}
