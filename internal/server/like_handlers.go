package server

import (
	"github.com/gofiber/fiber/v2"
)

// LikeBlog handles POST /api/likes/:blogId
func (s *Server) LikeBlog(c *fiber.Ctx) error {
	userID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	blog, err := s.blogService.LikeBlog(c.UserContext(), userID, c.Params("blogId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}

// UnlikeBlog handles DELETE /api/likes/:blogId
func (s *Server) UnlikeBlog(c *fiber.Ctx) error {
	userID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	blog, err := s.blogService.UnlikeBlog(c.UserContext(), userID, c.Params("blogId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(blog)
}
