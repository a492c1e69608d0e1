package server

import (
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/blogs/:blogId/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	p, err := parsePageParams(c, pagination.DefaultPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.commentService.ListComments(c.UserContext(), repository.CommentFeedQuery{
		BlogID:    c.Params("blogId"),
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("comments").Inc()
	return c.JSON(page)
}

// CreateComment handles POST /api/comments/:blogId
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		BlogID:  c.Params("blogId"),
		UserID:  userID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:commentId
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	userID, err := requiredViewerID(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	if err := s.commentService.DeleteComment(c.UserContext(), c.Params("commentId"), userID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
