package server

import (
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/repository"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SearchUsers handles GET /api/users/search?username=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	p, err := parsePageParams(c, pagination.DefaultPageSize, pagination.Desc)
	if err != nil {
		return respondServiceError(c, err)
	}

	page, err := s.userService.SearchUsers(c.UserContext(), repository.UserSearchQuery{
		Username:  c.Query("username"),
		PageSize:  p.PageSize,
		Direction: p.Direction,
		Cursor:    p.Cursor,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PageFetches.WithLabelValues("user_search").Inc()
	return c.JSON(page)
}

// CreateUser handles POST /api/users
func (s *Server) CreateUser(c *fiber.Ctx) error {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Bio       string `json:"bio"`
		Image     string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondServiceError(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.CreateUser(c.UserContext(), service.CreateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Bio:       req.Bio,
		Image:     req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:userId
func (s *Server) GetUser(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}
