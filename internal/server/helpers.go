package server

import (
	"errors"

	"quill/internal/models"
	"quill/internal/pagination"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// respondServiceError maps an application error onto an HTTP status.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR", "INVALID_CURSOR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "FORBIDDEN":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}

// pageParams holds the decoded pagination inputs of one feed request.
type pageParams struct {
	PageSize  int
	Direction pagination.Direction
	Cursor    *pagination.Cursor
	ViewerID  string
}

// parsePageParams decodes pageSize, orderBy, viewerId and the cursor pair.
// The cursor is decided here, exactly once: both id and createdAt present
// means resume, both absent means first page, anything else is rejected.
func parsePageParams(c *fiber.Ctx, defaultSize int, defaultDir pagination.Direction) (pageParams, error) {
	p := pageParams{
		PageSize: pagination.ClampPageSize(c.QueryInt("pageSize", defaultSize), defaultSize),
	}

	dir, err := pagination.ParseDirection(c.Query("orderBy"), defaultDir)
	if err != nil {
		return p, models.NewValidationError("orderBy must be 'asc' or 'desc'")
	}
	p.Direction = dir

	cur, err := pagination.ParseCursor(c.Query("id"), c.Query("createdAt"))
	if err != nil {
		return p, models.NewInvalidCursorError(err.Error())
	}
	p.Cursor = cur

	viewerID, err := optionalViewerID(c)
	if err != nil {
		return p, err
	}
	p.ViewerID = viewerID

	return p, nil
}

// parseScoreCursor decodes the id/score cursor pair of a ranked feed.
func parseScoreCursor(c *fiber.Ctx) (*pagination.ScoreCursor, error) {
	cur, err := pagination.ParseScoreCursor(c.Query("id"), c.Query("score"))
	if err != nil {
		return nil, models.NewInvalidCursorError(err.Error())
	}
	return cur, nil
}

// requiredViewerID is optionalViewerID for endpoints that act on behalf
// of a user and cannot proceed anonymously.
func requiredViewerID(c *fiber.Ctx) (string, error) {
	viewerID, err := optionalViewerID(c)
	if err != nil {
		return "", err
	}
	if viewerID == "" {
		return "", models.NewValidationError("viewerId is required")
	}
	return viewerID, nil
}

// optionalViewerID returns the viewerId query parameter, empty for
// anonymous requests. A present but malformed value is rejected.
func optionalViewerID(c *fiber.Ctx) (string, error) {
	viewerID := c.Query("viewerId")
	if viewerID == "" {
		return "", nil
	}
	if err := validation.ValidateUUID(viewerID); err != nil {
		return "", models.NewValidationError("Invalid viewer id")
	}
	return viewerID, nil
}
