package server

import (
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// LikePost likes a post (protected). Liking twice is a no-op.
func (s *Server) LikePost(c *fiber.Ctx) error {
	like, err := s.interactionService.LikePost(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(like)
}

// UnlikePost removes a like (protected).
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	if err := s.interactionService.UnlikePost(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// BookmarkThread bookmarks a thread with optional notes (protected).
func (s *Server) BookmarkThread(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	bookmark, err := s.interactionService.BookmarkThread(c.UserContext(), middleware.UserID(c), c.Params("id"), req.Notes)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bookmark)
}

// UnbookmarkThread removes a bookmark (protected).
func (s *Server) UnbookmarkThread(c *fiber.Ctx) error {
	if err := s.interactionService.UnbookmarkThread(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListBookmarks returns the caller's bookmarks, newest first (protected).
func (s *Server) ListBookmarks(c *fiber.Ctx) error {
	bookmarks, err := s.interactionService.ListBookmarks(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(bookmarks)
}

// CreateFlag reports a thread, post or user (protected).
func (s *Server) CreateFlag(c *fiber.Ctx) error {
	var req struct {
		Type          string `json:"type"`
		ResourceType  string `json:"resource_type"`
		ResourceID    string `json:"resource_id"`
		Reason        string `json:"reason"`
		ReasonDetails string `json:"reason_details"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	flag, err := s.interactionService.FlagResource(c.UserContext(), service.FlagInput{
		Type:          req.Type,
		ResourceType:  req.ResourceType,
		ResourceID:    req.ResourceID,
		UserID:        middleware.UserID(c),
		Reason:        req.Reason,
		ReasonDetails: req.ReasonDetails,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(flag)
}

// ListOpenFlags returns unreviewed flags, oldest first (moderator).
func (s *Server) ListOpenFlags(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	flags, err := s.interactionService.ListOpenFlags(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(flags)
}

// ReviewFlag marks a flag reviewed (moderator). Reviewing twice fails.
func (s *Server) ReviewFlag(c *fiber.Ctx) error {
	flag, err := s.interactionService.ReviewFlag(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(flag)
}
