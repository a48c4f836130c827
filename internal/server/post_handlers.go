package server

import (
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost creates a post in a thread (protected).
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		ThreadID string  `json:"thread_id"`
		Content  string  `json:"content"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		ThreadID: req.ThreadID,
		AuthorID: middleware.UserID(c),
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// EditPost updates a post's content and appends to its edit history
// (author or moderator).
func (s *Server) EditPost(c *fiber.Ctx) error {
	var req struct {
		Content    string `json:"content"`
		EditReason string `json:"edit_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.EditPost(c.UserContext(), service.EditPostInput{
		PostID:     c.Params("id"),
		EditorID:   middleware.UserID(c),
		Content:    req.Content,
		EditReason: req.EditReason,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// ListPostVersions returns a post's edit history, oldest first (protected).
func (s *Server) ListPostVersions(c *fiber.Ctx) error {
	versions, err := s.postService.ListPostVersions(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(versions)
}

// DeletePost soft-deletes a post (author or moderator).
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.SoftDeletePost(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HidePost hides or unhides a post (moderator).
func (s *Server) HidePost(c *fiber.Ctx) error {
	var req struct {
		Hidden bool   `json:"hidden"`
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	err := s.postService.HidePost(c.UserContext(), c.Params("id"), middleware.UserID(c), req.Hidden, req.Reason)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
