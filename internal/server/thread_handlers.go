package server

import (
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListThreads lists threads, optionally filtered by ?category_id or ?tag_id
// (public). Pinned threads come first, then most recent activity.
func (s *Server) ListThreads(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	threads, err := s.threadService.ListThreads(c.UserContext(), service.ListThreadsInput{
		CategoryID: c.Query("category_id"),
		TagID:      c.Query("tag_id"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(threads)
}

// GetThreadBySlug returns one thread and counts the view (public).
func (s *Server) GetThreadBySlug(c *fiber.Ctx) error {
	thread, err := s.threadService.GetThreadBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(thread)
}

// ListThreadPosts returns a thread's posts in creation order (public).
// Moderators also see hidden and deleted posts.
func (s *Server) ListThreadPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()

	includeModerated := false
	if userID := middleware.UserID(c); userID != "" {
		moderator, err := s.isModeratorByUserID(ctx, userID)
		if err == nil && moderator {
			includeModerated = true
		}
	}

	posts, err := s.postService.ListPosts(ctx, c.Params("id"), includeModerated)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// CreateThread creates a thread with optional tags (protected).
func (s *Server) CreateThread(c *fiber.Ctx) error {
	var req struct {
		Title      string   `json:"title"`
		CategoryID string   `json:"category_id"`
		TagIDs     []string `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.CreateThread(c.UserContext(), service.CreateThreadInput{
		Title:      req.Title,
		CategoryID: req.CategoryID,
		AuthorID:   middleware.UserID(c),
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

// PinThread pins or unpins a thread (moderator). Body: {"pinned": bool}.
func (s *Server) PinThread(c *fiber.Ctx) error {
	var req struct {
		Pinned bool `json:"pinned"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	if err := s.threadService.PinThread(c.UserContext(), c.Params("id"), req.Pinned); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LockThread locks or unlocks a thread (moderator). Body: {"locked": bool}.
func (s *Server) LockThread(c *fiber.Ctx) error {
	var req struct {
		Locked bool `json:"locked"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	if err := s.threadService.LockThread(c.UserContext(), c.Params("id"), req.Locked); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteThread soft-deletes a thread (author or moderator).
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	err := s.threadService.SoftDeleteThread(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddThreadTag attaches a tag to a thread (protected).
func (s *Server) AddThreadTag(c *fiber.Ctx) error {
	err := s.threadService.AddThreadTag(c.UserContext(), c.Params("id"), c.Params("tagId"), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RemoveThreadTag detaches a tag from a thread (protected).
func (s *Server) RemoveThreadTag(c *fiber.Ctx) error {
	err := s.threadService.RemoveThreadTag(c.UserContext(), c.Params("id"), c.Params("tagId"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
