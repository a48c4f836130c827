package server

import (
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListTags returns all tags (public).
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagService.ListTags(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(tags)
}

// GetTagBySlug returns one tag (public).
func (s *Server) GetTagBySlug(c *fiber.Ctx) error {
	tag, err := s.tagService.GetTagBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(tag)
}

// CreateTag creates a tag (protected).
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	tag, err := s.tagService.CreateTag(c.UserContext(), service.CreateTagInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}
