package server

import (
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ListCategories returns the category list (public). ?with_stats=true adds
// live thread/post counts, ?all=true includes deactivated categories.
func (s *Server) ListCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()
	activeOnly := !c.QueryBool("all", false)

	var (
		categories []models.Category
		err        error
	)
	if c.QueryBool("with_stats", false) {
		categories, err = s.categoryService.CategoriesWithStats(ctx, activeOnly)
	} else {
		categories, err = s.categoryService.ListCategories(ctx, activeOnly)
	}
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// GetCategoryBySlug returns one category (public).
func (s *Server) GetCategoryBySlug(c *fiber.Ctx) error {
	category, err := s.categoryService.GetCategoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// CreateCategory creates a category (moderator).
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		ParentID    *string `json:"parent_id"`
		Order       int     `json:"order"`
		Metadata    string  `json:"metadata"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(c.UserContext(), service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Order:       req.Order,
		CreatedByID: middleware.UserID(c),
		Metadata:    req.Metadata,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory updates name, description, order or parent (moderator).
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Order       *int    `json:"order"`
		ParentID    *string `json:"parent_id"`
		ClearParent bool    `json:"clear_parent"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.UpdateCategory(c.UserContext(), service.UpdateCategoryInput{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		ParentID:    req.ParentID,
		ClearParent: req.ClearParent,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// DeactivateCategory retires a category (moderator).
func (s *Server) DeactivateCategory(c *fiber.Ctx) error {
	if err := s.categoryService.DeactivateCategory(c.UserContext(), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
