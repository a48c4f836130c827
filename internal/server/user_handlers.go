package server

import (
	"time"

	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SyncUser upserts the caller's identity-provider record (protected). The
// token subject must match the payload id: a user can only sync themselves.
func (s *Server) SyncUser(c *fiber.Ctx) error {
	var req struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Image         string `json:"image"`
		Role          string `json:"role"`
		Handle        string `json:"handle"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	if req.ID != middleware.UserID(c) {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("You can only sync your own account"))
	}

	user, err := s.userService.SyncUser(c.UserContext(), service.SyncUserInput{
		ID:            req.ID,
		Name:          req.Name,
		Email:         req.Email,
		EmailVerified: req.EmailVerified,
		Image:         req.Image,
		Role:          req.Role,
		Handle:        req.Handle,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetMyProfile returns the caller's profile (protected).
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile updates the caller's name, bio or image (protected).
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Name  *string `json:"name"`
		Bio   *string `json:"bio"`
		Image *string `json:"image"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID: middleware.UserID(c),
		Name:   req.Name,
		Bio:    req.Bio,
		Image:  req.Image,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserByHandle returns a public profile (public).
func (s *Server) GetUserByHandle(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByHandle(c.UserContext(), c.Params("handle"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(user)
}

// BanUser bans a user, optionally until an expiry instant (moderator).
func (s *Server) BanUser(c *fiber.Ctx) error {
	var req struct {
		Reason  string     `json:"reason"`
		Expires *time.Time `json:"expires"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	err := s.userService.BanUser(c.UserContext(), service.BanUserInput{
		UserID:      c.Params("id"),
		ModeratorID: middleware.UserID(c),
		Reason:      req.Reason,
		Expires:     req.Expires,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnbanUser lifts a ban (moderator).
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	err := s.userService.UnbanUser(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
