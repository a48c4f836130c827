package server

import (
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Subscribe subscribes the caller to a tag, thread or category (protected).
// Subscribing twice to the same resource is a no-op.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	req := struct {
		ResourceType string `json:"resource_type"`
		ResourceID   string `json:"resource_id"`
		NotifyEmail  bool   `json:"notify_email"`
		NotifyInApp  bool   `json:"notify_in_app"`
	}{NotifyEmail: true, NotifyInApp: true}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	sub, err := s.subscriptionService.Subscribe(c.UserContext(), service.SubscribeInput{
		UserID:       middleware.UserID(c),
		ResourceType: req.ResourceType,
		ResourceID:   req.ResourceID,
		NotifyEmail:  req.NotifyEmail,
		NotifyInApp:  req.NotifyInApp,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sub)
}

// Unsubscribe removes a subscription identified by ?resource_type and
// ?resource_id (protected).
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	err := s.subscriptionService.Unsubscribe(
		c.UserContext(), middleware.UserID(c), c.Query("resource_type"), c.Query("resource_id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListSubscriptions returns the caller's subscriptions (protected).
func (s *Server) ListSubscriptions(c *fiber.Ctx) error {
	subs, err := s.subscriptionService.ListSubscriptions(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(subs)
}
