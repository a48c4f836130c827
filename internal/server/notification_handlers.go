package server

import (
	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications returns the caller's notifications, newest first.
// ?unread=true filters to unread rows (protected).
func (s *Server) ListNotifications(c *fiber.Ctx) error {
	page := parsePagination(c, 20)

	notifications, err := s.notificationService.ListNotifications(
		c.UserContext(), middleware.UserID(c), c.QueryBool("unread", false), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(notifications)
}

// UnreadCount returns the caller's unread notification count (protected).
func (s *Server) UnreadCount(c *fiber.Ctx) error {
	count, err := s.notificationService.UnreadCount(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

// MarkNotificationRead marks one notification read (protected). Marking an
// already-read notification is a no-op.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	err := s.notificationService.MarkNotificationRead(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllNotificationsRead marks every unread notification read (protected).
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	err := s.notificationService.MarkAllNotificationsRead(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
