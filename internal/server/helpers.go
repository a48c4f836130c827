package server

import (
	"context"

	"github.com/SelfhostedPro/foss.space/internal/middleware"
	"github.com/SelfhostedPro/foss.space/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given
// default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{Limit: limit, Offset: offset}
}

// isModeratorByUserID reports whether the user may perform moderation
// actions.
func (s *Server) isModeratorByUserID(ctx context.Context, userID string) (bool, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsModerator(), nil
}

// ModeratorRequired returns middleware that rejects non-moderators with 403.
// Must run after AuthRequired so the user id is available.
func (s *Server) ModeratorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)

		moderator, err := s.isModeratorByUserID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if !moderator {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Moderator role required"))
		}
		return c.Next()
	}
}
