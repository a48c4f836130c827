package service

import (
	"context"
	"time"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

// SyncUserInput carries the identity provider's view of a user. The provider
// owns id, email and role; this side only stores them.
type SyncUserInput struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	Image         string
	Role          string
	Handle        string
}

type UpdateProfileInput struct {
	UserID string
	Name   *string
	Bio    *string
	Image  *string
}

type BanUserInput struct {
	UserID      string
	ModeratorID string
	Reason      string
	Expires     *time.Time
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// SyncUser upserts the provider record: first sign-in creates the row, later
// sign-ins refresh the profile fields. Ban state is never touched here.
func (s *UserService) SyncUser(ctx context.Context, in SyncUserInput) (*models.User, error) {
	if in.ID == "" {
		return nil, models.NewValidationError("ID is required")
	}
	if in.Email == "" {
		return nil, models.NewValidationError("Email is required")
	}
	if in.Handle == "" {
		return nil, models.NewValidationError("Handle is required")
	}

	user := &models.User{
		ID:            in.ID,
		Name:          in.Name,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		Image:         in.Image,
		Role:          in.Role,
		Handle:        in.Handle,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.ID)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	return s.userRepo.GetByHandle(ctx, handle)
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, models.NewValidationError("Name is required")
		}
		user.Name = *in.Name
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Image != nil {
		user.Image = *in.Image
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// BanUser bans a user, optionally until an expiry instant. Moderators cannot
// ban themselves or other moderators.
func (s *UserService) BanUser(ctx context.Context, in BanUserInput) error {
	moderator, err := s.userRepo.GetByID(ctx, in.ModeratorID)
	if err != nil {
		return err
	}
	if !moderator.IsModerator() {
		return models.NewForbiddenError("Only moderators can ban users")
	}
	if in.UserID == in.ModeratorID {
		return models.NewValidationError("You cannot ban yourself")
	}

	target, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if target.IsModerator() {
		return models.NewForbiddenError("Moderators cannot be banned")
	}

	return s.userRepo.SetBan(ctx, in.UserID, true, in.Reason, in.Expires)
}

func (s *UserService) UnbanUser(ctx context.Context, moderatorID, userID string) error {
	moderator, err := s.userRepo.GetByID(ctx, moderatorID)
	if err != nil {
		return err
	}
	if !moderator.IsModerator() {
		return models.NewForbiddenError("Only moderators can unban users")
	}

	return s.userRepo.SetBan(ctx, userID, false, "", nil)
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	limit, offset = normalizePage(limit, offset)
	return s.userRepo.List(ctx, limit, offset)
}
