package service

import (
	"context"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"
)

type SubscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	threadRepo       repository.ThreadRepository
	categoryRepo     repository.CategoryRepository
	tagRepo          repository.TagRepository
}

type SubscribeInput struct {
	UserID       string
	ResourceType string
	ResourceID   string
	NotifyEmail  bool
	NotifyInApp  bool
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	threadRepo repository.ThreadRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subscriptionRepo: subscriptionRepo,
		threadRepo:       threadRepo,
		categoryRepo:     categoryRepo,
		tagRepo:          tagRepo,
	}
}

// Subscribe registers interest in a tag, thread or category. Subscribing
// twice to the same resource returns the existing subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, in SubscribeInput) (*models.Subscription, error) {
	if err := s.checkTarget(ctx, in.ResourceType, in.ResourceID); err != nil {
		return nil, err
	}

	return s.subscriptionRepo.Subscribe(ctx, &models.Subscription{
		UserID:       in.UserID,
		ResourceType: in.ResourceType,
		ResourceID:   in.ResourceID,
		NotifyEmail:  in.NotifyEmail,
		NotifyInApp:  in.NotifyInApp,
	})
}

func (s *SubscriptionService) checkTarget(ctx context.Context, resourceType, resourceID string) error {
	switch resourceType {
	case models.ResourceThread:
		thread, err := s.threadRepo.GetByID(ctx, resourceID)
		if err != nil {
			return err
		}
		if thread.IsDeleted {
			return models.NewNotFoundError("thread", resourceID)
		}
		return nil
	case models.ResourceCategory:
		_, err := s.categoryRepo.GetByID(ctx, resourceID)
		return err
	case models.ResourceTag:
		_, err := s.tagRepo.GetByID(ctx, resourceID)
		return err
	default:
		return models.NewValidationError("Subscriptions may target a tag, thread or category")
	}
}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, resourceType, resourceID string) error {
	return s.subscriptionRepo.Unsubscribe(ctx, userID, resourceType, resourceID)
}

func (s *SubscriptionService) ListSubscriptions(ctx context.Context, userID string) ([]models.Subscription, error) {
	return s.subscriptionRepo.ListForUser(ctx, userID)
}
