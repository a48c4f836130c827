package repository

import (
	"context"

	"github.com/SelfhostedPro/foss.space/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository defines the interface for subscription data operations.
type SubscriptionRepository interface {
	WithTx(tx *gorm.DB) SubscriptionRepository

	// Subscribe inserts the (user, resource) subscription or returns the
	// existing row; the unique triple index makes the call idempotent.
	Subscribe(ctx context.Context, sub *models.Subscription) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, userID, resourceType, resourceID string) error
	ListForResource(ctx context.Context, resourceType, resourceID string) ([]models.Subscription, error)
	ListForUser(ctx context.Context, userID string) ([]models.Subscription, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) WithTx(tx *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: tx}
}

func (r *subscriptionRepository) Subscribe(ctx context.Context, sub *models.Subscription) (*models.Subscription, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "resource_type"}, {Name: "resource_id"}},
			DoNothing: true,
		}).
		Create(sub).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var existing models.Subscription
	err = r.db.WithContext(ctx).
		First(&existing, "user_id = ? AND resource_type = ? AND resource_id = ?",
			sub.UserID, sub.ResourceType, sub.ResourceID).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &existing, nil
}

func (r *subscriptionRepository) Unsubscribe(ctx context.Context, userID, resourceType, resourceID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND resource_type = ? AND resource_id = ?", userID, resourceType, resourceID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("subscription", resourceID)
	}
	return nil
}

func (r *subscriptionRepository) ListForResource(ctx context.Context, resourceType, resourceID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *subscriptionRepository) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}
