package service

import (
	"context"
	"fmt"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"

	"gorm.io/gorm"
)

// Publisher pushes committed notifications to online listeners. Delivery is
// best effort: the rows are already durable when Publish runs.
type Publisher interface {
	Publish(ctx context.Context, notification *models.Notification)
}

// NotificationService owns the fan-out that turns forum events into
// notification rows, plus the read-side operations. Fan-out methods are meant
// to run inside the event's own transaction (via WithTx) so a failed write
// rolls back the whole event; publishing happens after commit.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	subscriptionRepo repository.SubscriptionRepository
	publisher        Publisher
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	subscriptionRepo repository.SubscriptionRepository,
	publisher Publisher,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
	}
}

// WithTx returns a copy bound to the transaction. The copy carries no
// publisher: transactional callers publish after commit, not inside it.
func (s *NotificationService) WithTx(tx *gorm.DB) *NotificationService {
	return &NotificationService{
		notificationRepo: s.notificationRepo.WithTx(tx),
		subscriptionRepo: s.subscriptionRepo.WithTx(tx),
	}
}

// fanoutSource is one subscription pool contributing recipients to an event.
type fanoutSource struct {
	resourceType string
	resourceID   string
	notifType    string
	title        string
	message      string
}

// fanOut enumerates subscribers of each source in order, skipping the actor
// and anyone already collected: when a user is subscribed through several
// paths (thread and its category, say) the first matching source wins and
// they get exactly one row for the event.
func (s *NotificationService) fanOut(
	ctx context.Context,
	actorID string,
	sources []fanoutSource,
	template models.Notification,
) ([]models.Notification, error) {
	seen := map[string]bool{actorID: true}

	var rows []models.Notification
	for _, src := range sources {
		subs, err := s.subscriptionRepo.ListForResource(ctx, src.resourceType, src.resourceID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			if seen[sub.UserID] || !sub.NotifyInApp {
				continue
			}
			seen[sub.UserID] = true

			row := template
			row.UserID = sub.UserID
			row.Type = src.notifType
			row.Title = src.title
			row.Message = src.message
			rows = append(rows, row)
		}
	}

	if err := s.notificationRepo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// NotifyThreadCreated fans a new thread out to subscribers of its category
// and of every attached tag.
func (s *NotificationService) NotifyThreadCreated(ctx context.Context, thread *models.Thread, tagIDs []string) ([]models.Notification, error) {
	actorID := thread.AuthorID
	sources := []fanoutSource{{
		resourceType: models.ResourceCategory,
		resourceID:   thread.CategoryID,
		notifType:    models.NotificationCategorySub,
		title:        "New thread",
		message:      fmt.Sprintf("New thread %q in a category you follow", thread.Title),
	}}
	for _, tagID := range tagIDs {
		sources = append(sources, fanoutSource{
			resourceType: models.ResourceTag,
			resourceID:   tagID,
			notifType:    models.NotificationThreadSub,
			title:        "New tagged thread",
			message:      fmt.Sprintf("New thread %q carries a tag you follow", thread.Title),
		})
	}

	return s.fanOut(ctx, actorID, sources, models.Notification{
		ResourceType: models.ResourceThread,
		ResourceID:   thread.ID,
		ActorID:      &actorID,
	})
}

// NotifyThreadTagged fans a late tag attachment out to that tag's
// subscribers.
func (s *NotificationService) NotifyThreadTagged(ctx context.Context, thread *models.Thread, tagID, actorID string) ([]models.Notification, error) {
	sources := []fanoutSource{{
		resourceType: models.ResourceTag,
		resourceID:   tagID,
		notifType:    models.NotificationThreadSub,
		title:        "Thread tagged",
		message:      fmt.Sprintf("Thread %q was tagged with a tag you follow", thread.Title),
	}}
	return s.fanOut(ctx, actorID, sources, models.Notification{
		ResourceType: models.ResourceThread,
		ResourceID:   thread.ID,
		ActorID:      &actorID,
	})
}

// NotifyPostCreated fans a new post out to the thread's subscribers and to
// subscribers of the thread's category. Rows point at the thread, which is
// where the reader lands.
func (s *NotificationService) NotifyPostCreated(ctx context.Context, thread *models.Thread, post *models.Post) ([]models.Notification, error) {
	actorID := post.AuthorID
	sources := []fanoutSource{
		{
			resourceType: models.ResourceThread,
			resourceID:   thread.ID,
			notifType:    models.NotificationReply,
			title:        "New reply",
			message:      fmt.Sprintf("New reply in %q", thread.Title),
		},
		{
			resourceType: models.ResourceCategory,
			resourceID:   thread.CategoryID,
			notifType:    models.NotificationCategorySub,
			title:        "New activity",
			message:      fmt.Sprintf("New activity in %q", thread.Title),
		},
	}
	return s.fanOut(ctx, actorID, sources, models.Notification{
		ResourceType: models.ResourceThread,
		ResourceID:   thread.ID,
		ActorID:      &actorID,
	})
}

// NotifyMentions creates one mention row per mentioned user, pointing at the
// post that mentioned them. Self-mentions are dropped.
func (s *NotificationService) NotifyMentions(ctx context.Context, thread *models.Thread, post *models.Post, mentioned []models.User) ([]models.Notification, error) {
	actorID := post.AuthorID
	seen := map[string]bool{actorID: true}

	var rows []models.Notification
	for _, user := range mentioned {
		if seen[user.ID] {
			continue
		}
		seen[user.ID] = true
		rows = append(rows, models.Notification{
			UserID:       user.ID,
			Type:         models.NotificationMention,
			Title:        "You were mentioned",
			Message:      fmt.Sprintf("You were mentioned in %q", thread.Title),
			ResourceType: models.ResourcePost,
			ResourceID:   post.ID,
			ActorID:      &actorID,
		})
	}

	if err := s.notificationRepo.CreateBatch(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// NotifyPostLiked notifies the post's author about a fresh like. Liking your
// own post stays silent.
func (s *NotificationService) NotifyPostLiked(ctx context.Context, post *models.Post, actorID string) ([]models.Notification, error) {
	if post.AuthorID == actorID {
		return nil, nil
	}

	row := models.Notification{
		UserID:       post.AuthorID,
		Type:         models.NotificationLike,
		Title:        "Post liked",
		Message:      "Someone liked your post",
		ResourceType: models.ResourcePost,
		ResourceID:   post.ID,
		ActorID:      &actorID,
	}
	if err := s.notificationRepo.Create(ctx, &row); err != nil {
		return nil, err
	}
	return []models.Notification{row}, nil
}

// PublishAll pushes committed rows to the publisher, if one is configured.
func (s *NotificationService) PublishAll(ctx context.Context, rows []models.Notification) {
	if s.publisher == nil {
		return
	}
	for i := range rows {
		s.publisher.Publish(ctx, &rows[i])
	}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]models.Notification, error) {
	limit, offset = normalizePage(limit, offset)
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *NotificationService) MarkNotificationRead(ctx context.Context, id, userID string) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *NotificationService) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}
