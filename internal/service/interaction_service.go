package service

import (
	"context"

	"github.com/SelfhostedPro/foss.space/internal/models"
	"github.com/SelfhostedPro/foss.space/internal/repository"

	"gorm.io/gorm"
)

type InteractionService struct {
	db              *gorm.DB
	interactionRepo repository.InteractionRepository
	postRepo        repository.PostRepository
	threadRepo      repository.ThreadRepository
	userRepo        repository.UserRepository
	notifications   *NotificationService
}

type FlagInput struct {
	Type          string
	ResourceType  string
	ResourceID    string
	UserID        string
	Reason        string
	ReasonDetails string
}

func NewInteractionService(
	db *gorm.DB,
	interactionRepo repository.InteractionRepository,
	postRepo repository.PostRepository,
	threadRepo repository.ThreadRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
) *InteractionService {
	return &InteractionService{
		db:              db,
		interactionRepo: interactionRepo,
		postRepo:        postRepo,
		threadRepo:      threadRepo,
		userRepo:        userRepo,
		notifications:   notifications,
	}
}

// LikePost likes a post and notifies its author. A repeated like returns the
// existing row and stays silent.
func (s *InteractionService) LikePost(ctx context.Context, userID, postID string) (*models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted {
		return nil, models.NewNotFoundError("post", postID)
	}

	existing, err := s.interactionRepo.GetLike(ctx, userID, postID)
	if err == nil {
		return existing, nil
	}
	if !models.IsCode(err, models.CodeNotFound) {
		return nil, err
	}

	var like *models.Like
	var created []models.Notification
	err = s.db.Transaction(func(tx *gorm.DB) error {
		like, err = s.interactionRepo.WithTx(tx).Like(ctx, userID, postID)
		if err != nil {
			return err
		}
		created, err = s.notifications.WithTx(tx).NotifyPostLiked(ctx, post, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.notifications.PublishAll(ctx, created)

	return like, nil
}

func (s *InteractionService) UnlikePost(ctx context.Context, userID, postID string) error {
	return s.interactionRepo.Unlike(ctx, userID, postID)
}

func (s *InteractionService) BookmarkThread(ctx context.Context, userID, threadID, notes string) (*models.Bookmark, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		return nil, err
	}
	if thread.IsDeleted {
		return nil, models.NewNotFoundError("thread", threadID)
	}
	return s.interactionRepo.Bookmark(ctx, userID, threadID, notes)
}

func (s *InteractionService) UnbookmarkThread(ctx context.Context, userID, threadID string) error {
	return s.interactionRepo.Unbookmark(ctx, userID, threadID)
}

func (s *InteractionService) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	return s.interactionRepo.ListBookmarks(ctx, userID)
}

// FlagResource records a moderation report. Every call creates a new row so
// repeated reports from the same user are captured.
func (s *InteractionService) FlagResource(ctx context.Context, in FlagInput) (*models.Flag, error) {
	if in.Reason == "" {
		return nil, models.NewValidationError("Reason is required")
	}
	if err := s.checkFlagTarget(ctx, in.ResourceType, in.ResourceID); err != nil {
		return nil, err
	}

	flag := &models.Flag{
		Type:          in.Type,
		ResourceType:  in.ResourceType,
		ResourceID:    in.ResourceID,
		UserID:        in.UserID,
		Reason:        in.Reason,
		ReasonDetails: in.ReasonDetails,
	}
	if err := s.interactionRepo.CreateFlag(ctx, flag); err != nil {
		return nil, err
	}
	return flag, nil
}

// checkFlagTarget validates the polymorphic reference against the table its
// type names.
func (s *InteractionService) checkFlagTarget(ctx context.Context, resourceType, resourceID string) error {
	switch resourceType {
	case models.ResourceThread:
		_, err := s.threadRepo.GetByID(ctx, resourceID)
		return err
	case models.ResourcePost:
		_, err := s.postRepo.GetByID(ctx, resourceID)
		return err
	case models.ResourceUser:
		_, err := s.userRepo.GetByID(ctx, resourceID)
		return err
	default:
		return models.NewValidationError("Flags may target a thread, post or user")
	}
}

func (s *InteractionService) ReviewFlag(ctx context.Context, flagID, reviewerID string) (*models.Flag, error) {
	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, err
	}
	if !reviewer.IsModerator() {
		return nil, models.NewForbiddenError("Only moderators can review flags")
	}

	return s.interactionRepo.ReviewFlag(ctx, flagID, reviewerID)
}

func (s *InteractionService) ListOpenFlags(ctx context.Context, limit, offset int) ([]models.Flag, error) {
	limit, offset = normalizePage(limit, offset)
	return s.interactionRepo.ListOpenFlags(ctx, limit, offset)
}
